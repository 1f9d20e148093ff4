// Package logging provides config-driven categorized file-based logging for newsai.
// Logs are written to <home>/logs/ with separate files per category.
// Logging is controlled by debug_mode in config.yaml - when false, no logs are written.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Category names one log stream. Each category writes to its own file.
type Category string

const (
	CategoryBoot     Category = "boot"     // Startup, config load, shutdown
	CategoryConfig   Category = "config"   // Config reload and file watching
	CategoryAPI      Category = "api"      // Backend HTTP calls
	CategoryChat     Category = "chat"     // Chat session activity
	CategoryPipeline Category = "pipeline" // Extraction and story pipeline runs
	CategoryDash     Category = "dash"     // Dashboard TUI events
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

func parseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// settings is the logging block of config.yaml, read here directly so this
// package does not import internal/config.
type settings struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`
	JSONFormat bool            `yaml:"json_format"`
	Categories map[string]bool `yaml:"categories"`
}

// registry owns the active settings and the open per-category files.
type registry struct {
	mu      sync.Mutex
	home    string
	dir     string
	cfg     settings
	minimum Level
	files   map[Category]*os.File
}

var reg = &registry{files: make(map[Category]*os.File)}

// Initialize points the package at the newsai home directory (typically
// ~/.newsai), reads the logging block of config.yaml, and creates the logs
// directory when debug mode is on. Without debug mode every write is a no-op.
func Initialize(home string) error {
	if home == "" {
		return fmt.Errorf("home directory required")
	}

	reg.mu.Lock()
	reg.home = home
	reg.dir = filepath.Join(home, "logs")
	reg.mu.Unlock()

	if err := ReloadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not load config: %v\n", err)
	}

	if !IsDebugMode() {
		return nil
	}

	reg.mu.Lock()
	dir := reg.dir
	level := reg.cfg.Level
	reg.mu.Unlock()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== newsai logging initialized ===")
	boot.Info("home=%s logs=%s level=%s", home, dir, level)
	return nil
}

// ReloadConfig re-reads the logging block from <home>/config.yaml. A missing
// file means production mode.
func ReloadConfig() error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.home == "" {
		return nil
	}

	data, err := os.ReadFile(filepath.Join(reg.home, "config.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			reg.cfg = settings{}
			reg.minimum = LevelInfo
			return nil
		}
		return err
	}

	var file struct {
		Logging settings `yaml:"logging"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	reg.cfg = file.Logging
	reg.minimum = parseLevel(reg.cfg.Level)
	return nil
}

// IsDebugMode reports whether file logging is active at all.
func IsDebugMode() bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.cfg.DebugMode
}

// IsCategoryEnabled reports whether the category writes anywhere. Categories
// absent from the config default to enabled while debug mode is on.
func IsCategoryEnabled(cat Category) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.enabledLocked(cat)
}

func (r *registry) enabledLocked(cat Category) bool {
	if !r.cfg.DebugMode || r.dir == "" {
		return false
	}
	if r.cfg.Categories == nil {
		return true
	}
	enabled, listed := r.cfg.Categories[string(cat)]
	return !listed || enabled
}

// write formats one entry and appends it to the category file. Disabled
// categories and sub-threshold levels drop the entry before any file work.
func (r *registry) write(cat Category, lv Level, requestID, msg string, fields []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.enabledLocked(cat) || lv < r.minimum {
		return
	}

	f, err := r.fileLocked(cat)
	if err != nil {
		return
	}

	now := time.Now()
	if r.cfg.JSONFormat {
		entry := map[string]any{
			"time":     now.Format(time.RFC3339Nano),
			"category": string(cat),
			"level":    lv.String(),
			"message":  msg,
		}
		if requestID != "" {
			entry["request_id"] = requestID
		}
		if len(fields) > 0 {
			entry["fields"] = fields
		}
		if data, err := json.Marshal(entry); err == nil {
			fmt.Fprintf(f, "%s\n", data)
			return
		}
	}

	line := msg
	if requestID != "" {
		line = fmt.Sprintf("[req:%s] %s", requestID, line)
	}
	if len(fields) > 0 {
		line += " | " + strings.Join(fields, " ")
	}
	fmt.Fprintf(f, "%s [%s] %s\n", now.Format("2006-01-02 15:04:05.000"), lv, line)
}

// fileLocked lazily opens the date-stamped file for a category. Callers hold
// the registry lock.
func (r *registry) fileLocked(cat Category) (*os.File, error) {
	if f, ok := r.files[cat]; ok {
		return f, nil
	}

	name := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02"), cat)
	f, err := os.OpenFile(filepath.Join(r.dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file for %s: %v\n", cat, err)
		return nil, err
	}
	r.files[cat] = f
	return f, nil
}

// CloseAll closes every open log file. Call at shutdown.
func CloseAll() {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for _, f := range reg.files {
		f.Close()
	}
	reg.files = make(map[Category]*os.File)
}

// Logger is a lightweight handle for one category. Handles stay valid across
// config reloads; enablement is checked on every write.
type Logger struct {
	cat Category
}

// Get returns the logger for a category. Always non-nil; writes become no-ops
// when the category is disabled.
func Get(cat Category) *Logger {
	return &Logger{cat: cat}
}

// Debug logs at debug level.
func (l *Logger) Debug(format string, args ...any) {
	reg.write(l.cat, LevelDebug, "", fmt.Sprintf(format, args...), nil)
}

// Info logs at info level.
func (l *Logger) Info(format string, args ...any) {
	reg.write(l.cat, LevelInfo, "", fmt.Sprintf(format, args...), nil)
}

// Warn logs at warn level.
func (l *Logger) Warn(format string, args ...any) {
	reg.write(l.cat, LevelWarn, "", fmt.Sprintf(format, args...), nil)
}

// Error logs at error level.
func (l *Logger) Error(format string, args ...any) {
	reg.write(l.cat, LevelError, "", fmt.Sprintf(format, args...), nil)
}

// Convenience wrappers for the common category/level pairs.

func Boot(format string, args ...any) {
	Get(CategoryBoot).Info(format, args...)
}

func API(format string, args ...any) {
	Get(CategoryAPI).Info(format, args...)
}

func Chat(format string, args ...any) {
	Get(CategoryChat).Info(format, args...)
}

func ChatDebug(format string, args ...any) {
	Get(CategoryChat).Debug(format, args...)
}

func Pipeline(format string, args ...any) {
	Get(CategoryPipeline).Info(format, args...)
}

func Dash(format string, args ...any) {
	Get(CategoryDash).Info(format, args...)
}

func DashDebug(format string, args ...any) {
	Get(CategoryDash).Debug(format, args...)
}

// RequestLogger stamps every entry with a correlation id so one backend call
// can be traced across its request, response, and decode lines.
type RequestLogger struct {
	cat    Category
	id     string
	fields []string
}

// WithRequestID creates a request-scoped logger for a category.
func WithRequestID(cat Category, requestID string) *RequestLogger {
	return &RequestLogger{cat: cat, id: requestID}
}

// WithField appends a key=value pair carried on every entry. Fields keep
// their append order.
func (r *RequestLogger) WithField(key string, value any) *RequestLogger {
	r.fields = append(r.fields, fmt.Sprintf("%s=%v", key, value))
	return r
}

func (r *RequestLogger) Debug(format string, args ...any) {
	reg.write(r.cat, LevelDebug, r.id, fmt.Sprintf(format, args...), r.fields)
}

func (r *RequestLogger) Info(format string, args ...any) {
	reg.write(r.cat, LevelInfo, r.id, fmt.Sprintf(format, args...), r.fields)
}

func (r *RequestLogger) Error(format string, args ...any) {
	reg.write(r.cat, LevelError, r.id, fmt.Sprintf(format, args...), r.fields)
}

// Timer measures one operation and logs its duration when stopped.
type Timer struct {
	cat   Category
	op    string
	began time.Time
}

// StartTimer begins timing an operation.
func StartTimer(cat Category, op string) *Timer {
	return &Timer{cat: cat, op: op, began: time.Now()}
}

// Stop logs the elapsed time at debug level and returns it.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.began)
	Get(t.cat).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}
