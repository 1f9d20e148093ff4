package api

import "time"

// Article is one news article as served by the backend.
type Article struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Content     string   `json:"content"`
	Category    string   `json:"category"`
	Source      string   `json:"source"`
	Author      string   `json:"author,omitempty"`
	PublishedAt string   `json:"publishedAt"` // ISO format datetime string
	URL         string   `json:"url"`
	Highlights  []string `json:"highlights"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// PublishedTime parses the article's publication timestamp.
func (a Article) PublishedTime() (time.Time, error) {
	return time.Parse(time.RFC3339, a.PublishedAt)
}

// Dashboard is the aggregated landing page payload.
type Dashboard struct {
	TopArticles []Article            `json:"topArticles"`
	Categories  map[string][]Article `json:"categories"`
	Sources     []SourceInfo         `json:"sources"`
}

// SourceInfo describes one news source.
type SourceInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CategoryInfo describes one news category with its display metadata.
type CategoryInfo struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Color    string `json:"color"`
}

// HealthStatus is the backend health snapshot.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

// Healthy reports whether the backend considers itself up.
func (h HealthStatus) Healthy() bool {
	return h.Status == "healthy"
}

// ArticlesQuery filters the stored article list.
type ArticlesQuery struct {
	Category string
	Source   string
	Limit    int
}

// LatestQuery parameterizes a fresh extraction of latest articles.
type LatestQuery struct {
	Sources     []string
	Categories  []string
	MaxArticles int
}

// ExtractionRequest asks the backend to scrape and store new articles.
type ExtractionRequest struct {
	Sources     []string `json:"sources,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	MaxArticles int      `json:"max_articles,omitempty"`
}

// ExtractionResult summarizes one extraction job.
type ExtractionResult struct {
	Success         bool           `json:"success"`
	Message         string         `json:"message"`
	TotalArticles   int            `json:"total_articles"`
	SuccessfulSaves int            `json:"successful_saves"`
	FailedSaves     int            `json:"failed_saves"`
	ByCategory      map[string]int `json:"by_category"`
	BySource        map[string]int `json:"by_source"`
	ExtractionTime  float64        `json:"extraction_time"`
	Errors          []string       `json:"errors"`
}

// EnhancedQuery parameterizes the full extraction+clustering+prioritization
// pipeline run.
type EnhancedQuery struct {
	Sources             []string
	Categories          []string
	ArticlesPerCategory int
}

// EnhancedResult is the terminal payload of a pipeline run: the prioritized
// top stories plus per-phase metric summaries.
type EnhancedResult struct {
	Success        bool    `json:"success"`
	Message        string  `json:"message"`
	ProcessingTime float64 `json:"processing_time"`
	TopStories     []Story `json:"top_stories"`

	Metrics struct {
		TotalArticlesExtracted int `json:"total_articles_extracted"`
		SimilarPairsFound      int `json:"similar_pairs_found"`
		ClustersCreated        int `json:"clusters_created"`
		StoriesPrioritized     int `json:"stories_prioritized"`
		TopStoriesSelected     int `json:"top_stories_selected"`
	} `json:"metrics"`

	ExtractionSummary struct {
		ExpectedArticles    int            `json:"expected_articles"`
		ExtractionRate      float64        `json:"extraction_rate"`
		SourcesProcessed    int            `json:"sources_processed"`
		CategoriesProcessed int            `json:"categories_processed"`
		ByCategory          map[string]int `json:"by_category"`
		BySource            map[string]int `json:"by_source"`
	} `json:"extraction_summary"`

	SimilaritySummary struct {
		TotalComparisons       int     `json:"total_comparisons"`
		SimilarityRate         float64 `json:"similarity_rate"`
		AverageSimilarityScore float64 `json:"average_similarity_score"`
	} `json:"similarity_summary"`

	PrioritizationSummary struct {
		TotalStoriesAnalyzed int            `json:"total_stories_analyzed"`
		AveragePriorityScore float64        `json:"average_priority_score"`
		PriorityDistribution map[string]int `json:"priority_distribution"`
	} `json:"prioritization_summary"`
}

// Story is one prioritized story cluster from the enhanced pipeline.
// The nested article payloads keep the backend's loose shape.
type Story struct {
	StoryID             string           `json:"story_id"`
	MainArticleID       int              `json:"main_article_id"`
	Title               string           `json:"title"`
	Summary             string           `json:"summary"`
	Category            string           `json:"category"`
	Sources             []string         `json:"sources"`
	ArticleCount        int              `json:"article_count"`
	LatestPublished     string           `json:"latest_published"`
	FirstPublished      string           `json:"first_published"`
	PriorityLevel       string           `json:"priority_level"`
	PriorityScore       float64          `json:"priority_score"`
	BreakingNewsScore   float64          `json:"breaking_news_score"`
	CoverageScore       float64          `json:"coverage_score"`
	QualityScore        float64          `json:"quality_score"`
	TimeDescription     string           `json:"time_description"`
	CoverageDescription string           `json:"coverage_description"`
	IsBreaking          bool             `json:"is_breaking"`
	SimilarArticles     []map[string]any `json:"similar_articles"`
	Representative      map[string]any   `json:"representative_article"`
	UrgencyKeywords     []string         `json:"urgency_keywords"`
	GeographicScope     string           `json:"geographic_scope"`
}

// PipelineStatus is the enhanced pipeline readiness snapshot.
type PipelineStatus struct {
	Success        bool   `json:"success"`
	Timestamp      string `json:"timestamp"`
	PipelineStatus struct {
		Database struct {
			TotalArticles      int            `json:"total_articles"`
			ClassifiedArticles int            `json:"classified_articles"`
			ByCategory         map[string]int `json:"by_category"`
			BySource           map[string]int `json:"by_source"`
		} `json:"database"`
		Similarity struct {
			RecentSimilarities int     `json:"recent_similarities"`
			AverageScore       float64 `json:"average_score"`
		} `json:"similarity"`
		PipelineReady bool   `json:"pipeline_ready"`
		LastCheck     string `json:"last_check"`
	} `json:"pipeline_status"`
}

// SimilarResult lists articles similar to a given article.
type SimilarResult struct {
	ArticleID       int              `json:"article_id"`
	SimilarArticles []map[string]any `json:"similar_articles"`
	Count           int              `json:"count"`
	Message         string           `json:"message,omitempty"`
}

// ChatRequest is one question to the news assistant.
type ChatRequest struct {
	Message        string `json:"message"`
	SessionID      string `json:"session_id,omitempty"`
	UserID         string `json:"user_id,omitempty"`
	CategoryFilter string `json:"category_filter,omitempty"`
}

// ChatReply is the assistant's answer with its grounding.
type ChatReply struct {
	Response        string           `json:"response"`
	SessionID       string           `json:"session_id"`
	Sources         []ChatSource     `json:"sources"`
	ContextArticles []map[string]any `json:"context_articles"`
}

// ChatSource is one reference document backing an assistant answer.
type ChatSource struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Source        string `json:"source"`
	PublishedDate string `json:"published_date,omitempty"`
	Summary       string `json:"summary,omitempty"`
}

// ChatHealth is the chat subsystem health snapshot.
type ChatHealth struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// SearchResult is a retrieval-only article search, no chat turn involved.
type SearchResult struct {
	Query        string           `json:"query"`
	Results      []map[string]any `json:"results"`
	TotalResults int              `json:"total_results"`
}

// sourcesEnvelope unwraps GET /sources.
type sourcesEnvelope struct {
	Sources []SourceInfo `json:"sources"`
}

// categoriesEnvelope unwraps GET /categories.
type categoriesEnvelope struct {
	Categories []CategoryInfo `json:"categories"`
}
