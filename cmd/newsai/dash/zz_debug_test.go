package dash

import (
	"fmt"
	"testing"
)

func TestZZDebugChatNotice(t *testing.T) {
	m := NewTestModel(WithTab(TabChat), WithNotice("Answers will focus on sports"))
	m.refreshContent()

	fmt.Printf("renderChat() = %q\n", m.renderChat())
	fmt.Printf("safeRenderMarkdown = %q\n", m.safeRenderMarkdown("Answers will focus on sports"))
	fmt.Printf("renderer nil? %v\n", m.renderer == nil)
	fmt.Printf("View() = %q\n", m.View())
}
