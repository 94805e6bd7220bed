package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
)

func testState() State {
	ta := textarea.New()
	ta.SetWidth(40)
	return State{
		Focus:        PanelChat,
		ActiveRight:  PanelCode,
		TextArea:     ta,
		ChatViewport: viewport.New(40, 10),
		BodyViewport: viewport.New(60, 10),
		Spinner:      spinner.New(),
	}
}

func TestRenderContainsLogo(t *testing.T) {
	output := Render(testState(), NewStyles())
	if !strings.Contains(output, "AppWeave") && !strings.Contains(output, "P R O M P T") {
		t.Errorf("Expected output to contain logo or header text")
	}
}

func TestRenderShowsPanelTabs(t *testing.T) {
	output := Render(testState(), NewStyles())
	for _, want := range []string{"Code", "Preview", "Diagram", "Terminal"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected panel tab %q in output", want)
		}
	}
}

func TestRenderShowsFileTabs(t *testing.T) {
	s := testState()
	s.Tabs = []Tab{
		{Path: "src/App.tsx", Active: true},
		{Path: "index.html", Unsaved: true},
	}
	output := Render(s, NewStyles())
	if !strings.Contains(output, "src/App.tsx") {
		t.Errorf("Expected active tab in output")
	}
	if !strings.Contains(output, "index.html ●") {
		t.Errorf("Expected unsaved marker on dirty tab")
	}
}

func TestRenderShowsNoticeAndThinking(t *testing.T) {
	s := testState()
	s.IsThinking = true
	s.ThinkingText = "weaving components"
	s.Notice = "could not parse generated code"
	output := Render(s, NewStyles())
	if !strings.Contains(output, "weaving components") {
		t.Errorf("Expected thinking text in output")
	}
	if !strings.Contains(output, "could not parse generated code") {
		t.Errorf("Expected notice in output")
	}
}

func TestRenderShowsServerURL(t *testing.T) {
	s := testState()
	s.ServerURL = "http://localhost:5173"
	output := Render(s, NewStyles())
	if !strings.Contains(output, "http://localhost:5173") {
		t.Errorf("Expected server URL in status bar")
	}
}

func TestPanelNames(t *testing.T) {
	cases := map[Panel]string{
		PanelChat:     "chat",
		PanelCode:     "code",
		PanelPreview:  "preview",
		PanelDiagram:  "diagram",
		PanelTerminal: "terminal",
	}
	for p, want := range cases {
		if got := p.String(); got != want {
			t.Errorf("Panel(%d).String() = %q want %q", p, got, want)
		}
	}
}
