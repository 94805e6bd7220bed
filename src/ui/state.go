package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
)

// Panel identifies one workspace pane.
type Panel int

const (
	PanelChat Panel = iota
	PanelCode
	PanelPreview
	PanelDiagram
	PanelTerminal
)

func (p Panel) String() string {
	switch p {
	case PanelChat:
		return "chat"
	case PanelCode:
		return "code"
	case PanelPreview:
		return "preview"
	case PanelDiagram:
		return "diagram"
	case PanelTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Tab is one open file in the code panel.
type Tab struct {
	Path    string
	Active  bool
	Unsaved bool
}

// State contains all the data required to render the UI.
// This decouples the renderer from the main application logic.
type State struct {
	Focus        Panel
	ActiveRight  Panel
	ProjectName  string
	WorkingDir   string
	ServerURL    string
	IsThinking   bool
	ThinkingText string
	Notice       string

	Tabs       []Tab
	FileTree   string
	FileCount  int
	TotalBytes int64

	Width  int
	Height int

	// Bubble Tea models
	TextArea     textarea.Model
	ChatViewport viewport.Model
	BodyViewport viewport.Model
	Spinner      spinner.Model
}
