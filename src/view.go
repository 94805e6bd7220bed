package src

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/appweave/appweave/src/ui"
)

func (m *Model) View() string {
	return ui.Render(m.uiState(), m.style)
}

func (m *Model) viewHeader() string {
	logoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AD8CFF")).Bold(true).
		Background(lipgloss.Color("#000000")).UnsetBackground()
	return logoStyle.Render(ui.Logo)
}

// uiState snapshots everything the renderer needs.
func (m *Model) uiState() ui.State {
	tabs := make([]ui.Tab, 0, len(m.editor.Open))
	for _, p := range m.editor.Open {
		tabs = append(tabs, ui.Tab{
			Path:    p,
			Active:  p == m.editor.Selected,
			Unsaved: m.editor.IsUnsaved(p),
		})
	}

	files := m.tree.Files()
	var totalBytes int64
	for _, content := range files {
		totalBytes += int64(len(content))
	}

	return ui.State{
		Focus:        m.focus,
		ActiveRight:  m.activeRight,
		ProjectName:  m.projectName,
		ServerURL:    m.serverURL,
		IsThinking:   m.isThinking,
		ThinkingText: m.thinking,
		Notice:       m.notice,
		Tabs:         tabs,
		FileTree:     m.tree.RenderTree(),
		FileCount:    len(files),
		TotalBytes:   totalBytes,
		Width:        m.width,
		Height:       m.height,
		TextArea:     m.textarea,
		ChatViewport: m.chatVP,
		BodyViewport: m.bodyVP,
		Spinner:      m.spinner,
	}
}
