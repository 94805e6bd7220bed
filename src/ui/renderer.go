package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const Logo = `
 █████╗ ██████╗ ██████╗ ██╗    ██╗███████╗ █████╗ ██╗   ██╗███████╗
██╔══██╗██╔══██╗██╔══██╗██║    ██║██╔════╝██╔══██╗██║   ██║██╔════╝
███████║██████╔╝██████╔╝██║ █╗ ██║█████╗  ███████║██║   ██║█████╗
██╔══██║██╔═══╝ ██╔═══╝ ██║███╗██║██╔══╝  ██╔══██║╚██╗ ██╔╝██╔══╝
██║  ██║██║     ██║     ╚███╔███╔╝███████╗██║  ██║ ╚████╔╝ ███████╗
╚═╝  ╚═╝╚═╝     ╚═╝      ╚══╝╚══╝ ╚══════╝╚═╝  ╚═╝  ╚═══╝  ╚══════╝
              P R O M P T  ·  T O  ·  A P P L I C A T I O N
`

// Render generates the full UI string based on the provided state.
func Render(s State, styles Styles) string {
	header := renderHeader(s, styles)
	body := renderBody(s, styles)
	footer := renderFooter(s, styles)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func renderHeader(s State, styles Styles) string {
	logoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AD8CFF")).Bold(true).
		Background(lipgloss.Color("#000000")).UnsetBackground()
	subtitle := styles.Header.Render("AppWeave")
	if s.ProjectName != "" {
		subtitle = styles.Header.Render(fmt.Sprintf("AppWeave · %s", s.ProjectName))
	}
	styledLogo := logoStyle.Render(Logo)

	return lipgloss.JoinVertical(lipgloss.Left, styledLogo, subtitle)
}

func renderFooter(s State, styles Styles) string {
	help := "ctrl+c: quit | tab: cycle panels | ctrl+a/p/g/t: code/preview/diagram/terminal"
	if s.Focus == PanelCode {
		help += " | ctrl+w: close tab"
	}
	return styles.Footer.Render(help)
}

func renderBody(s State, styles Styles) string {
	left := renderChatColumn(s, styles)
	right := renderRightColumn(s, styles)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func renderChatColumn(s State, styles Styles) string {
	panelStyle := styles.Panel
	if s.Focus == PanelChat {
		panelStyle = styles.PanelFocused
	}

	var rows []string
	rows = append(rows, styles.PanelTitle.Render("💬 Chat"))
	rows = append(rows, s.ChatViewport.View())
	if s.IsThinking {
		rows = append(rows, styles.Thinking.Render(fmt.Sprintf("AppWeave %s %s", s.Spinner.View(), s.ThinkingText)))
	}
	if s.Notice != "" {
		rows = append(rows, styles.Error.Render("⚠️ "+s.Notice))
	}
	rows = append(rows, s.TextArea.View())

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderRightColumn(s State, styles Styles) string {
	panelStyle := styles.Panel
	if s.Focus != PanelChat {
		panelStyle = styles.PanelFocused
	}

	var rows []string
	rows = append(rows, renderPanelTabs(s, styles))
	if s.ActiveRight == PanelCode {
		rows = append(rows, renderFileTabs(s, styles))
	}
	rows = append(rows, s.BodyViewport.View())
	if s.ActiveRight == PanelCode && s.FileTree != "" {
		rows = append(rows, styles.Tree.Render(s.FileTree))
	}
	rows = append(rows, renderStatus(s, styles))

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderPanelTabs(s State, styles Styles) string {
	labels := []struct {
		panel Panel
		label string
	}{
		{PanelCode, "📝 Code"},
		{PanelPreview, "👁 Preview"},
		{PanelDiagram, "📊 Diagram"},
		{PanelTerminal, "🖥 Terminal"},
	}
	var parts []string
	for _, l := range labels {
		if l.panel == s.ActiveRight {
			parts = append(parts, styles.TabActive.Render(l.label))
		} else {
			parts = append(parts, styles.Tab.Render(l.label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderFileTabs(s State, styles Styles) string {
	if len(s.Tabs) == 0 {
		return styles.Subtle.Render("no files yet")
	}
	var parts []string
	for _, t := range s.Tabs {
		label := t.Path
		if t.Unsaved {
			label += " ●"
		}
		switch {
		case t.Active:
			parts = append(parts, styles.TabActive.Render(label))
		case t.Unsaved:
			parts = append(parts, styles.TabUnsaved.Render(label))
		default:
			parts = append(parts, styles.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderStatus(s State, styles Styles) string {
	var items []string
	items = append(items, styles.Status.Render(fmt.Sprintf("FILES: %d (%s)", s.FileCount, humanSize(s.TotalBytes))))
	if s.ServerURL != "" {
		items = append(items, styles.StatusRight.Render(fmt.Sprintf("SERVER: %s", s.ServerURL)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

func humanSize(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
