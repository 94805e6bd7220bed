package src

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/appweave/appweave/src/ui"
)

const statusTickInterval = 2 * time.Second

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		headerHeight := lipgloss.Height(m.viewHeader())
		footerHeight := 1
		bodyHeight := m.height - headerHeight - footerHeight - 2
		if bodyHeight < 5 {
			bodyHeight = 5
		}
		leftWidth := m.width / 3
		m.textarea.SetWidth(leftWidth - 2)
		m.chatVP.Width = leftWidth - 2
		m.chatVP.Height = bodyHeight - m.textarea.Height() - 3
		m.bodyVP.Width = m.width - leftWidth - 4
		m.bodyVP.Height = bodyHeight - 4
		m.refreshChat()
		m.refreshBody()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case generationMsg:
		return m.applyGeneration(msg)

	case statusTickMsg:
		if !m.isThinking {
			return m, nil
		}
		m.phraseIdx = (m.phraseIdx + 1) % len(thinkingPhrases)
		m.thinking = thinkingPhrases[m.phraseIdx]
		return m, m.statusTick()

	case TypingTickMsg:
		cmd := m.playback.Advance(msg)
		m.showTypingProgress()
		return m, cmd

	case terminalChunkMsg:
		return m.applyTerminalChunk(msg)

	case diagramMsg:
		m.diagramSVG = msg.svg
		m.diagramNote = msg.note
		m.bus.Publish(Event{Topic: TopicDiagramRendered, Key: NormalizeSVG(msg.svg), Payload: msg.svg})
		return m, nil
	}

	var cmds []tea.Cmd
	if m.focus == ui.PanelChat || m.focus == ui.PanelTerminal {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		var cmd tea.Cmd
		m.bodyVP, cmd = m.bodyVP.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.focus == ui.PanelChat {
		var cmd tea.Cmd
		m.chatVP, cmd = m.chatVP.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.isThinking {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {

	case "ctrl+c":
		m.runner.Stop()
		return m, tea.Quit

	case "tab":
		m.cycleFocus()
		return m, nil

	case "ctrl+a":
		m.selectRight(ui.PanelCode)
		return m, nil
	case "ctrl+p":
		m.selectRight(ui.PanelPreview)
		return m, nil
	case "ctrl+g":
		m.selectRight(ui.PanelDiagram)
		return m, nil
	case "ctrl+t":
		m.selectRight(ui.PanelTerminal)
		return m, nil

	case "esc":
		m.notice = ""
		return m, nil

	case "enter":
		if m.focus == ui.PanelChat {
			return m.submitPrompt()
		}
		if m.focus == ui.PanelTerminal {
			return m.submitCommand()
		}
		return m, nil
	}

	if m.focus == ui.PanelCode {
		switch msg.String() {
		case "n":
			m.switchTab(1)
			return m, nil
		case "p":
			m.switchTab(-1)
			return m, nil
		case "x", "ctrl+w":
			if m.editor.Selected != "" {
				m.editor.CloseFile(m.editor.Selected, m.tree)
				m.refreshBody()
			}
			return m, nil
		case "s":
			m.playback.Skip()
			return m, nil
		case " ":
			if m.playback.State() == typingActive {
				m.playback.Pause()
				return m, nil
			}
			return m, m.playback.Resume()
		}
	}
	return m, nil
}

func (m *Model) cycleFocus() {
	switch m.focus {
	case ui.PanelChat:
		m.focus = m.activeRight
		m.textarea.Blur()
	default:
		m.focus = ui.PanelChat
		m.textarea.Focus()
	}
}

func (m *Model) selectRight(p ui.Panel) {
	m.activeRight = p
	if m.focus != ui.PanelChat {
		m.focus = p
	}
	if p == ui.PanelTerminal {
		m.focus = p
		m.textarea.Focus()
		m.textarea.Placeholder = "Shell command, e.g. npm run dev..."
	} else if m.focus == ui.PanelChat {
		m.textarea.Placeholder = "Describe the app you want to build..."
	}
	m.refreshBody()
}

func (m *Model) switchTab(delta int) {
	if len(m.editor.Open) == 0 {
		return
	}
	idx := 0
	for i, p := range m.editor.Open {
		if p == m.editor.Selected {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(m.editor.Open)) % len(m.editor.Open)
	m.editor.Selected = m.editor.Open[idx]
	m.refreshBody()
}

// submitPrompt starts one generation request. The previous request, if
// still in flight, becomes stale the moment Begin issues a new id.
func (m *Model) submitPrompt() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.textarea.Value())
	if raw == "" || m.gen == nil {
		return m, nil
	}
	m.textarea.Reset()
	m.notice = ""

	// A prompt submitted while one is in flight supersedes it; resolve the
	// old placeholder so it can never linger as a permanent thinking bubble.
	if m.isThinking && m.pendingMsgID != "" {
		m.chat.ReplaceLoading(m.pendingMsgID, "Superseded by a newer request.", StatusError)
	}

	userMsg := NewChatMessage(SenderUser, raw, StatusComplete)
	m.chat.Append(userMsg)
	m.persistMessage(userMsg)
	m.bus.Publish(Event{Topic: TopicChatAppended, Key: userMsg.ID})

	placeholder := NewChatMessage(SenderAssistant, "", StatusThinking)
	m.pendingMsgID = m.chat.Append(placeholder)
	m.bus.Publish(Event{Topic: TopicChatAppended, Key: placeholder.ID})

	m.isThinking = true
	m.phraseIdx = 0
	m.thinking = thinkingPhrases[0]

	id := m.tracker.Begin()
	run := func() tea.Msg {
		return generationMsg{id: id, res: m.gen.Run(m.ctx, id, raw)}
	}
	return m, tea.Batch(run, m.spinner.Tick, m.statusTick())
}

func (m *Model) statusTick() tea.Cmd {
	return tea.Tick(statusTickInterval, func(time.Time) tea.Msg {
		return statusTickMsg{}
	})
}

// applyGeneration folds a finished pipeline run into the workspace.
// Stale results are discarded wholesale.
func (m *Model) applyGeneration(msg generationMsg) (tea.Model, tea.Cmd) {
	if !m.tracker.Accept(msg.id) {
		return m, nil
	}
	m.isThinking = false
	res := msg.res

	// The diagram is an independent artifact of the generation: deliver it
	// even when materialization failed.
	var cmds []tea.Cmd
	if res.Diagram != "" {
		m.bus.Publish(Event{Topic: TopicDiagramSource, Key: res.Diagram, Payload: res.Diagram})
		cmds = append(cmds, m.renderDiagram(res.RequestID, res.Diagram))
	}

	if res.Failure != nil {
		content := res.Explanation
		if content == "" {
			content = fmt.Sprintf("❌ %v", res.Failure)
		}
		m.chat.ReplaceLoading(m.pendingMsgID, content, StatusError)
		if errors.Is(res.Failure, ErrUnparsable) {
			m.notice = res.Failure.Error()
		} else {
			m.notice = fmt.Sprintf("generation failed: %v", res.Failure)
		}
		m.bus.Publish(Event{Topic: TopicChatAppended, Key: m.pendingMsgID + ":done"})
		return m, tea.Batch(cmds...)
	}

	explanation := res.Explanation
	if explanation == "" {
		explanation = "Done! Your app is ready."
	}
	m.chat.ReplaceLoading(m.pendingMsgID, explanation, StatusComplete)
	m.persistMessage(ChatMessage{
		ID:        m.pendingMsgID,
		Sender:    SenderAssistant,
		Content:   explanation,
		Status:    StatusComplete,
		Timestamp: time.Now(),
	})
	m.bus.Publish(Event{Topic: TopicChatAppended, Key: m.pendingMsgID + ":done"})

	m.config = res.Config
	m.projectName = res.Config.Name
	m.mainFile = res.MainFile

	if m.store != nil {
		if err := m.store.SaveGeneration(res); err != nil {
			logf(m.logger, "persist generation: %v", err)
		}
	}

	if diff := m.changes.DiffAll(res.Files); diff != "" {
		diffMsg := NewChatMessage(SenderSystem, diff, StatusComplete)
		m.chat.Append(diffMsg)
		m.persistMessage(diffMsg)
		m.bus.Publish(Event{Topic: TopicChatAppended, Key: diffMsg.ID})
	}

	cmds = append(cmds, m.playback.Start(res.Files))
	return m, tea.Batch(cmds...)
}

func (m *Model) renderDiagram(id, source string) tea.Cmd {
	return func() tea.Msg {
		svg, note := RenderWithFallback(m.renderer, "weave-"+id, source)
		return diagramMsg{source: source, svg: svg, note: note}
	}
}

// onTypingSettled re-applies the authoritative file map once the
// animation finishes, so partial frames can never leak into the tree.
func (m *Model) onTypingSettled(files map[string]string) {
	m.tree.Replace(files)
	m.editor.DropMissing(m.tree)
	if m.mainFile != "" && m.tree.Exists(m.mainFile) {
		m.editor.OpenFile(m.mainFile)
	}
	m.bus.Publish(Event{Topic: TopicCodeUpdated, Payload: m.tree.Paths()})
}

// showTypingProgress paints the in-flight animation into the code panel.
func (m *Model) showTypingProgress() {
	if m.playback.State() != typingActive || m.activeRight != ui.PanelCode {
		return
	}
	active := m.playback.ActivePath()
	if active == "" {
		return
	}
	m.bodyVP.SetContent(m.playback.VisibleFiles()[active])
	m.bodyVP.GotoBottom()
}

func (m *Model) submitCommand() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.textarea.Value())
	if raw == "" {
		return m, nil
	}
	m.textarea.Reset()
	m.terminalBuf += fmt.Sprintf("$ %s\n", raw)
	ch, err := m.runner.Run(m.ctx, raw)
	if err != nil {
		m.terminalBuf += fmt.Sprintf("❌ %v\n", err)
		m.refreshBody()
		return m, nil
	}
	m.refreshBody()
	return m, waitForChunk(ch)
}

func waitForChunk(ch <-chan OutputChunk) tea.Cmd {
	return func() tea.Msg {
		chunk, ok := <-ch
		if !ok {
			chunk = OutputChunk{Done: true}
		}
		return terminalChunkMsg{chunk: chunk, ch: ch}
	}
}

func (m *Model) applyTerminalChunk(msg terminalChunkMsg) (tea.Model, tea.Cmd) {
	if msg.chunk.Text != "" {
		m.terminalBuf += msg.chunk.Text
		m.terminalBuf = TailBytes(m.terminalBuf, 64*1024)
		if url := DetectServerURL(msg.chunk.Text); url != "" {
			m.serverURL = url
		}
		m.bus.Publish(Event{Topic: TopicProcessOutput, Payload: msg.chunk.Text})
	}
	if msg.chunk.Done {
		if msg.chunk.Err != nil {
			m.terminalBuf += fmt.Sprintf("❌ %v\n", msg.chunk.Err)
		}
		m.refreshBody()
		return m, nil
	}
	return m, waitForChunk(msg.ch)
}

func (m *Model) persistMessage(msg ChatMessage) {
	if m.store == nil {
		return
	}
	if err := m.store.AppendMessage(msg); err != nil {
		logf(m.logger, "persist message: %v", err)
	}
}

// refreshChat re-renders the transcript into the chat viewport.
func (m *Model) refreshChat() {
	var b strings.Builder
	for _, msg := range m.chat.Messages() {
		switch msg.Sender {
		case SenderUser:
			b.WriteString(m.style.Accent.Render("You: ") + msg.Content + "\n\n")
		case SenderAssistant:
			switch msg.Status {
			case StatusThinking, StatusProcessing:
				b.WriteString(m.style.Subtle.Render("AppWeave is thinking...") + "\n\n")
			case StatusError:
				b.WriteString(m.style.Error.Render("AppWeave: ") + msg.Content + "\n\n")
			default:
				b.WriteString(m.style.Success.Render("AppWeave: ") + msg.Content + "\n\n")
			}
		default:
			b.WriteString(m.style.Subtle.Render(msg.Content) + "\n\n")
		}
	}
	m.chatVP.SetContent(b.String())
	m.chatVP.GotoBottom()
}

// refreshBody re-renders whichever right panel is active.
func (m *Model) refreshBody() {
	switch m.activeRight {
	case ui.PanelCode:
		if content, ok := m.tree.Read(m.editor.Selected); ok {
			m.bodyVP.SetContent(content)
		} else {
			m.bodyVP.SetContent(m.style.Subtle.Render("Generate an app to see its code here."))
		}
	case ui.PanelPreview:
		if m.serverURL != "" {
			m.bodyVP.SetContent(fmt.Sprintf("🌐 Dev server detected:\n\n  %s\n\nOpen it in your browser.", m.serverURL))
		} else if content, ok := m.tree.Read("index.html"); ok {
			m.bodyVP.SetContent(content)
		} else {
			m.bodyVP.SetContent(m.style.Subtle.Render("No preview yet. Run the dev server from the terminal panel."))
		}
	case ui.PanelDiagram:
		var b strings.Builder
		if m.diagramNote != "" {
			b.WriteString(m.style.Error.Render("⚠️ "+m.diagramNote) + "\n\n")
		}
		if m.diagramSrc != "" {
			b.WriteString(m.diagramSrc)
		} else {
			b.WriteString(m.style.Subtle.Render("The architecture diagram appears after the first generation."))
		}
		m.bodyVP.SetContent(b.String())
	case ui.PanelTerminal:
		if m.terminalBuf == "" {
			m.bodyVP.SetContent(m.style.Subtle.Render("Type a command and press enter, e.g. npm install."))
		} else {
			m.bodyVP.SetContent(m.terminalBuf)
			m.bodyVP.GotoBottom()
		}
	}
}
