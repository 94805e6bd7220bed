package src

import (
	"context"
	"log"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/appweave/appweave/src/ui"
)

// thinkingPhrases rotate in the chat panel while a generation is running.
var thinkingPhrases = []string{
	"thinking",
	"weaving components",
	"wiring routes",
	"styling pixels",
	"drawing the architecture",
}

// generationMsg carries one finished pipeline run back into the Update
// loop. Results whose id the tracker no longer accepts are dropped.
type generationMsg struct {
	id  string
	res GenerationResult
}

// statusTickMsg rotates the thinking phrase.
type statusTickMsg struct{}

// terminalChunkMsg delivers one slice of process output plus the channel
// to keep draining.
type terminalChunkMsg struct {
	chunk OutputChunk
	ch    <-chan OutputChunk
}

// diagramMsg carries a rendered diagram back to the diagram panel.
type diagramMsg struct {
	source string
	svg    string
	note   string
}

// Model is the workspace: a chat column on the left and a tabbed panel
// column (code, preview, diagram, terminal) on the right.
type Model struct {
	ctx      context.Context
	gen      *Generator
	bus      *Bus
	tree     *Tree
	editor   *EditorState
	chat     *Transcript
	tracker  *RequestTracker
	playback *TypingPlayback
	runner   *CommandRunner
	changes  *ChangeTracker
	store    *Store
	renderer DiagramRenderer
	logger   *log.Logger

	focus       ui.Panel
	activeRight ui.Panel

	textarea textarea.Model
	chatVP   viewport.Model
	bodyVP   viewport.Model
	spinner  spinner.Model
	style    ui.Styles

	width, height int

	isThinking   bool
	thinking     string
	phraseIdx    int
	notice       string
	pendingMsgID string

	config      ProjectConfig
	projectName string
	mainFile    string
	serverURL   string
	terminalBuf string
	diagramSrc  string
	diagramSVG  string
	diagramNote string
}

// ModelOptions wires the workspace's collaborators. Store and Renderer
// may be nil; persistence and diagram rendering degrade gracefully.
type ModelOptions struct {
	Generator *Generator
	Store     *Store
	Renderer  DiagramRenderer
	Logger    *log.Logger
	Workspace string
	TypingCPS int
}

func NewModel(ctx context.Context, opts ModelOptions) *Model {
	ta := textarea.New()
	ta.Placeholder = "Describe the app you want to build..."
	ta.Focus()
	ta.SetHeight(3)

	st := ui.NewStyles()

	chatVP := viewport.New(0, 0)
	chatVP.SetContent("Welcome to AppWeave! Describe an app to get started.")
	bodyVP := viewport.New(0, 0)

	s := spinner.New()
	s.Spinner = spinner.Line
	s.Style = st.Thinking

	renderer := opts.Renderer
	if renderer == nil {
		renderer = NewLocalRenderer()
	}

	m := &Model{
		ctx:         ctx,
		gen:         opts.Generator,
		bus:         NewBus(),
		tree:        NewTree(),
		editor:      NewEditorState(),
		chat:        NewTranscript(),
		tracker:     NewRequestTracker(),
		runner:      NewCommandRunner(opts.Workspace),
		changes:     NewChangeTracker(),
		store:       opts.Store,
		renderer:    renderer,
		logger:      opts.Logger,
		focus:       ui.PanelChat,
		activeRight: ui.PanelCode,
		textarea:    ta,
		chatVP:      chatVP,
		bodyVP:      bodyVP,
		spinner:     s,
		style:       st,
	}
	m.playback = NewTypingPlayback(opts.TypingCPS, m.onTypingSettled)
	m.wireBus()
	return m
}

// wireBus hooks the panels up to the event streams they watch. Handlers
// run on the Update goroutine; they only refresh derived view state.
func (m *Model) wireBus() {
	m.bus.Subscribe(TopicChatAppended, "chat-panel", func(Event) {
		m.refreshChat()
	})
	m.bus.Subscribe(TopicCodeUpdated, "code-panel", func(Event) {
		m.refreshBody()
	})
	m.bus.Subscribe(TopicDiagramSource, "diagram-panel", func(ev Event) {
		if src, ok := ev.Payload.(string); ok {
			m.diagramSrc = src
		}
	})
	m.bus.Subscribe(TopicDiagramRendered, "diagram-panel", func(Event) {
		m.refreshBody()
	})
	m.bus.Subscribe(TopicProcessOutput, "terminal-panel", func(Event) {
		m.refreshBody()
	})
}

// RestoreSession reloads the latest persisted generation and transcript.
func (m *Model) RestoreSession() {
	if m.store == nil {
		return
	}
	if msgs, err := m.store.Messages(); err == nil {
		for _, msg := range msgs {
			m.chat.Append(msg)
		}
	}
	res, ok, err := m.store.LoadLatest()
	if err != nil || !ok {
		return
	}
	m.config = res.Config
	m.projectName = res.Config.Name
	m.mainFile = res.MainFile
	m.diagramSrc = res.Diagram
	m.tree.Replace(res.Files)
	m.changes.DiffAll(res.Files) // seed the diff baseline
	m.editor.DropMissing(m.tree)
	if res.MainFile != "" {
		m.editor.OpenFile(res.MainFile)
	}
	m.refreshChat()
	m.refreshBody()
}

func (m *Model) Init() tea.Cmd { return nil }
