// path: src/typing.go
package src

import (
	"context"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/looplab/fsm"
)

// Playback states and events.
const (
	typingIdle    = "idle"
	typingActive  = "typing"
	typingPaused  = "paused"
	typingSettled = "settled"

	evStart  = "start"
	evPause  = "pause"
	evResume = "resume"
	evSkip   = "skip"
	evFinish = "finish"
)

// typingTickInterval is the scheduler cadence. Characters-per-tick is
// derived from it so slow terminals never queue unbounded ticks.
const typingTickInterval = 33 * time.Millisecond

// TypingTickMsg drives playback. Gen guards against stale ticks from a
// superseded run.
type TypingTickMsg struct {
	Gen int
}

type typedFile struct {
	path    string
	content string
}

// TypingPlayback animates a generated file set character by character.
// It is a pure progression engine: the Update loop feeds it ticks and it
// reports the currently visible slice of each file. When the run settles
// the caller re-applies the full file map, so the animation can never
// drift from the authoritative result.
type TypingPlayback struct {
	sm    *fsm.FSM
	files []typedFile

	fileIdx int
	charIdx int
	gen     int
	step    int

	onSettle func(files map[string]string)
}

// NewTypingPlayback builds an idle playback. cps is the simulated typing
// speed in characters per second; onSettle fires exactly once per run.
func NewTypingPlayback(cps int, onSettle func(files map[string]string)) *TypingPlayback {
	if cps <= 0 {
		cps = 400
	}
	step := int(float64(cps) * typingTickInterval.Seconds())
	if step < 1 {
		step = 1
	}
	p := &TypingPlayback{step: step, onSettle: onSettle}
	p.sm = fsm.NewFSM(
		typingIdle,
		fsm.Events{
			{Name: evStart, Src: []string{typingIdle, typingActive, typingPaused, typingSettled}, Dst: typingActive},
			{Name: evPause, Src: []string{typingActive}, Dst: typingPaused},
			{Name: evResume, Src: []string{typingPaused}, Dst: typingActive},
			{Name: evSkip, Src: []string{typingActive, typingPaused}, Dst: typingSettled},
			{Name: evFinish, Src: []string{typingActive}, Dst: typingSettled},
		},
		fsm.Callbacks{},
	)
	return p
}

// State exposes the current playback state name.
func (p *TypingPlayback) State() string {
	return p.sm.Current()
}

// Start begins animating files, invalidating any run still in flight.
// Files play in sorted path order. An empty set settles immediately.
func (p *TypingPlayback) Start(files map[string]string) tea.Cmd {
	p.gen++
	p.fileIdx = 0
	p.charIdx = 0
	p.files = p.files[:0]
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		p.files = append(p.files, typedFile{path: path, content: files[path]})
	}
	_ = p.sm.Event(context.Background(), evStart)
	if len(p.files) == 0 {
		p.settle()
		return nil
	}
	return p.tick()
}

func (p *TypingPlayback) tick() tea.Cmd {
	gen := p.gen
	return tea.Tick(typingTickInterval, func(time.Time) tea.Msg {
		return TypingTickMsg{Gen: gen}
	})
}

// Advance consumes one tick. Ticks from a superseded generation and ticks
// arriving while paused or settled are discarded without rescheduling.
func (p *TypingPlayback) Advance(msg TypingTickMsg) tea.Cmd {
	if msg.Gen != p.gen || p.sm.Current() != typingActive {
		return nil
	}
	remaining := p.step
	for remaining > 0 && p.fileIdx < len(p.files) {
		cur := p.files[p.fileIdx]
		left := len(cur.content) - p.charIdx
		if left > remaining {
			p.charIdx += remaining
			remaining = 0
		} else {
			remaining -= left
			p.fileIdx++
			p.charIdx = 0
		}
	}
	if p.fileIdx >= len(p.files) {
		_ = p.sm.Event(context.Background(), evFinish)
		p.settle()
		return nil
	}
	return p.tick()
}

// Pause freezes the animation in place.
func (p *TypingPlayback) Pause() {
	_ = p.sm.Event(context.Background(), evPause)
}

// Resume continues a paused run.
func (p *TypingPlayback) Resume() tea.Cmd {
	if err := p.sm.Event(context.Background(), evResume); err != nil {
		return nil
	}
	return p.tick()
}

// Skip jumps straight to the settled result.
func (p *TypingPlayback) Skip() {
	if err := p.sm.Event(context.Background(), evSkip); err != nil {
		return
	}
	p.fileIdx = len(p.files)
	p.charIdx = 0
	p.settle()
}

// Cancel abandons the run without settling. In-flight ticks become stale.
func (p *TypingPlayback) Cancel() {
	p.gen++
	p.files = nil
	p.fileIdx = 0
	p.charIdx = 0
	p.sm.SetState(typingIdle)
}

func (p *TypingPlayback) settle() {
	p.sm.SetState(typingSettled)
	if p.onSettle != nil {
		p.onSettle(p.allFiles())
	}
}

func (p *TypingPlayback) allFiles() map[string]string {
	out := make(map[string]string, len(p.files))
	for _, f := range p.files {
		out[f.path] = f.content
	}
	return out
}

// ActivePath names the file currently being typed, or "" when none.
func (p *TypingPlayback) ActivePath() string {
	if p.fileIdx >= len(p.files) {
		return ""
	}
	return p.files[p.fileIdx].path
}

// VisibleFiles returns the portion of each file typed so far: completed
// files in full, the active file as a prefix, pending files absent.
func (p *TypingPlayback) VisibleFiles() map[string]string {
	out := map[string]string{}
	for i, f := range p.files {
		switch {
		case i < p.fileIdx:
			out[f.path] = f.content
		case i == p.fileIdx && p.charIdx > 0:
			out[f.path] = f.content[:p.charIdx]
		}
	}
	return out
}

// Progress reports typed and total character counts across the run.
func (p *TypingPlayback) Progress() (typed, total int) {
	for i, f := range p.files {
		total += len(f.content)
		if i < p.fileIdx {
			typed += len(f.content)
		} else if i == p.fileIdx {
			typed += p.charIdx
		}
	}
	return typed, total
}
