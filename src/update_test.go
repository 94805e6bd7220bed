// path: src/update_test.go
package src

import (
	"context"
	"strings"
	"testing"
)

func newTestModel(gen *Generator, store *Store) *Model {
	return NewModel(context.Background(), ModelOptions{
		Generator: gen,
		Store:     store,
		TypingCPS: 400,
	})
}

func TestApplyGenerationDeliversDiagramOnFailure(t *testing.T) {
	m := newTestModel(nil, nil)
	id := m.tracker.Begin()

	res := GenerationResult{
		RequestID:   id,
		Explanation: "Here is the plan.",
		Diagram:     "flowchart TD\n    A[UI] --> B[State]",
		Failure:     ErrUnparsable,
	}
	_, cmd := m.applyGeneration(generationMsg{id: id, res: res})

	if m.diagramSrc != res.Diagram {
		t.Fatalf("diagram dropped on materialization failure: %q", m.diagramSrc)
	}
	if cmd == nil {
		t.Fatalf("expected a diagram render command")
	}
	if m.notice == "" {
		t.Fatalf("expected a failure notice")
	}
}

func TestApplyGenerationDropsStaleResult(t *testing.T) {
	m := newTestModel(nil, nil)
	stale := m.tracker.Begin()
	m.tracker.Begin()

	res := GenerationResult{
		RequestID: stale,
		Diagram:   "flowchart TD\n    A --> B",
		Files:     map[string]string{"a.txt": "x"},
		Config:    DefaultProjectConfig(),
	}
	m.applyGeneration(generationMsg{id: stale, res: res})

	if m.diagramSrc != "" {
		t.Fatalf("stale result applied: %q", m.diagramSrc)
	}
	if len(m.tree.Files()) != 0 {
		t.Fatalf("stale result reached the tree")
	}
}

func TestSubmitPromptResolvesSupersededPlaceholder(t *testing.T) {
	gen := NewGenerator(scriptedInvoker{
		classification: todoClassification,
		generation:     todoGeneration,
	}, nil)
	m := newTestModel(gen, nil)

	m.textarea.SetValue("first app")
	m.submitPrompt()
	m.textarea.SetValue("second app")
	m.submitPrompt()

	thinking := 0
	for _, msg := range m.chat.Messages() {
		if msg.Status == StatusThinking {
			thinking++
		}
	}
	if thinking != 1 {
		t.Fatalf("%d thinking placeholders after supersede, want 1", thinking)
	}

	m.applyGeneration(generationMsg{
		id: m.tracker.latest,
		res: GenerationResult{
			Explanation: "done",
			Files:       map[string]string{"a.txt": "x"},
			Config:      DefaultProjectConfig(),
		},
	})
	for _, msg := range m.chat.Messages() {
		if msg.Status == StatusThinking {
			t.Fatalf("transcript still holds an unresolved placeholder")
		}
	}
}

func TestApplyGenerationPostsDiffsBetweenGenerations(t *testing.T) {
	m := newTestModel(nil, nil)

	id := m.tracker.Begin()
	m.applyGeneration(generationMsg{id: id, res: GenerationResult{
		Explanation: "v1",
		Files:       map[string]string{"app.js": "old line\n"},
		Config:      DefaultProjectConfig(),
	}})

	id = m.tracker.Begin()
	m.applyGeneration(generationMsg{id: id, res: GenerationResult{
		Explanation: "v2",
		Files:       map[string]string{"app.js": "new line\n"},
		Config:      DefaultProjectConfig(),
	}})

	var diffed bool
	for _, msg := range m.chat.Messages() {
		if msg.Sender == SenderSystem && strings.Contains(msg.Content, "diff --git a/app.js b/app.js") {
			diffed = true
		}
	}
	if !diffed {
		t.Fatalf("no diff message in chat after the second generation")
	}
}

func TestResolvedAssistantMessageKeepsItsID(t *testing.T) {
	store := openTestStore(t)
	gen := NewGenerator(scriptedInvoker{
		classification: todoClassification,
		generation:     todoGeneration,
	}, nil)
	m := newTestModel(gen, store)

	m.textarea.SetValue("todo app")
	m.submitPrompt()
	id := m.tracker.latest
	m.applyGeneration(generationMsg{id: id, res: GenerationResult{
		RequestID:   id,
		Explanation: "done",
		Files:       map[string]string{"a.txt": "x"},
		Config:      DefaultProjectConfig(),
	}})

	var transcriptID string
	for _, msg := range m.chat.Messages() {
		if msg.Sender == SenderAssistant && msg.Status == StatusComplete {
			transcriptID = msg.ID
		}
	}
	if transcriptID == "" {
		t.Fatalf("no resolved assistant message in transcript")
	}

	stored, err := store.Messages()
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	var found bool
	for _, msg := range stored {
		if msg.Sender == SenderAssistant && msg.ID == transcriptID {
			found = true
		}
	}
	if !found {
		t.Fatalf("persisted assistant message id diverges from transcript")
	}
}
