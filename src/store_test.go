// path: src/store_test.go
package src

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreSaveAndLoadLatest(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.LoadLatest()
	require.NoError(t, err)
	require.False(t, ok, "empty store should report no generation")

	res := GenerationResult{
		RequestID:   "req-1",
		Prompt:      "build a todo app",
		Explanation: "Here you go.",
		Files:       map[string]string{"index.html": "<html></html>"},
		MainFile:    "index.html",
		Diagram:     "flowchart TD\nA --> B",
		Config:      DefaultProjectConfig(),
	}
	require.NoError(t, s.SaveGeneration(res))

	got, ok, err := s.LoadLatest()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, res.RequestID, got.RequestID)
	require.Equal(t, res.Files, got.Files)
	require.Equal(t, res.Config.Kind, got.Config.Kind)
	require.Equal(t, res.MainFile, got.MainFile)
}

func TestStoreLatestWins(t *testing.T) {
	s := openTestStore(t)

	first := GenerationResult{RequestID: "req-1", Prompt: "a", Files: map[string]string{}, Config: DefaultProjectConfig()}
	second := GenerationResult{RequestID: "req-2", Prompt: "b", Files: map[string]string{}, Config: DefaultProjectConfig()}
	require.NoError(t, s.SaveGeneration(first))
	require.NoError(t, s.SaveGeneration(second))

	got, ok, err := s.LoadLatest()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "req-2", got.RequestID)
}

func TestStoreMessagesRoundTrip(t *testing.T) {
	s := openTestStore(t)

	m1 := NewChatMessage(SenderUser, "hello", StatusComplete)
	m2 := NewChatMessage(SenderAssistant, "hi there", StatusComplete)
	require.NoError(t, s.AppendMessage(m1))
	require.NoError(t, s.AppendMessage(m2))

	got, err := s.Messages()
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, m1.Content, got[0].Content)
	require.Equal(t, SenderAssistant, got[1].Sender)
	require.Equal(t, StatusComplete, got[1].Status)
}
