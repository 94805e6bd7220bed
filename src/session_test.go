// path: src/session_test.go
package src

import "testing"

func TestTranscriptAppendAndReplace(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewChatMessage(SenderUser, "build me a todo app", StatusComplete))
	id := tr.Append(NewChatMessage(SenderAssistant, "", StatusThinking))

	if !tr.ReplaceLoading(id, "Done!", StatusComplete) {
		t.Fatalf("placeholder not found")
	}

	msgs := tr.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len = %d", len(msgs))
	}
	if msgs[1].Content != "Done!" || msgs[1].Status != StatusComplete {
		t.Fatalf("placeholder not resolved: %+v", msgs[1])
	}
	// User message untouched.
	if msgs[0].Content != "build me a todo app" {
		t.Fatalf("prior message mutated: %+v", msgs[0])
	}
}

func TestTranscriptReplaceUnknownID(t *testing.T) {
	tr := NewTranscript()
	if tr.ReplaceLoading("nope", "x", StatusComplete) {
		t.Fatalf("replace of unknown id reported success")
	}
}

func TestTranscriptMessagesIsACopy(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewChatMessage(SenderUser, "original", StatusComplete))
	msgs := tr.Messages()
	msgs[0].Content = "mutated"
	if tr.Messages()[0].Content != "original" {
		t.Fatalf("external mutation leaked into transcript")
	}
}

func TestRequestTrackerAcceptsOnlyLatest(t *testing.T) {
	rt := NewRequestTracker()
	first := rt.Begin()
	second := rt.Begin()

	if rt.Accept(first) {
		t.Fatalf("stale request accepted")
	}
	if !rt.Accept(second) {
		t.Fatalf("latest request rejected")
	}
	if rt.Accept("") {
		t.Fatalf("empty id accepted")
	}
}

func TestNewChatMessageStampsIdentity(t *testing.T) {
	a := NewChatMessage(SenderUser, "x", StatusComplete)
	b := NewChatMessage(SenderUser, "x", StatusComplete)
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("ids not unique: %q %q", a.ID, b.ID)
	}
	if a.Timestamp.IsZero() {
		t.Fatalf("timestamp not set")
	}
}
