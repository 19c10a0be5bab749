package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewStoreIsSeeded(t *testing.T) {
	store, err := OpenConversationStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenConversationStore failed: %v", err)
	}

	if len(store.All()) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(store.All()))
	}

	conv := store.Active()
	if conv == nil {
		t.Fatal("expected an active conversation")
	}
	if len(conv.Messages) != 1 {
		t.Fatalf("expected 1 seeded message, got %d", len(conv.Messages))
	}
	if conv.Messages[0].Sender != SenderAssistant {
		t.Errorf("seeded message sender: got %q, want %q", conv.Messages[0].Sender, SenderAssistant)
	}
	if conv.Messages[0].Content != Greeting {
		t.Errorf("seeded message content: got %q", conv.Messages[0].Content)
	}
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "short message unchanged",
			input: "Fix the intro",
			want:  "Fix the intro",
		},
		{
			name:  "exactly thirty characters unchanged",
			input: strings.Repeat("a", 30),
			want:  strings.Repeat("a", 30),
		},
		{
			name:  "thirty-one characters truncated",
			input: strings.Repeat("a", 31),
			want:  strings.Repeat("a", 30) + "...",
		},
		{
			name:  "long message truncated",
			input: "Please rewrite the second paragraph to be more formal",
			want:  "Please rewrite the second para...",
		},
		{
			name:  "thirty characters with multibyte tail unchanged",
			input: strings.Repeat("a", 29) + "é",
			want:  strings.Repeat("a", 29) + "é",
		},
		{
			name:  "multibyte message truncated on characters",
			input: strings.Repeat("é", 31),
			want:  strings.Repeat("é", 30) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveTitle(tt.input)
			if got != tt.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAppendDerivesTitleFromFirstUserMessage(t *testing.T) {
	store, err := OpenConversationStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenConversationStore failed: %v", err)
	}

	store.Append(ChatMessage{
		Content:   "Change the date to March 5 in the header please",
		Sender:    SenderUser,
		Timestamp: time.Now(),
	})

	conv := store.Active()
	want := "Change the date to March 5 in ..."
	if conv.Title != want {
		t.Errorf("title: got %q, want %q", conv.Title, want)
	}

	// A later user message must not retitle the conversation
	store.Append(ChatMessage{Content: "Another request entirely", Sender: SenderUser, Timestamp: time.Now()})
	if conv.Title != want {
		t.Errorf("title changed after second user message: got %q", conv.Title)
	}
}

func TestRoundTripPersistence(t *testing.T) {
	dir := t.TempDir()

	store, err := OpenConversationStore(dir)
	if err != nil {
		t.Fatalf("OpenConversationStore failed: %v", err)
	}

	messages := []ChatMessage{
		{Content: "Make the title bold", Sender: SenderUser, Timestamp: time.Now()},
		{Content: "Done - the title is now bold.", Sender: SenderAssistant, Timestamp: time.Now()},
	}
	for _, msg := range messages {
		store.Append(msg)
	}
	activeID := store.Active().ID

	reopened, err := OpenConversationStore(dir)
	if err != nil {
		t.Fatalf("reopening store failed: %v", err)
	}

	if len(reopened.All()) != 1 {
		t.Fatalf("expected 1 conversation after reload, got %d", len(reopened.All()))
	}

	conv := reopened.Active()
	if conv.ID != activeID {
		t.Errorf("active id: got %q, want %q", conv.ID, activeID)
	}

	// Seeded greeting + the two appended messages, in order
	if len(conv.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(conv.Messages))
	}
	for i, want := range messages {
		got := conv.Messages[i+1]
		if got.Content != want.Content {
			t.Errorf("message %d content: got %q, want %q", i, got.Content, want.Content)
		}
		if got.Sender != want.Sender {
			t.Errorf("message %d sender: got %q, want %q", i, got.Sender, want.Sender)
		}
		if got.Timestamp.Unix() != want.Timestamp.Unix() {
			t.Errorf("message %d timestamp: got %v, want %v", i, got.Timestamp, want.Timestamp)
		}
	}
}

func TestClearAllReseeds(t *testing.T) {
	store, err := OpenConversationStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenConversationStore failed: %v", err)
	}

	store.Append(ChatMessage{Content: "first request", Sender: SenderUser, Timestamp: time.Now()})
	store.New()
	store.Append(ChatMessage{Content: "second request", Sender: SenderUser, Timestamp: time.Now()})

	if len(store.All()) != 2 {
		t.Fatalf("expected 2 conversations before clear, got %d", len(store.All()))
	}

	store.ClearAll()

	if len(store.All()) != 1 {
		t.Fatalf("expected exactly 1 conversation after clear, got %d", len(store.All()))
	}

	conv := store.Active()
	if conv == nil {
		t.Fatal("expected an active conversation after clear")
	}
	if len(conv.Messages) != 1 || conv.Messages[0].Content != Greeting {
		t.Errorf("expected only the seeded greeting, got %d messages", len(conv.Messages))
	}
}

func TestSetActiveRequiresMembership(t *testing.T) {
	store, err := OpenConversationStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenConversationStore failed: %v", err)
	}

	first := store.Active()
	second := store.New()

	if !store.SetActive(first.ID) {
		t.Error("SetActive rejected a stored conversation")
	}
	if store.Active().ID != first.ID {
		t.Errorf("active: got %q, want %q", store.Active().ID, first.ID)
	}

	if store.SetActive("not-a-conversation") {
		t.Error("SetActive accepted an unknown id")
	}
	if store.Active().ID != first.ID {
		t.Error("failed SetActive changed the active conversation")
	}

	_ = second
}

func TestSearchIndexRebuildAndSearch(t *testing.T) {
	dir := t.TempDir()

	store, err := OpenConversationStore(dir)
	if err != nil {
		t.Fatalf("OpenConversationStore failed: %v", err)
	}
	store.Append(ChatMessage{Content: "Please update the quarterly revenue table", Sender: SenderUser, Timestamp: time.Now()})

	idx, err := NewSearchIndex(dir)
	if err != nil {
		t.Fatalf("NewSearchIndex failed: %v", err)
	}
	defer idx.Close()

	if err := idx.Rebuild(store.All()); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	matches, err := idx.Search("quarterly revenue")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Sender != SenderUser {
		t.Errorf("match sender: got %q, want %q", matches[0].Sender, SenderUser)
	}

	matches, err = idx.Search("")
	if err != nil {
		t.Fatalf("empty Search failed: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("empty query should return no matches, got %d", len(matches))
	}
}

func TestInstanceLockHeldByLiveProcess(t *testing.T) {
	dataDir := t.TempDir()

	if err := LockInstance(dataDir); err != nil {
		t.Fatalf("LockInstance failed: %v", err)
	}

	// Our own pid holds the lock; that must not count as another instance
	locked, pid, err := CheckInstanceLock(dataDir)
	if err != nil {
		t.Fatalf("CheckInstanceLock failed: %v", err)
	}
	if locked {
		t.Error("own lock reported as held by another instance")
	}
	if pid != os.Getpid() {
		t.Errorf("lock pid = %d, want %d", pid, os.Getpid())
	}

	if err := UnlockInstance(dataDir); err != nil {
		t.Fatalf("UnlockInstance failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "draftpane.lock")); !os.IsNotExist(err) {
		t.Error("lock file still present after UnlockInstance")
	}
}

func TestInstanceLockStalePidReclaimed(t *testing.T) {
	dataDir := t.TempDir()
	lockPath := filepath.Join(dataDir, "draftpane.lock")

	// A pid beyond the kernel's pid range cannot name a live process
	if err := os.WriteFile(lockPath, []byte("1073741824"), 0600); err != nil {
		t.Fatalf("failed to write lock file: %v", err)
	}

	locked, _, err := CheckInstanceLock(dataDir)
	if err != nil {
		t.Fatalf("CheckInstanceLock failed: %v", err)
	}
	if locked {
		t.Error("stale lock reported as held")
	}
	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Error("stale lock file was not removed")
	}
}

func TestInstanceLockGarbageReclaimed(t *testing.T) {
	dataDir := t.TempDir()
	lockPath := filepath.Join(dataDir, "draftpane.lock")

	if err := os.WriteFile(lockPath, []byte("not-a-pid"), 0600); err != nil {
		t.Fatalf("failed to write lock file: %v", err)
	}

	locked, _, err := CheckInstanceLock(dataDir)
	if err != nil {
		t.Fatalf("CheckInstanceLock failed: %v", err)
	}
	if locked {
		t.Error("unparseable lock reported as held")
	}
	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Error("unparseable lock file was not removed")
	}
}
