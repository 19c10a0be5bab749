package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"draftpane/config"
)

const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Greeting is the assistant message every new conversation is seeded with.
const Greeting = "Hello! I'm your document assistant. How can I help with your document today?"

// ChatMessage is a single chat bubble. Messages are immutable once appended;
// ordering is insertion order within a conversation.
type ChatMessage struct {
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is an ordered message history with a derived title.
type Conversation struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Timestamp time.Time     `json:"timestamp"`
	Messages  []ChatMessage `json:"messages"`
}

// ConversationStore owns the conversation list and the active pointer. The
// whole list persists as one JSON document in the data directory; the active
// conversation is tracked by id only, never by reference ownership.
type ConversationStore struct {
	dataDir       string
	conversations []*Conversation
	activeID      string
}

// OpenConversationStore loads the persisted conversation list from dataDir,
// creating a fresh seeded conversation when nothing is stored yet. The store
// is never left without an active conversation.
func OpenConversationStore(dataDir string) (*ConversationStore, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &ConversationStore{dataDir: dataDir}

	if err := s.load(); err != nil {
		// A corrupt conversations file must not prevent startup; start over
		// with an empty list and reseed.
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Storage] failed to load conversations: %v", err)
		}
		s.conversations = nil
	}

	if len(s.conversations) == 0 {
		s.New()
		return s, nil
	}

	if id, err := s.loadActiveID(); err == nil && s.byID(id) != nil {
		s.activeID = id
	} else {
		// Fall back to the most recent conversation
		s.activeID = s.conversations[len(s.conversations)-1].ID
	}

	return s, nil
}

// New creates a seeded conversation, appends it to the list, makes it active
// and persists.
func (s *ConversationStore) New() *Conversation {
	conv := &Conversation{
		ID:        uuid.New().String(),
		Title:     "New Conversation",
		Timestamp: time.Now(),
		Messages: []ChatMessage{
			{
				Content:   Greeting,
				Sender:    SenderAssistant,
				Timestamp: time.Now(),
			},
		},
	}

	s.conversations = append(s.conversations, conv)
	s.activeID = conv.ID
	s.Save()
	return conv
}

// Active returns the active conversation. The active id always names a
// member of the list.
func (s *ConversationStore) Active() *Conversation {
	return s.byID(s.activeID)
}

// SetActive switches the active conversation by id. Returns false when the
// id is not in the store.
func (s *ConversationStore) SetActive(id string) bool {
	if s.byID(id) == nil {
		return false
	}
	s.activeID = id
	s.saveActiveID()
	return true
}

// Append adds a message to the active conversation and persists. The first
// user message of a conversation derives the title.
func (s *ConversationStore) Append(msg ChatMessage) {
	conv := s.Active()
	if conv == nil {
		return
	}

	conv.Messages = append(conv.Messages, msg)

	if len(conv.Messages) == 2 && msg.Sender == SenderUser {
		conv.Title = DeriveTitle(msg.Content)
	}

	s.Save()
}

// All returns the conversation list in insertion order.
func (s *ConversationStore) All() []*Conversation {
	return s.conversations
}

// ClearAll empties the store and immediately reseeds with a fresh
// conversation, so the store is never pointer-valid-but-empty.
func (s *ConversationStore) ClearAll() *Conversation {
	s.conversations = nil
	return s.New()
}

// Save persists the full conversation list. Storage failures are logged,
// never surfaced: the in-memory state stays authoritative for the session.
func (s *ConversationStore) Save() {
	data, err := json.MarshalIndent(s.conversations, "", "  ")
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Storage] failed to marshal conversations: %v", err)
		}
		return
	}

	// 0600 - conversation history is sensitive
	if err := os.WriteFile(s.conversationsPath(), data, 0600); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Storage] failed to write conversations: %v", err)
		}
		return
	}

	s.saveActiveID()
}

func (s *ConversationStore) load() error {
	data, err := os.ReadFile(s.conversationsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read conversations file: %w", err)
	}

	var conversations []*Conversation
	if err := json.Unmarshal(data, &conversations); err != nil {
		return fmt.Errorf("failed to unmarshal conversations: %w", err)
	}

	s.conversations = conversations
	return nil
}

func (s *ConversationStore) conversationsPath() string {
	return filepath.Join(s.dataDir, "conversations.json")
}

func (s *ConversationStore) activeIDPath() string {
	return filepath.Join(s.dataDir, "active_conversation.id")
}

func (s *ConversationStore) saveActiveID() {
	if err := os.WriteFile(s.activeIDPath(), []byte(s.activeID), 0600); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Storage] failed to write active id: %v", err)
		}
	}
}

func (s *ConversationStore) loadActiveID() (string, error) {
	data, err := os.ReadFile(s.activeIDPath())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *ConversationStore) byID(id string) *Conversation {
	for _, conv := range s.conversations {
		if conv.ID == id {
			return conv
		}
	}
	return nil
}

// DeriveTitle derives a conversation title from its first user message:
// the first 30 characters plus "..." when the message is longer than 30.
// Counted in runes so multibyte text never truncates mid-character.
func DeriveTitle(firstMessage string) string {
	runes := []rune(firstMessage)
	if len(runes) > 30 {
		return string(runes[:30]) + "..."
	}
	return firstMessage
}

// LockInstance creates a pid lock file so only one draftpane edits the
// document at a time.
func LockInstance(dataDir string) error {
	lockPath := filepath.Join(dataDir, "draftpane.lock")
	return os.WriteFile(lockPath, []byte(fmt.Sprintf("%d", os.Getpid())), 0600)
}

// UnlockInstance removes the pid lock file.
func UnlockInstance(dataDir string) error {
	err := os.Remove(filepath.Join(dataDir, "draftpane.lock"))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// CheckInstanceLock reports whether another draftpane instance holds the
// lock, and its pid. Stale locks from dead processes are cleaned up.
func CheckInstanceLock(dataDir string) (bool, int, error) {
	lockPath := filepath.Join(dataDir, "draftpane.lock")

	data, err := os.ReadFile(lockPath)
	if os.IsNotExist(err) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to read lock file: %w", err)
	}

	var pid int
	if _, err := fmt.Sscanf(string(data), "%d", &pid); err != nil {
		_ = os.Remove(lockPath)
		return false, 0, nil
	}

	if pid == os.Getpid() {
		return false, pid, nil
	}

	// FindProcess always succeeds on Unix; signal 0 probes liveness without
	// delivering anything. EPERM still means the process exists.
	proc, err := os.FindProcess(pid)
	if err != nil {
		_ = os.Remove(lockPath)
		return false, 0, nil
	}
	if err := proc.Signal(syscall.Signal(0)); err != nil && !errors.Is(err, syscall.EPERM) {
		_ = os.Remove(lockPath)
		return false, 0, nil
	}

	return true, pid, nil
}
