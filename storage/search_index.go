package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// MessageMatch is a search hit within the conversation history.
type MessageMatch struct {
	ConversationID    string
	ConversationTitle string
	MessageIndex      int
	Sender            string
	Content           string
	Preview           string
	Timestamp         time.Time
}

// SearchIndex is a sqlite FTS index over all conversation messages. It is
// derived data: the JSON conversation list stays the source of truth and the
// index is rebuilt from it after every save worth indexing.
type SearchIndex struct {
	db *sql.DB
}

// NewSearchIndex opens (or creates) the search database in dataDir.
func NewSearchIndex(dataDir string) (*SearchIndex, error) {
	dbPath := filepath.Join(dataDir, "search.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open search database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping search database: %w", err)
	}

	idx := &SearchIndex{db: db}

	if err := idx.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize search database: %w", err)
	}

	return idx, nil
}

func (si *SearchIndex) initialize() error {
	schema := `
	CREATE VIRTUAL TABLE IF NOT EXISTS messages USING fts5(
		conversation_id UNINDEXED,
		conversation_title UNINDEXED,
		message_index UNINDEXED,
		sender UNINDEXED,
		content,
		timestamp UNINDEXED
	);
	`

	_, err := si.db.Exec(schema)
	return err
}

// Rebuild replaces the index contents with the given conversation list.
func (si *SearchIndex) Rebuild(conversations []*Conversation) error {
	tx, err := si.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin index rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM messages`); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO messages
		(conversation_id, conversation_title, message_index, sender, content, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, conv := range conversations {
		for i, msg := range conv.Messages {
			_, err := stmt.Exec(conv.ID, conv.Title, i, msg.Sender, msg.Content,
				msg.Timestamp.Format(time.RFC3339))
			if err != nil {
				return fmt.Errorf("failed to index message: %w", err)
			}
		}
	}

	return tx.Commit()
}

// Search runs a full-text query and returns matches newest first.
func (si *SearchIndex) Search(query string) ([]MessageMatch, error) {
	if strings.TrimSpace(query) == "" {
		return []MessageMatch{}, nil
	}

	// Quote the query so user input is a literal phrase, not FTS syntax
	ftsQuery := `"` + strings.ReplaceAll(query, `"`, `""`) + `"`

	rows, err := si.db.Query(`SELECT conversation_id, conversation_title,
		message_index, sender, content, timestamp
		FROM messages WHERE messages MATCH ? ORDER BY timestamp DESC`, ftsQuery)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer rows.Close()

	var matches []MessageMatch
	for rows.Next() {
		var m MessageMatch
		var ts string
		if err := rows.Scan(&m.ConversationID, &m.ConversationTitle,
			&m.MessageIndex, &m.Sender, &m.Content, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}

		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			m.Timestamp = t
		}

		m.Preview = m.Content
		if runes := []rune(m.Preview); len(runes) > 100 {
			m.Preview = string(runes[:100]) + "..."
		}

		matches = append(matches, m)
	}

	return matches, rows.Err()
}

// Close releases the database handle.
func (si *SearchIndex) Close() error {
	return si.db.Close()
}
