// path: src/store.go
package src

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists sessions so a workspace can be resumed: one row per
// accepted generation plus the chat transcript.
type Store struct {
	db *sql.DB
}

const storeSchema = `
CREATE TABLE IF NOT EXISTS generations (
	id          TEXT PRIMARY KEY,
	prompt      TEXT NOT NULL,
	explanation TEXT NOT NULL,
	files       TEXT NOT NULL,
	main_file   TEXT NOT NULL,
	diagram     TEXT NOT NULL,
	config      TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	id         TEXT PRIMARY KEY,
	sender     TEXT NOT NULL,
	content    TEXT NOT NULL,
	status     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
`

// OpenStore opens (creating if needed) the session database at path.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init session db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveGeneration records one accepted generation result.
func (s *Store) SaveGeneration(res GenerationResult) error {
	files, err := json.Marshal(res.Files)
	if err != nil {
		return err
	}
	cfg, err := json.Marshal(res.Config)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO generations
		 (id, prompt, explanation, files, main_file, diagram, config, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RequestID, res.Prompt, res.Explanation,
		string(files), res.MainFile, res.Diagram, string(cfg), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("save generation: %w", err)
	}
	return nil
}

// LoadLatest returns the most recent saved generation, or ok=false when
// the store is empty.
func (s *Store) LoadLatest() (GenerationResult, bool, error) {
	row := s.db.QueryRow(
		`SELECT id, prompt, explanation, files, main_file, diagram, config
		 FROM generations ORDER BY created_at DESC LIMIT 1`)

	var res GenerationResult
	var files, cfg string
	err := row.Scan(&res.RequestID, &res.Prompt, &res.Explanation,
		&files, &res.MainFile, &res.Diagram, &cfg)
	if err == sql.ErrNoRows {
		return GenerationResult{}, false, nil
	}
	if err != nil {
		return GenerationResult{}, false, fmt.Errorf("load generation: %w", err)
	}
	if err := json.Unmarshal([]byte(files), &res.Files); err != nil {
		return GenerationResult{}, false, fmt.Errorf("corrupt files column: %w", err)
	}
	if err := json.Unmarshal([]byte(cfg), &res.Config); err != nil {
		return GenerationResult{}, false, fmt.Errorf("corrupt config column: %w", err)
	}
	return res, true, nil
}

// AppendMessage persists one transcript entry.
func (s *Store) AppendMessage(msg ChatMessage) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO messages (id, sender, content, status, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.Sender, msg.Content, string(msg.Status), msg.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("save message: %w", err)
	}
	return nil
}

// Messages loads the persisted transcript in chronological order.
func (s *Store) Messages() ([]ChatMessage, error) {
	rows, err := s.db.Query(
		`SELECT id, sender, content, status, created_at
		 FROM messages ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	defer rows.Close()

	var out []ChatMessage
	for rows.Next() {
		var m ChatMessage
		var status string
		if err := rows.Scan(&m.ID, &m.Sender, &m.Content, &status, &m.Timestamp); err != nil {
			return nil, err
		}
		m.Status = MessageStatus(status)
		out = append(out, m)
	}
	return out, rows.Err()
}
