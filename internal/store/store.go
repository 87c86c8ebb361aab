package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/robknight/pod2-prover/internal/types"
)

// Store persists statement sets in a SQLite database so fact bases
// survive between prover invocations.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// Open creates or opens a fact store at path.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS facts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		statement_json TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_facts_kind ON facts(kind);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveFacts appends statements to the store.
func (s *Store) SaveFacts(facts []types.Statement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO facts (kind, statement_json, created_at) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, fact := range facts {
		data, err := json.Marshal(fact)
		if err != nil {
			return fmt.Errorf("failed to encode statement: %w", err)
		}
		if _, err := stmt.Exec(fact.Kind.String(), string(data), now); err != nil {
			return fmt.Errorf("failed to insert statement: %w", err)
		}
	}
	return tx.Commit()
}

// LoadFacts returns all stored statements in insertion order.
func (s *Store) LoadFacts() ([]types.Statement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT statement_json FROM facts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query facts: %w", err)
	}
	defer rows.Close()

	var facts []types.Statement
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan fact: %w", err)
		}
		var fact types.Statement
		if err := json.Unmarshal([]byte(data), &fact); err != nil {
			return nil, fmt.Errorf("failed to decode statement: %w", err)
		}
		facts = append(facts, fact)
	}
	return facts, rows.Err()
}

// ReplaceFacts atomically swaps the stored fact set.
func (s *Store) ReplaceFacts(facts []types.Statement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM facts`); err != nil {
		return fmt.Errorf("failed to clear facts: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO facts (kind, statement_json, created_at) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, fact := range facts {
		data, err := json.Marshal(fact)
		if err != nil {
			return fmt.Errorf("failed to encode statement: %w", err)
		}
		if _, err := stmt.Exec(fact.Kind.String(), string(data), now); err != nil {
			return fmt.Errorf("failed to insert statement: %w", err)
		}
	}
	return tx.Commit()
}

// Clear removes all stored facts.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM facts`)
	return err
}

// Count returns the number of stored facts.
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM facts`).Scan(&n)
	return n, err
}
