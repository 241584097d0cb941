package lexicon

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStore mirrors a lexicon in SQLite for tooling that wants SQL access
// to the vocabulary (bulk audits, joins against external corpora).
type SQLiteStore struct {
	db   *sql.DB
	path string
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS words (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	lemma TEXT NOT NULL,
	word_type TEXT NOT NULL,
	UNIQUE(lemma, word_type)
);
CREATE TABLE IF NOT EXISTS forms (
	word_id INTEGER NOT NULL REFERENCES words(id) ON DELETE CASCADE,
	form TEXT NOT NULL,
	UNIQUE(word_id, form)
);
CREATE INDEX IF NOT EXISTS idx_forms_form ON forms(form);
CREATE TABLE IF NOT EXISTS patterns (
	name TEXT PRIMARY KEY,
	expr TEXT NOT NULL,
	template TEXT NOT NULL,
	priority INTEGER NOT NULL DEFAULT 0,
	enabled INTEGER NOT NULL DEFAULT 1
);
`

// OpenSQLite opens (or creates) a SQLite lexicon mirror at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Close releases the underlying connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Export replaces the mirror's contents with the lexicon's current state.
func (s *SQLiteStore) Export(ctx context.Context, src *DB) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"forms", "words", "patterns"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	src.mu.RLock()
	words := make([]WordEntry, len(src.words))
	copy(words, src.words)
	patterns := make([]Pattern, len(src.patterns))
	copy(patterns, src.patterns)
	src.mu.RUnlock()

	insertWord, err := tx.PrepareContext(ctx,
		"INSERT INTO words (lemma, word_type) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare word insert: %w", err)
	}
	defer insertWord.Close()
	insertForm, err := tx.PrepareContext(ctx,
		"INSERT OR IGNORE INTO forms (word_id, form) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare form insert: %w", err)
	}
	defer insertForm.Close()

	for _, entry := range words {
		res, err := insertWord.ExecContext(ctx, entry.Lemma, entry.Type.String())
		if err != nil {
			return fmt.Errorf("insert word %s: %w", entry.Lemma, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("word id for %s: %w", entry.Lemma, err)
		}
		for _, form := range entry.Forms {
			if _, err := insertForm.ExecContext(ctx, id, form); err != nil {
				return fmt.Errorf("insert form %s: %w", form, err)
			}
		}
	}

	for _, p := range patterns {
		enabled := 0
		if p.Enabled {
			enabled = 1
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO patterns (name, expr, template, priority, enabled) VALUES (?, ?, ?, ?, ?)",
			p.Name, p.Expr, p.Template, p.Priority, enabled); err != nil {
			return fmt.Errorf("insert pattern %s: %w", p.Name, err)
		}
	}

	return tx.Commit()
}

// Load reads the mirror back into an in-memory lexicon.
func (s *SQLiteStore) Load(ctx context.Context) (*DB, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT w.lemma, w.word_type, COALESCE(GROUP_CONCAT(f.form, '|'), '')
		FROM words w LEFT JOIN forms f ON f.word_id = w.id
		GROUP BY w.id ORDER BY w.lemma`)
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	defer rows.Close()

	db := New()
	for rows.Next() {
		var lemma, typeName, joined string
		if err := rows.Scan(&lemma, &typeName, &joined); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		t, err := ParseWordType(typeName)
		if err != nil {
			return nil, fmt.Errorf("word %s: %w", lemma, err)
		}
		var forms []string
		if joined != "" {
			forms = strings.Split(joined, "|")
		}
		db.words = append(db.words, WordEntry{Lemma: lemma, Type: t, Forms: forms})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate words: %w", err)
	}

	prows, err := s.db.QueryContext(ctx,
		"SELECT name, expr, template, priority, enabled FROM patterns ORDER BY priority DESC, name")
	if err != nil {
		return nil, fmt.Errorf("query patterns: %w", err)
	}
	defer prows.Close()

	for prows.Next() {
		var p Pattern
		var enabled int
		if err := prows.Scan(&p.Name, &p.Expr, &p.Template, &p.Priority, &enabled); err != nil {
			return nil, fmt.Errorf("scan pattern: %w", err)
		}
		p.Enabled = enabled != 0
		db.patterns = append(db.patterns, p)
	}
	if err := prows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patterns: %w", err)
	}

	db.rebuildIndexLocked()
	return db, nil
}
