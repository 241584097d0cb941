// Package review keeps the human review trail: words the lexicon does not
// know and sentences no pattern could translate. The log is a plain text
// file meant to be read and worked through by whoever curates the lexicon,
// so each distinct item is recorded at most once per process.
package review

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Level classifies a review entry.
type Level int

const (
	Info Level = iota
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Info:
		return "INFO"
	case Warning:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Entry categories. Data carries the deduplication key (the word or
// sentence itself).
const (
	CategoryUnknownWord      = "unknown_word"
	CategoryUnparsedSentence = "unparsed_sentence"
	CategoryGeneral          = "general"
)

// Entry is one review item.
type Entry struct {
	ID       uuid.UUID
	Level    Level
	Category string
	Message  string
	Data     string
}

// Log appends review entries to a file, suppressing duplicates per
// (category, data) for the lifetime of the process.
type Log struct {
	mu     sync.Mutex
	path   string
	seen   map[string]map[string]bool
	closed bool
	file   *os.File
}

// Open creates or opens the review log at path in append mode.
func Open(path string) (*Log, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create review log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open review log %s: %w", path, err)
	}
	return &Log{path: path, seen: make(map[string]map[string]bool), file: f}, nil
}

// Record appends an entry unless an entry with the same category and data
// has already been written by this process.
func (l *Log) Record(level Level, category, message, data string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return fmt.Errorf("review log is closed")
	}
	if l.file == nil {
		return nil
	}
	if data != "" {
		if l.seen[category][data] {
			return nil
		}
		if l.seen[category] == nil {
			l.seen[category] = make(map[string]bool)
		}
		l.seen[category][data] = true
	}

	entry := Entry{
		ID:       uuid.New(),
		Level:    level,
		Category: category,
		Message:  message,
		Data:     data,
	}

	// The ID leads the line so curators can reference entries unambiguously
	// when the same word resurfaces across runs.
	var line string
	if entry.Data != "" {
		line = fmt.Sprintf("%s [%s] %s - %s: %s\n", entry.ID, entry.Level, entry.Category, entry.Message, entry.Data)
	} else {
		line = fmt.Sprintf("%s [%s] %s - %s\n", entry.ID, entry.Level, entry.Category, entry.Message)
	}
	if _, err := l.file.WriteString(line); err != nil {
		return fmt.Errorf("write review entry: %w", err)
	}
	return nil
}

// UnknownWord records a word missing from the lexicon, with the sentence it
// appeared in for context.
func (l *Log) UnknownWord(word, sentence string) error {
	return l.Record(Warning, CategoryUnknownWord,
		fmt.Sprintf("In sentence: '%s'", sentence), word)
}

// UnparsedSentence records a sentence no enabled pattern matched.
func (l *Log) UnparsedSentence(sentence string) error {
	return l.Record(Warning, CategoryUnparsedSentence,
		"Unable to parse sentence", sentence)
}

// Infof records a general informational note.
func (l *Log) Infof(format string, args ...interface{}) error {
	return l.Record(Info, CategoryGeneral, fmt.Sprintf(format, args...), "")
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Discard returns a review log that drops everything. Useful for callers
// that translate ad hoc text and do not want a trail.
func Discard() *Log {
	return &Log{seen: make(map[string]map[string]bool), closed: false, file: nil, path: ""}
}
