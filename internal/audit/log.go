// Package audit keeps a tamper-evident record of analysis outcomes.
// Each request appends one JSONL entry whose prev_hash is the SHA-256
// of the previous line, so any rewrite of history breaks the chain.
// Raw policy text is never stored, only its length and digest.
package audit

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// GenesisHash is the prev_hash of the first entry in a new log.
const GenesisHash = "sha256:0000000000000000000000000000000000000000000000000000000000000000"

// Entry is one analysis record. All fields are plain structs and
// scalars so json.Marshal field order is deterministic, which the
// hash chain depends on.
type Entry struct {
	Timestamp  string  `json:"ts"`
	RequestID  string  `json:"request_id"`
	Source     string  `json:"source"` // http, mcp, or cli
	TextLength int     `json:"text_length"`
	TextSHA    string  `json:"text_sha"`
	TrustScore float64 `json:"trust_score"`
	RiskLevel  string  `json:"risk_level"`
	Conflicts  int     `json:"conflicts"`
	Degraded   bool    `json:"degraded"` // a collaborator failed and defaults were used
	PrevHash   string  `json:"prev_hash"`
}

// Log is an append-only JSONL file with SHA-256 hash chaining.
type Log struct {
	path     string
	file     *os.File
	prevHash string
	mu       sync.Mutex
}

// Open opens (or creates) a log file for appending. An existing file
// is scanned to recover the chain tail so new entries extend it.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("audit: create directory: %w", err)
	}

	prevHash := GenesisHash
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		tail, err := lastLine(path)
		if err != nil {
			return nil, err
		}
		if len(tail) > 0 {
			prevHash = HashLine(tail)
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("audit: open file: %w", err)
	}

	return &Log{path: path, file: file, prevHash: prevHash}, nil
}

// Record appends an entry, filling Timestamp if empty and linking it
// to the chain. The write is synced before the chain tail advances.
func (l *Log) Record(entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
	}
	entry.PrevHash = l.prevHash

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("audit: marshal entry: %w", err)
	}

	if _, err := l.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("audit: write entry: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("audit: sync: %w", err)
	}

	l.prevHash = HashLine(line)
	return nil
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// HashLine returns "sha256:<hex>" of the given bytes.
func HashLine(line []byte) string {
	h := sha256.Sum256(line)
	return "sha256:" + hex.EncodeToString(h[:])
}

// HashText returns the digest recorded in place of the raw text.
func HashText(text string) string {
	return HashLine([]byte(text))
}

func lastLine(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audit: read existing log: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var tail []byte
	for scanner.Scan() {
		tail = append(tail[:0], scanner.Bytes()...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("audit: scan existing log: %w", err)
	}
	return tail, nil
}
