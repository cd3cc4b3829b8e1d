package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists the session list as a single JSON array on disk.
// It is the only writer to that file. Reads of corrupt or empty data
// yield an empty list so a damaged store never crashes the caller.
//
// The read-modify-write in Upsert is not protected against a second
// process writing the same file; last writer wins.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	// Touch file if not exists
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("touch file: %w", err)
	}
	_ = f.Close()
	return &FileStore{path: path}, nil
}

func (s *FileStore) LoadAll() ([]Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadUnlocked(), nil
}

func (s *FileStore) Upsert(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := s.loadUnlocked()
	out := make([]Session, 0, len(sessions)+1)
	out = append(out, sess)
	for _, existing := range sessions {
		if sameEntry(existing, sess) {
			continue
		}
		out = append(out, existing)
	}
	if len(out) > MaxStored {
		out = out[:MaxStored]
	}
	return s.saveUnlocked(out)
}

func (s *FileStore) loadUnlocked() []Session {
	data, err := os.ReadFile(s.path)
	if err != nil || len(data) == 0 {
		return []Session{}
	}
	var sessions []Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		// malformed -> start fresh
		return []Session{}
	}
	return sessions
}

func (s *FileStore) saveUnlocked(sessions []Session) error {
	f, err := os.OpenFile(s.path, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open write: %w", err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sessions); err != nil {
		return fmt.Errorf("encode sessions: %w", err)
	}
	return nil
}
