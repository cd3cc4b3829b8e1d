package ident

import (
	"encoding/json"
	"os"
	"sync"
)

// FileProvider reads the identity profile from a JSON file. Any read or
// decode failure yields the demo identity; identity problems are never
// surfaced to the caller.
type FileProvider struct {
	path string
	mu   sync.Mutex
}

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

func (p *FileProvider) Current() Profile {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, err := os.ReadFile(p.path)
	if err != nil {
		return Demo()
	}
	var prof Profile
	if err := json.Unmarshal(data, &prof); err != nil {
		return Demo()
	}
	if prof.UID == "" {
		return Demo()
	}
	return prof
}
