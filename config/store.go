package config

import (
	"image"
	"sync"
)

// Store shares one Config between the Tk thread, which edits it, and
// pipeline runs, which read it at start.
type Store struct {
	mu   sync.RWMutex
	cfg  *Config
	path string
}

func NewStore(cfg *Config, path string) *Store {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Store{cfg: cfg, path: path}
}

// Get returns a copy of the current configuration.
func (s *Store) Get() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone()
}

func (s *Store) Path() string { return s.path }

// Update applies fn to a copy, validates it, persists it and swaps it in.
// The new config is kept in memory even when saving fails.
func (s *Store) Update(fn func(*Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cfg.Clone()
	fn(next)
	_ = next.Validate()
	s.cfg = next
	if s.path == "" {
		return nil
	}
	return next.Save(s.path)
}

// CaptureRect returns the configured capture rectangle, or nil for the full screen.
func (s *Store) CaptureRect() *image.Rectangle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.cfg
	if c.SelectionW <= 0 || c.SelectionH <= 0 {
		return nil
	}
	r := image.Rect(c.SelectionX, c.SelectionY, c.SelectionX+c.SelectionW, c.SelectionY+c.SelectionH)
	return &r
}
