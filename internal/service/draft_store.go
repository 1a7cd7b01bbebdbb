package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campusops/course-reg-api/internal/models"
)

// Draft stores keep editor state server-side between clicks and the final
// save. Entries expire after a TTL so abandoned edits do not pile up.

// OverlayDraftEntry is one tutor's in-progress exception edit for a week.
type OverlayDraftEntry struct {
	ID        string               `json:"id"`
	TutorID   string               `json:"-"`
	Draft     *models.OverlayDraft `json:"draft"`
	Version   int                  `json:"version"`
	CreatedAt time.Time            `json:"created_at"`
}

// OverlayDraftStore holds overlay drafts keyed by draft id.
type OverlayDraftStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]*OverlayDraftEntry
}

// NewOverlayDraftStore builds a store with the given TTL.
func NewOverlayDraftStore(ttl time.Duration) *OverlayDraftStore {
	if ttl <= 0 {
		ttl = 45 * time.Minute
	}
	return &OverlayDraftStore{ttl: ttl, items: make(map[string]*OverlayDraftEntry)}
}

// Put stores a draft and returns its entry with a fresh id when absent.
func (s *OverlayDraftStore) Put(tutorID string, draft *models.OverlayDraft, version int) *OverlayDraftEntry {
	entry := &OverlayDraftEntry{
		ID:        uuid.NewString(),
		TutorID:   tutorID,
		Draft:     draft,
		Version:   version,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.items[entry.ID] = entry
	s.mu.Unlock()
	return entry
}

// Get returns a live entry owned by the tutor, or nil.
func (s *OverlayDraftStore) Get(id, tutorID string) *OverlayDraftEntry {
	s.mu.RLock()
	entry, ok := s.items[id]
	s.mu.RUnlock()
	if !ok || entry.TutorID != tutorID {
		return nil
	}
	if time.Since(entry.CreatedAt) > s.ttl {
		s.Delete(id)
		return nil
	}
	return entry
}

// Delete removes an entry.
func (s *OverlayDraftStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

// BuilderDraftEntry is one tutor's in-progress recurring schedule draft.
type BuilderDraftEntry struct {
	ID        string        `json:"id"`
	TutorID   string        `json:"-"`
	Draft     *BuilderDraft `json:"draft"`
	CreatedAt time.Time     `json:"created_at"`
}

// BuilderDraftStore holds builder drafts keyed by draft id.
type BuilderDraftStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]*BuilderDraftEntry
}

// NewBuilderDraftStore builds a store with the given TTL.
func NewBuilderDraftStore(ttl time.Duration) *BuilderDraftStore {
	if ttl <= 0 {
		ttl = 45 * time.Minute
	}
	return &BuilderDraftStore{ttl: ttl, items: make(map[string]*BuilderDraftEntry)}
}

// Put stores a draft under a fresh id.
func (s *BuilderDraftStore) Put(tutorID string, draft *BuilderDraft) *BuilderDraftEntry {
	entry := &BuilderDraftEntry{
		ID:        uuid.NewString(),
		TutorID:   tutorID,
		Draft:     draft,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.items[entry.ID] = entry
	s.mu.Unlock()
	return entry
}

// Get returns a live entry owned by the tutor, or nil.
func (s *BuilderDraftStore) Get(id, tutorID string) *BuilderDraftEntry {
	s.mu.RLock()
	entry, ok := s.items[id]
	s.mu.RUnlock()
	if !ok || entry.TutorID != tutorID {
		return nil
	}
	if time.Since(entry.CreatedAt) > s.ttl {
		s.Delete(id)
		return nil
	}
	return entry
}

// Delete removes an entry.
func (s *BuilderDraftStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}
