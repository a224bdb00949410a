package service

import (
	"context"
	"sync"
	"time"

	"linkpage-backend/internal/editor"
	"linkpage-backend/internal/models"
)

// DraftManager coalesces draft updates per page through the auto-save
// controller, so rapid field edits from the editor UI turn into batched
// writes instead of one write per keystroke.
type DraftManager struct {
	persistence editor.Persistence
	debounce    time.Duration

	mu       sync.Mutex
	sessions map[uint]*editor.AutoSave
}

func NewDraftManager(persistence editor.Persistence, debounce time.Duration) *DraftManager {
	return &DraftManager{
		persistence: persistence,
		debounce:    debounce,
		sessions:    make(map[uint]*editor.AutoSave),
	}
}

// Update merges a partial draft for the page and schedules a save.
func (m *DraftManager) Update(pageID uint, fields models.DraftFields) {
	m.session(pageID).Update(fields)
}

// Status returns the page's save state for the editor UI.
func (m *DraftManager) Status(pageID uint) editor.AutoSaveStatus {
	return m.session(pageID).Status()
}

// Flush persists every pending draft. Called on shutdown so debounced
// changes are not lost.
func (m *DraftManager) Flush(ctx context.Context) {
	m.mu.Lock()
	sessions := make([]*editor.AutoSave, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		_ = s.Flush(ctx)
		s.Wait()
	}
}

func (m *DraftManager) session(pageID uint) *editor.AutoSave {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[pageID]
	if !ok {
		s = editor.NewAutoSave(pageID, m.persistence, m.debounce)
		m.sessions[pageID] = s
	}
	return s
}
