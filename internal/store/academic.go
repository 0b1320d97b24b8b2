package store

import (
	"sync"

	"github.com/unitrack/portal/internal/models"
)

// Academic holds the current academic session. It is refetched on load and
// never persisted.
type Academic struct {
	mu      sync.RWMutex
	current *models.AcademicSession
}

func NewAcademic() *Academic {
	return &Academic{}
}

func (a *Academic) Current() (models.AcademicSession, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.current == nil {
		return models.AcademicSession{}, false
	}
	return *a.current, true
}

func (a *Academic) Set(s models.AcademicSession) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = &s
}

func (a *Academic) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = nil
}
