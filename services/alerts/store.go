// Package alerts holds the in-memory alert store and the evaluation loop
// that fires one-shot notifications when a price threshold is crossed.
package alerts

import (
	"sync"
	"time"

	"finsight/models"
)

// Store is an ordered, append-only collection of alerts shared between the
// API layer (append) and the evaluator (mark-triggered). Insertion order is
// preserved; nothing is persisted or deleted.
type Store struct {
	mu     sync.RWMutex
	alerts []models.Alert
	nextID int
}

// NewStore creates an empty alert store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// Append adds an alert, assigning its ID and creation time. The caller is
// responsible for symbol normalization.
func (s *Store) Append(alert models.Alert) models.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert.ID = s.nextID
	alert.Triggered = false
	alert.CreatedAt = time.Now().UTC()
	s.nextID++
	s.alerts = append(s.alerts, alert)
	return alert
}

// List returns a snapshot of all alerts in insertion order.
func (s *Store) List() []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// Pending returns a snapshot of the alerts that have not fired yet,
// in insertion order.
func (s *Store) Pending() []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Alert, 0, len(s.alerts))
	for _, a := range s.alerts {
		if !a.Triggered {
			out = append(out, a)
		}
	}
	return out
}

// MarkTriggered flips an alert to triggered. It reports whether this call
// performed the transition, so concurrent evaluators cannot fire the same
// alert twice. The flag never reverts.
func (s *Store) MarkTriggered(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.alerts {
		if s.alerts[i].ID == id {
			if s.alerts[i].Triggered {
				return false
			}
			s.alerts[i].Triggered = true
			return true
		}
	}
	return false
}

// Len returns the number of stored alerts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.alerts)
}
