package reservation

import (
	"sync"

	"visbridge/models"
)

// Store is the concurrency-safe holder for in-flight reservation records.
// It hands out copies only; every read-modify-write goes through Update or
// ClaimCheckout so status transitions cannot race with ping ticks or with
// concurrent completion attempts.
type Store struct {
	mu      sync.Mutex
	records map[string]*storeEntry
}

type storeEntry struct {
	rec models.ReservationRecord
	// checkoutInFlight serializes the complete() state guard: the claim is
	// held across the network round trips without holding the store lock.
	checkoutInFlight bool
}

func NewStore() *Store {
	return &Store{records: make(map[string]*storeEntry)}
}

// Put stores a record, replacing any previous record for the same id.
func (s *Store) Put(rec models.ReservationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ReservationID] = &storeEntry{rec: rec}
}

// Get returns a copy of the record for id.
func (s *Store) Get(id string) (models.ReservationRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.records[id]
	if !ok {
		return models.ReservationRecord{}, false
	}
	return entry.rec, true
}

// Delete removes the record for id. Safe when absent.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
}

// List returns copies of all records.
func (s *Store) List() []models.ReservationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ReservationRecord, 0, len(s.records))
	for _, entry := range s.records {
		out = append(out, entry.rec)
	}
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Update applies fn to the record for id atomically. It reports whether the
// record existed. fn must not block.
func (s *Store) Update(id string, fn func(*models.ReservationRecord)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.records[id]
	if !ok {
		return false
	}
	fn(&entry.rec)
	return true
}

// ClaimCheckout is the atomic state guard for complete(). Exactly one of any
// number of concurrent callers for the same id gets the claim; the rest fail
// with InvalidStateError naming the current status. The claim must be released
// with ReleaseCheckout once the checkout attempt reaches a terminal outcome.
func (s *Store) ClaimCheckout(id string) (models.ReservationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.records[id]
	if !ok {
		return models.ReservationRecord{}, &NotFoundError{ReservationID: id}
	}
	if entry.rec.Status != models.ReservationCreated {
		return models.ReservationRecord{}, &InvalidStateError{
			ReservationID: id,
			Status:        entry.rec.Status,
		}
	}
	if entry.checkoutInFlight {
		return models.ReservationRecord{}, &InvalidStateError{
			ReservationID: id,
			Status:        entry.rec.Status,
			Detail:        "checkout already in progress",
		}
	}
	entry.checkoutInFlight = true
	return entry.rec, nil
}

// ReleaseCheckout clears the checkout claim for id. Idempotent, safe when
// absent.
func (s *Store) ReleaseCheckout(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.records[id]; ok {
		entry.checkoutInFlight = false
	}
}
