package coordinator

import "sync"

// Record is everything the coordinator has learned about one
// participant's share: the share itself, the commitment opening it was
// published with, and whether the commitment/proof have independently
// verified.
type Record struct {
	ID                 uint32
	ShareValue         []byte
	Commitment         []byte
	Randomness         []byte
	CommitmentVerified bool
	ProofVerified      bool
}

// ParticipantTable is the coordinator's concurrency-safe view of every
// participant's record, guarding shared per-party state with a single
// RWMutex rather than one lock per entry.
type ParticipantTable struct {
	mu      sync.RWMutex
	records map[uint32]*Record
}

func newParticipantTable() *ParticipantTable {
	return &ParticipantTable{records: make(map[uint32]*Record)}
}

// Set inserts or replaces the record for id.
func (t *ParticipantTable) Set(id uint32, r *Record) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records[id] = r
}

// Get returns the record for id, or (nil, false) if absent.
func (t *ParticipantTable) Get(id uint32) (*Record, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.records[id]
	return r, ok
}

// Len reports how many participants currently have a record.
func (t *ParticipantTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}

// VerifiedIDs returns the ids whose commitment and proof have both
// verified, in ascending order.
func (t *ParticipantTable) VerifiedIDs() []uint32 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]uint32, 0, len(t.records))
	for id, r := range t.records {
		if r.CommitmentVerified && r.ProofVerified {
			out = append(out, id)
		}
	}
	sortUint32(out)
	return out
}

func sortUint32(s []uint32) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
