// Package store tracks the proof lifecycle of every file announced by the
// upload pipeline. The store itself is not safe for concurrent use; the
// coordinator is its single owner and serializes all access.
package store

import (
	"strings"
	"time"
)

// Status is the proof-lifecycle state of a tracked file.
type Status int

const (
	StatusUploaded Status = iota
	StatusStored
	StatusProven
	StatusFaulty
)

// DisplayText maps a status to the fixed vocabulary of the display line
// protocol.
func (s Status) DisplayText() string {
	switch s {
	case StatusUploaded:
		return "uploaded"
	case StatusStored:
		return "stored"
	case StatusProven:
		return "stored & proven"
	case StatusFaulty:
		return "stored & faulty"
	default:
		return "unknown"
	}
}

func (s Status) String() string { return s.DisplayText() }

// FileRecord is the unit of tracked state for one uploaded file.
//
// FileID is an opaque key. Identifiers produced by the pipeline carry the
// piece CID and the root CID joined with a colon; RootCID exposes the second
// half when present. DisplayName is fixed at record creation and never
// overwritten by later events.
type FileRecord struct {
	DisplayName      string
	FileID           string
	ProofSetID       string
	Status           Status
	LastTransitionAt time.Time
}

// RootCID returns the second colon-separated segment of a composite file
// identifier, or an empty string when there is none.
func RootCID(fileID string) string {
	parts := strings.Split(fileID, ":")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// PollTarget identifies one record due for a proof-health check.
type PollTarget struct {
	FileID     string
	ProofSetID string
	RootCID    string
}

// Store maps file identifiers to lifecycle records. Records are created on
// first sight of an identifier and live for the process lifetime.
type Store struct {
	records map[string]*FileRecord
}

func New() *Store {
	return &Store{records: make(map[string]*FileRecord)}
}

// Get returns a copy of the record for fileID.
func (s *Store) Get(fileID string) (FileRecord, bool) {
	rec, ok := s.records[fileID]
	if !ok {
		return FileRecord{}, false
	}
	return *rec, true
}

// Len returns the number of tracked records.
func (s *Store) Len() int { return len(s.records) }

// ApplyUploaded records that a file was handed to the storage provider.
// It creates the record on first sight; a repeated upload notification is an
// idempotent no-op and never regresses a record that already has a proof set.
// The second return value reports whether the visible (name, status) pair
// changed.
func (s *Store) ApplyUploaded(fileID, displayName string, now time.Time) (FileRecord, bool) {
	if rec, ok := s.records[fileID]; ok {
		return *rec, false
	}
	rec := &FileRecord{
		DisplayName:      displayName,
		FileID:           fileID,
		Status:           StatusUploaded,
		LastTransitionAt: now,
	}
	s.records[fileID] = rec
	return *rec, true
}

// ApplyRootsAdded records the file's inclusion in a proof set. An unknown
// identifier (upload event lost or reordered) creates a synthetic record
// directly in Stored. Once a record has a proof set, later RootsAdded events
// are idempotent no-ops keyed by identifier.
func (s *Store) ApplyRootsAdded(fileID, displayName, proofSetID string, now time.Time) (FileRecord, bool) {
	rec, ok := s.records[fileID]
	if !ok {
		rec = &FileRecord{
			DisplayName:      displayName,
			FileID:           fileID,
			ProofSetID:       proofSetID,
			Status:           StatusStored,
			LastTransitionAt: now,
		}
		s.records[fileID] = rec
		return *rec, true
	}
	if rec.ProofSetID != "" {
		return *rec, false
	}
	rec.ProofSetID = proofSetID
	rec.Status = StatusStored
	rec.LastTransitionAt = now
	return *rec, true
}

// ApplyHealth applies a proof-health poll result. Only records with a proof
// set can move; they flap between Proven and Faulty but never return to
// Uploaded or Stored.
func (s *Store) ApplyHealth(fileID string, healthy bool, now time.Time) (FileRecord, bool) {
	rec, ok := s.records[fileID]
	if !ok || rec.ProofSetID == "" {
		return FileRecord{}, false
	}
	next := StatusProven
	if !healthy {
		next = StatusFaulty
	}
	if rec.Status == next {
		return *rec, false
	}
	rec.Status = next
	rec.LastTransitionAt = now
	return *rec, true
}

// PollTargets returns the records due for a proof-health check: those with a
// proof set whose last transition is at least minRecheck old. Records still
// waiting for a proof set are never polled.
func (s *Store) PollTargets(now time.Time, minRecheck time.Duration) []PollTarget {
	targets := make([]PollTarget, 0, len(s.records))
	for _, rec := range s.records {
		if rec.ProofSetID == "" {
			continue
		}
		if now.Sub(rec.LastTransitionAt) < minRecheck {
			continue
		}
		targets = append(targets, PollTarget{
			FileID:     rec.FileID,
			ProofSetID: rec.ProofSetID,
			RootCID:    RootCID(rec.FileID),
		})
	}
	return targets
}
