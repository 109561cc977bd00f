package report

import (
	"time"

	"github.com/planfacthq/planfact/internal/model"
)

// WriteState tracks the lifecycle of a locally staged record write.
type WriteState int

const (
	StatePending WriteState = iota
	StateConfirmed
	StateRolledBack
)

// PendingWrite is one staged record with its confirmation state.
type PendingWrite struct {
	Record model.DailyRecord
	State  WriteState
}

// Overlay is a local write-ahead layer over the authoritative store.
// UI flows stage an edit here before the store confirms it; aggregation
// only ever sees confirmed records, so the core math stays free of
// optimistic-update concerns. Scoped to one client instance.
type Overlay struct {
	writes map[string]*PendingWrite // owner|date -> staged write
}

// NewOverlay returns an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{writes: make(map[string]*PendingWrite)}
}

func overlayKey(ownerID string, date time.Time) string {
	return ownerID + "|" + model.Day(date).Format(model.DateFormat)
}

// Stage records a tentative write. Staging the same (owner, date) again
// replaces the previous value: last write wins.
func (o *Overlay) Stage(rec model.DailyRecord) {
	o.writes[overlayKey(rec.OwnerID, rec.Date)] = &PendingWrite{
		Record: rec,
		State:  StatePending,
	}
}

// Confirm marks a staged write as accepted by the store.
func (o *Overlay) Confirm(ownerID string, date time.Time) {
	if w, ok := o.writes[overlayKey(ownerID, date)]; ok {
		w.State = StateConfirmed
	}
}

// Rollback marks a staged write as rejected.
func (o *Overlay) Rollback(ownerID string, date time.Time) {
	if w, ok := o.writes[overlayKey(ownerID, date)]; ok {
		w.State = StateRolledBack
	}
}

// InFlight reports whether a write for (owner, date) is awaiting
// confirmation. Callers use this to drop duplicate submissions.
func (o *Overlay) InFlight(ownerID string, date time.Time) bool {
	w, ok := o.writes[overlayKey(ownerID, date)]
	return ok && w.State == StatePending
}

// Apply merges confirmed overlay writes over a base record set. Pending
// and rolled-back writes never surface; a confirmed write replaces the
// base record for the same (owner, date).
func (o *Overlay) Apply(base []model.DailyRecord) []model.DailyRecord {
	if len(o.writes) == 0 {
		return base
	}

	merged := make([]model.DailyRecord, 0, len(base))
	used := make(map[string]bool)

	for _, rec := range base {
		key := overlayKey(rec.OwnerID, rec.Date)
		if w, ok := o.writes[key]; ok && w.State == StateConfirmed {
			merged = append(merged, w.Record)
			used[key] = true
			continue
		}
		merged = append(merged, rec)
	}

	// Confirmed writes for days with no base record yet.
	for key, w := range o.writes {
		if w.State == StateConfirmed && !used[key] {
			merged = append(merged, w.Record)
		}
	}

	return merged
}

// Prune drops settled writes, keeping only pending ones.
func (o *Overlay) Prune() {
	for key, w := range o.writes {
		if w.State != StatePending {
			delete(o.writes, key)
		}
	}
}
