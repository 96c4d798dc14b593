// Package cache keeps the client-side view of the host's patient list and
// the current selection.
//
// The list is held as an immutable snapshot that is swapped whole on every
// load, so a reader never sees a partially refreshed list. Selection changes
// are guarded by request tokens: only the answer to the most recently issued
// request may become the selection.
package cache

import "github.com/mrsinham/patientdesk/internal/patient"

// Token identifies one selection request.
type Token uint64

// Snapshot is one fetched patient list. It is never modified after creation.
type Snapshot struct {
	patients []patient.Summary
	version  uint64
}

// Patients returns the records of the snapshot. Callers must not modify it.
func (s *Snapshot) Patients() []patient.Summary {
	if s == nil {
		return nil
	}
	return s.patients
}

// Version increases by one on every replacement; zero means never loaded.
func (s *Snapshot) Version() uint64 {
	if s == nil {
		return 0
	}
	return s.version
}

// Cache is owned by the dispatcher and used only from the UI loop.
type Cache struct {
	snapshot *Snapshot

	selected    string
	hasSelected bool

	latest  Token
	pending string
}

// New returns an empty cache with no selection.
func New() *Cache {
	return &Cache{snapshot: &Snapshot{}}
}

// Snapshot returns the current list handle.
func (c *Cache) Snapshot() *Snapshot {
	return c.snapshot
}

// Patients is shorthand for Snapshot().Patients().
func (c *Cache) Patients() []patient.Summary {
	return c.snapshot.Patients()
}

// Replace installs list as the new snapshot. The input is copied.
func (c *Cache) Replace(list []patient.Summary) {
	cp := make([]patient.Summary, len(list))
	copy(cp, list)
	c.snapshot = &Snapshot{patients: cp, version: c.snapshot.Version() + 1}
}

// Selected returns the active selection.
func (c *Cache) Selected() (string, bool) {
	return c.selected, c.hasSelected
}

// BeginSelect issues a token for a detail fetch of id. Any older token is
// superseded. The id is not checked against the list.
func (c *Cache) BeginSelect(id string) Token {
	c.latest++
	c.pending = id
	return c.latest
}

// IsLatest reports whether t is the most recent outstanding token.
func (c *Cache) IsLatest(t Token) bool {
	return t == c.latest && t != 0
}

// Pending returns the id of the latest selection request.
func (c *Cache) Pending() string {
	return c.pending
}

// Commit makes id the selection if t is still the latest token.
func (c *Cache) Commit(t Token, id string) bool {
	if !c.IsLatest(t) {
		return false
	}
	c.selected = id
	c.hasSelected = true
	return true
}

// Clear drops the selection and invalidates every outstanding token.
func (c *Cache) Clear() {
	c.selected = ""
	c.hasSelected = false
	c.pending = ""
	c.latest++
}
