package cache

import (
	"testing"

	"github.com/mrsinham/patientdesk/internal/patient"
)

func TestNew_Empty(t *testing.T) {
	c := New()
	if len(c.Patients()) != 0 {
		t.Errorf("Expected empty list, got %d records", len(c.Patients()))
	}
	if _, ok := c.Selected(); ok {
		t.Error("Expected no selection")
	}
	if c.Snapshot().Version() != 0 {
		t.Errorf("Expected version 0, got %d", c.Snapshot().Version())
	}
}

func TestReplace_SwapsWholeSnapshot(t *testing.T) {
	c := New()
	first := []patient.Summary{{ID: "P1", Name: "Ann"}}
	c.Replace(first)

	old := c.Snapshot()
	c.Replace([]patient.Summary{{ID: "P2", Name: "Bob"}, {ID: "P3", Name: "Cid"}})

	if got := old.Patients(); len(got) != 1 || got[0].ID != "P1" {
		t.Errorf("Old snapshot changed after replace: %+v", got)
	}
	if got := c.Patients(); len(got) != 2 || got[0].ID != "P2" {
		t.Errorf("Unexpected current list: %+v", got)
	}
	if c.Snapshot().Version() != 2 {
		t.Errorf("Expected version 2, got %d", c.Snapshot().Version())
	}

	// the caller's slice is not aliased
	first[0].Name = "Changed"
	if old.Patients()[0].Name != "Ann" {
		t.Error("Snapshot aliases the input slice")
	}
}

func TestCommit_LastRequestedWins(t *testing.T) {
	c := New()
	a := c.BeginSelect("A")
	b := c.BeginSelect("B")

	if c.Commit(a, "A") {
		t.Error("Stale token A should not commit")
	}
	if !c.Commit(b, "B") {
		t.Fatal("Latest token B should commit")
	}
	if id, ok := c.Selected(); !ok || id != "B" {
		t.Errorf("Expected selection B, got %q (%v)", id, ok)
	}
	if c.Pending() != "B" {
		t.Errorf("Expected pending B, got %q", c.Pending())
	}
}

func TestBeginSelect_DoesNotValidateAgainstList(t *testing.T) {
	c := New()
	c.Replace([]patient.Summary{{ID: "P1"}})

	tok := c.BeginSelect("unknown")
	if !c.Commit(tok, "unknown") {
		t.Error("Selection of an id missing from the list should be allowed")
	}
}

func TestClear_InvalidatesOutstandingTokens(t *testing.T) {
	c := New()
	done := c.BeginSelect("P1")
	c.Commit(done, "P1")

	inflight := c.BeginSelect("P2")
	c.Clear()

	if _, ok := c.Selected(); ok {
		t.Error("Expected no selection after Clear")
	}
	if c.IsLatest(inflight) {
		t.Error("Token issued before Clear should be stale")
	}
	if c.Commit(inflight, "P2") {
		t.Error("Stale token should not commit after Clear")
	}
}

func TestIsLatest_ZeroToken(t *testing.T) {
	c := New()
	if c.IsLatest(0) {
		t.Error("Zero token must never be latest")
	}
}
