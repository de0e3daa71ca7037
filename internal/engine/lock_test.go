package engine

import "testing"

func TestLockFor(t *testing.T) {
	e := New(nil, nil, nil)

	if e.lockFor(7) != e.lockFor(7) {
		t.Error("same user mapped to different locks")
	}

	// The table is fixed size: user IDs a full stripe count apart share
	// a lock, so the memory held never grows with the user population.
	if e.lockFor(7) != e.lockFor(7+lockStripes) {
		t.Error("lock table not bounded by stripe count")
	}

	// Negative IDs index safely.
	if e.lockFor(-1) != e.lockFor(-1) {
		t.Error("negative user ID mapped to different locks")
	}
}
