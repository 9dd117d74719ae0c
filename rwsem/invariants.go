package rwsem

import "fmt"

// CheckInvariants walks every slot and verifies the quantified invariants
// from spec.md §8. It is meant for tests, not for the hot path — a
// violation here indicates a bug in this package, not a recoverable
// runtime condition (spec.md §7: "a violation is a server bug").
func (t *Table) CheckInvariants() error {
	seenKeys := make(map[int64]int, t.nonFreeCount)
	nonFree := 0

	for i := range t.slots {
		s := &t.slots[i]

		if s.writersIn != 0 && s.writersIn != 1 {
			return fmt.Errorf("slot %d: writers_in = %d, want 0 or 1", i, s.writersIn)
		}
		if s.writersIn == 1 && s.readersIn != 0 {
			return fmt.Errorf("slot %d: writers_in = 1 but readers_in = %d", i, s.readersIn)
		}

		switch s.state {
		case slotFree:
			if s.readersIn != 0 || s.writersIn != 0 {
				return fmt.Errorf("slot %d: FREE but counts nonzero (%d, %d)", i, s.readersIn, s.writersIn)
			}
			if !s.readersWaiting.empty() || !s.writersWaiting.empty() {
				return fmt.Errorf("slot %d: FREE but queues nonempty", i)
			}
		case slotActive, slotClosed:
			nonFree++
			if prev, dup := seenKeys[s.key]; dup {
				return fmt.Errorf("slot %d: key %d already used by slot %d", i, s.key, prev)
			}
			seenKeys[s.key] = i
		}
	}

	if nonFree != t.nonFreeCount {
		return fmt.Errorf("nonFreeCount = %d, counted %d", t.nonFreeCount, nonFree)
	}
	if nonFree > len(t.slots) {
		return fmt.Errorf("nonFreeCount = %d exceeds capacity %d", nonFree, len(t.slots))
	}
	return nil
}
