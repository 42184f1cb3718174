package reservation

import "github.com/google/uuid"

// Hold is the slice of an existing reservation that matters for admission.
type Hold struct {
	ID       uuid.UUID
	Interval Interval
	Status   Status
}

type Decision struct {
	Admit     bool
	Conflicts []Hold
}

// Decide determines whether a candidate interval can be admitted against a
// resource's capacity. Only confirmed/active reservations consume capacity;
// the candidate is admitted iff fewer than capacity of them overlap it.
// Conflicts always lists the overlapping blocking holds, admitted or not, so
// callers can show what is already occupying the interval.
// Pure function; callers are responsible for running it under whatever
// concurrency control the store requires.
func Decide(capacity int, candidate Interval, existing []Hold) Decision {
	var conflicts []Hold
	for _, h := range existing {
		if !h.Status.IsBlocking() {
			continue
		}
		if candidate.Overlaps(h.Interval) {
			conflicts = append(conflicts, h)
		}
	}

	return Decision{Admit: len(conflicts) < capacity, Conflicts: conflicts}
}
