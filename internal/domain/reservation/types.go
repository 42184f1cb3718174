package reservation

// Status is the overall lifecycle state. The chain is monotonic:
// pending -> confirmed -> active -> completed, with cancelled reachable from
// any non-terminal state. completed and cancelled are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusActive, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsBlocking reports whether a reservation in this status consumes capacity.
// Pending is a request, not a hold.
func (s Status) IsBlocking() bool {
	return s == StatusConfirmed || s == StatusActive
}

func (s Status) CanTransitionTo(next Status) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusConfirmed
	case StatusConfirmed:
		return next == StatusActive
	case StatusActive:
		return next == StatusCompleted
	default:
		return false
	}
}

// AdminStatus tracks back-office processing independently of Status.
type AdminStatus string

const (
	AdminPending   AdminStatus = "pending"
	AdminCompleted AdminStatus = "completed"
)

func (s AdminStatus) String() string {
	return string(s)
}

func (s AdminStatus) IsValid() bool {
	return s == AdminPending || s == AdminCompleted
}

// OwnerStatus tracks the resource owner's approval independently of Status.
type OwnerStatus string

const (
	OwnerPending   OwnerStatus = "pending"
	OwnerConfirmed OwnerStatus = "confirmed"
)

func (s OwnerStatus) String() string {
	return string(s)
}

func (s OwnerStatus) IsValid() bool {
	return s == OwnerPending || s == OwnerConfirmed
}
