package jobs

// Status of an application. Transitions are enforced server-side:
// pending may move to any other state, reviewed may be decided, and a
// decision is final.
type Status string

const (
	StatusPending  Status = "pending"
	StatusReviewed Status = "reviewed"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusReviewed, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// CanTransition reports whether an application may move from one status
// to another.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusReviewed || to == StatusAccepted || to == StatusRejected
	case StatusReviewed:
		return to == StatusAccepted || to == StatusRejected
	default:
		// accepted and rejected are terminal
		return false
	}
}
