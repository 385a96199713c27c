package engine

// Rejection codes produced by the engine in addition to gate reasons.
const (
	RejectUnknownTree = "UNKNOWN_TREE"
	RejectUnknownNode = "UNKNOWN_NODE"
)

// Decision is the outcome of an allocation operation: the history events it
// appended or removed, or the rejections that left state unchanged.
type Decision struct {
	Events     []Event     `json:"events,omitempty"`
	Rejections []Rejection `json:"rejections,omitempty"`
}

// Rejection captures why an operation was declined.
type Rejection struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Accept returns a decision carrying the affected events.
func Accept(events ...Event) Decision {
	return Decision{Events: append([]Event(nil), events...)}
}

// Reject returns a decision carrying the provided rejections.
func Reject(rejections ...Rejection) Decision {
	return Decision{Rejections: append([]Rejection(nil), rejections...)}
}

// Accepted reports whether the operation changed state or was a valid no-op.
func (d Decision) Accepted() bool {
	return len(d.Rejections) == 0
}
