package services

// LoadState is the lifecycle of one remote retrieval.
type LoadState string

const (
	StatePending  LoadState = "pending"
	StateResolved LoadState = "resolved"
	StateRejected LoadState = "rejected"
)

// Loaded holds fetched data together with its retrieval state. Message is
// the progress text while pending and the failure reason when rejected.
type Loaded[T any] struct {
	State   LoadState `json:"state"`
	Data    T         `json:"data,omitempty"`
	Message string    `json:"message,omitempty"`
}

func Pending[T any](message string) Loaded[T] {
	return Loaded[T]{State: StatePending, Message: message}
}

func Resolved[T any](data T) Loaded[T] {
	return Loaded[T]{State: StateResolved, Data: data}
}

func Rejected[T any](message string) Loaded[T] {
	return Loaded[T]{State: StateRejected, Message: message}
}

func (l Loaded[T]) IsResolved() bool {
	return l.State == StateResolved
}
