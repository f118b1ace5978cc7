package dialog

import "errors"

var (
	// ErrRetrieverRequired is returned when a retriever is not provided.
	ErrRetrieverRequired = errors.New("retriever required")

	// ErrGeneratorRequired is returned when a generator is not provided.
	ErrGeneratorRequired = errors.New("generator required")

	// ErrEmptyMessage is returned when a turn carries no message.
	ErrEmptyMessage = errors.New("empty message")

	// ErrTurnFailed is returned when answer generation fails. The cause is
	// logged, not returned: callers see a uniform turn failure regardless
	// of which model call broke.
	ErrTurnFailed = errors.New("turn failed")
)
