package mock

import (
	"context"
)

// GenerateCall records the arguments of a single Generate invocation.
type GenerateCall struct {
	Instruction string
	Message     string
}

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields and records
// every call for later assertions.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, returns a fixed completion.
	GenerateFunc func(ctx context.Context, instruction, message string) (string, error)

	calls []GenerateCall
}

// NewMockGenerator creates a mock generator with default fixed behavior.
// Note: Returns concrete type to allow test assertions via GetMockGenerator().
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate records the call and delegates to GenerateFunc when set.
// Default behavior returns a fixed completion string.
func (m *MockGenerator) Generate(ctx context.Context, instruction, message string) (string, error) {
	m.calls = append(m.calls, GenerateCall{
		Instruction: instruction,
		Message:     message,
	})

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, instruction, message)
	}

	return "OK", nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return len(m.calls)
}

// Calls returns the recorded invocations in order.
func (m *MockGenerator) Calls() []GenerateCall {
	return m.calls
}

// Reset clears the recorded calls and custom functions.
func (m *MockGenerator) Reset() {
	m.calls = nil
	m.GenerateFunc = nil
}
