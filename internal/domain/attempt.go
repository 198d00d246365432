package domain

// Attempt outcome of executing one transfer or order.
type Attempt[T any] struct {
	Intent  T
	Success bool
	Message string
}

// Succeeded records a successful execution.
func Succeeded[T any](intent T) Attempt[T] {
	return Attempt[T]{Intent: intent, Success: true}
}

// Failed records a failed execution.
func Failed[T any](intent T, err error) Attempt[T] {
	a := Attempt[T]{Intent: intent}
	if err != nil {
		a.Message = err.Error()
	}
	return a
}

// Skipped records an intent that was never sent to the exchange.
func Skipped[T any](intent T, reason string) Attempt[T] {
	return Attempt[T]{Intent: intent, Message: reason}
}

// Result short status word.
func (a Attempt[T]) Result() string {
	if a.Success {
		return "success"
	}
	return "failed"
}
