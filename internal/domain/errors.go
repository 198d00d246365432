package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidSymbol malformed currency pair or ticker symbol.
	ErrInvalidSymbol = errors.New("invalid symbol")
	// ErrInvalidPair trading pair violating its invariants.
	ErrInvalidPair = errors.New("invalid trading pair")
)

// RepoError failure of a single exchange operation.
type RepoError struct {
	// Op exchange operation, e.g. "create order".
	Op string
	// StatusCode HTTP status when the exchange answered, zero otherwise.
	StatusCode int
	Err        error
}

// NewRepoError wraps err as a failure of op.
func NewRepoError(op string, err error) *RepoError {
	return &RepoError{Op: op, Err: err}
}

func (e *RepoError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed with status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *RepoError) Unwrap() error {
	return e.Err
}

// IsRepoError reports whether err carries a RepoError.
func IsRepoError(err error) bool {
	var repoErr *RepoError
	return errors.As(err, &repoErr)
}
