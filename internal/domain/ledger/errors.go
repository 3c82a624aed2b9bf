package ledger

import "errors"

var (
	// ErrLogNotFound indicates the log to void doesn't exist under the project.
	ErrLogNotFound = errors.New("log not found")
)
