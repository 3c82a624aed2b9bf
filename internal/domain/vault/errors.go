package vault

import "errors"

var (
	// ErrBusy rejects a mutating call while another is in flight. It carries
	// zero state effect: nothing was queued, nothing was written.
	ErrBusy = errors.New("engine busy: transaction in flight")
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrMemberNotFound indicates the member doesn't exist.
	ErrMemberNotFound = errors.New("member not found")
	// ErrInvalidInput indicates invalid creation input.
	ErrInvalidInput = errors.New("invalid input")
)
