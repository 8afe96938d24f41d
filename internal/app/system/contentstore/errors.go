package contentstore

import "errors"

var (
	// ErrValidation wraps a rejected mutation. State is unchanged.
	ErrValidation = errors.New("contentstore: invalid content")

	// ErrPersistence wraps a failed backing-store write. The in-memory
	// mutation has already been applied and announced to subscribers; it is
	// not rolled back. Re-hydrate if stronger consistency is needed.
	ErrPersistence = errors.New("contentstore: changes may not be saved")

	// ErrHydration wraps a failed or malformed backing-store read. The store
	// keeps serving its previous state.
	ErrHydration = errors.New("contentstore: hydration failed")

	// ErrClosed is returned by mutations after Close.
	ErrClosed = errors.New("contentstore: closed")
)
