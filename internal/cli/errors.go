package cli

import (
	"errors"
	"fmt"

	"chathistory/internal/store"
)

type openError struct {
	path string
	err  error
}

func (e openError) Error() string {
	if errors.Is(e.err, store.ErrNotFound) {
		return fmt.Sprintf("%v (set --db or CHAT_HISTORY_DB)", e.err)
	}
	return fmt.Sprintf("open %s: %v", e.path, e.err)
}

func (e openError) Unwrap() error { return e.err }

func errOpen(path string, err error) error {
	return openError{path: path, err: err}
}
