package service

import (
	"errors"
	"fmt"
)

// ErrSessionBusy rejects an utterance while another is in flight for the same conversation.
var ErrSessionBusy = errors.New("session is busy with another command")

// EmptyInputError means a note or todo command carried no text to store.
type EmptyInputError struct {
	Command string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: nothing to store", e.Command)
}

func IsEmptyInputError(err error) bool {
	var ee *EmptyInputError
	return errors.As(err, &ee)
}
