package formpost

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrRelativeTarget = errors.New("form target must be an absolute url")

type RejectedError struct {
	StatusCode int
}

func IsRejectedError(err error) *RejectedError {
	if err == nil {
		return nil
	}

	var rejectedError *RejectedError

	if errors.As(err, &rejectedError) {
		return rejectedError
	}

	return nil
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("form backend answered %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}
