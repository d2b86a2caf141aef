package form

import "errors"

var ErrConfirmationShown = errors.New("form is showing the confirmation, reset it first")
