package submission

import "errors"

var (
	ErrInFlight         = errors.New("a submission is already in progress")
	ErrAlreadySubmitted = errors.New("application already submitted")
	ErrTransport        = errors.New("application could not be sent")
)
