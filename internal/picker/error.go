package picker

import (
	"errors"
	"fmt"
	"time"

	"github.com/avstrong/orderform/internal/catalog"
)

var ErrDestroyed = errors.New("picker destroyed")

type DateError struct {
	errors []string
}

func NewDateError() *DateError {
	//nolint:exhaustruct
	return &DateError{}
}

func IsDateError(err error) *DateError {
	if err == nil {
		return nil
	}

	var dateError *DateError

	if errors.As(err, &dateError) {
		return dateError
	}

	return nil
}

func (e *DateError) add(d time.Time, reason string) {
	e.errors = append(e.errors, fmt.Sprintf("date '%v' is %v", d.Format(catalog.DateLayout), reason))
}

func (e *DateError) count() int {
	return len(e.errors)
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%+v", e.errors)
}

func (e *DateError) Fields() []string {
	return e.errors
}
