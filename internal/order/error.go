package order

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownOption = errors.New("unknown option")
	ErrNotSelected   = errors.New("option is not selected")
	ErrNotPerNight   = errors.New("option is not priced per night")
	ErrInvertedRange = errors.New("range ends before it starts")
	ErrNextID        = errors.New("get next id from generator")
)

type InputError struct {
	fields map[string][]string
}

func newInputError() *InputError {
	return &InputError{
		fields: make(map[string][]string),
	}
}

func IsInputError(err error) *InputError {
	if err == nil {
		return nil
	}

	var inputError *InputError

	if errors.As(err, &inputError) {
		return inputError
	}

	return nil
}

func (ie *InputError) fieldsCount() int {
	return len(ie.fields)
}

func (ie *InputError) addError(field, msg string) {
	ie.fields[field] = append(ie.fields[field], msg)
}

func (ie *InputError) Error() string {
	keys := make([]string, 0, len(ie.fields))
	for k := range ie.fields {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s: %v", k, ie.fields[k]))
	}

	return fmt.Sprintf("%+v", out)
}

func (ie *InputError) Fields() map[string][]string {
	return ie.fields
}
