package app

import "errors"

var ErrBadSpec = errors.New("expected id or id:YYYY-MM-DD:YYYY-MM-DD")
