package catalog

import "errors"

var ErrInvalidCatalog = errors.New("invalid catalog")
