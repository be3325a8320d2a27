package transform

import "errors"

// Engine errors.
var (
	ErrNotBound           = errors.New("no prim bound")
	ErrSchemaUnrecognized = errors.New("transform ops do not match a known schema")
	ErrTypeMismatch       = errors.New("op value type does not match its role")
	ErrInsertFailed       = errors.New("failed to insert transform op")
	ErrOpNotFound         = errors.New("transform op not found")
	ErrUnsupportedEdit    = errors.New("unsupported transform edit")
)
