package utils

import "errors"

// Error taxonomy shared by the service layer. Handlers translate these to
// HTTP statuses at the boundary: validation 400, not found 404, conflict
// 409, anything else 500.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)
