package models

import "errors"

// Custom errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrMatchKeyMissing = errors.New("match key is required")
)
