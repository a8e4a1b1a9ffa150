package repository

import "errors"

// Common repository errors
var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateKey       = errors.New("duplicate key violation")
	ErrRequestNotApproved = errors.New("purchase request is not approved")
)
