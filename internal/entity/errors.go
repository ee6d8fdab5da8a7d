package entity

import "errors"

var (
	ErrLeadNotFound  = errors.New("lead not found")
	ErrRoleNotFound  = errors.New("role not found")
	ErrDuplicateLead = errors.New("lead already exists for this owner and email")

	// ErrStatusConflict means a compare-and-swap status update lost the
	// race against a concurrent writer of the same lead.
	ErrStatusConflict = errors.New("lead status changed concurrently")
)
