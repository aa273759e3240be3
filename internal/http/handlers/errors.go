// Package handlers defines HTTP-layer error codes used across all API
// endpoints. These symbolic constants supplement human-readable messages
// with a stable, machine-readable taxonomy clients can branch on.
//
// Conventions:
//   - Codes are lowercase snake_case.
//   - Generic codes mirror common HTTP status semantics.
//   - Domain-specific codes cover failures a status alone cannot convey.
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeInvalidParticipants = "invalid_participants"
	ErrCodeStorageFailure      = "storage_failure"
	ErrCodeAnswerFailed        = "answer_failed"
	ErrCodeMethodNotAllowed    = "method_not_allowed"
)
