// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable: clients branch on them for
// programmatic error handling, so renaming one is a breaking change. Generic
// codes mirror common HTTP status semantics; domain-specific codes cover
// business outcomes a status alone cannot convey (a rejected order
// submission, an impossible state transition, a failed upstream call).
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeCreateFailed      = "create_failed"
	ErrCodeListFailed        = "list_failed"
	ErrCodeValidationFailed  = "validation_failed"
	ErrCodeInvalidTransition = "invalid_transition"
	ErrCodeUpstreamFailed    = "upstream_failed"
	ErrCodeMethodNotAllowed  = "method_not_allowed"
)
