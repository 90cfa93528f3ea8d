// Package services defines the business logic for chats, messages,
// preferences, and the mock wallet. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import "errors"

// Chat-related errors.
var (
	// ErrChatNotFound indicates that the requested chat does not exist or is not
	// accessible to the current user.
	ErrChatNotFound = errors.New("chat not found")

	// ErrEmptyPrompt is returned when a request to create a message contains
	// an empty prompt.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrTooLong is returned when a request to create a message exceeds the
	// maximum configured length limit.
	ErrTooLong = errors.New("prompt too long")

	// ErrMessageNotFound indicates that the requested message does not exist
	// or is not accessible to the current user.
	ErrMessageNotFound = errors.New("message not found")
)

// Preference-related errors.
var (
	// ErrInvalidLanguage is returned when a preference update names a
	// language outside the supported set.
	ErrInvalidLanguage = errors.New("unsupported language")

	// ErrInvalidTheme is returned when a preference update names a theme
	// outside the supported set.
	ErrInvalidTheme = errors.New("unsupported theme")
)
