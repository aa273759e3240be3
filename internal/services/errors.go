// Package services defines the business logic of the communication core:
// the chat orchestrator, the notification inbox, the appointment notifier,
// and the rate-limited assistant gateway.
//
// This file centralizes service-level error values so they can be returned
// consistently and checked with errors.Is by the HTTP layer. Errors owned by
// lower layers keep living there: conversation.ErrInvalidParticipants and
// conversation.ErrNotMember for identity/authorization, repo.ErrNotFound for
// missing records.
package services

import "errors"

var (
	// ErrEmptyMessage is returned when a send request carries neither text
	// nor an attachment.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrNoAttachment is returned when an upload request is missing the file
	// name, content type, or payload bytes.
	ErrNoAttachment = errors.New("attachment is incomplete")

	// ErrRateLimited is returned when the assistant admission check rejects
	// a request. Callers surface a "try again later" message.
	ErrRateLimited = errors.New("too many requests, try again later")

	// ErrEmptyPrompt is returned when an assistant request has a blank prompt.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrUnknownStatus is returned when an appointment transition names a
	// status the notifier has no wording for.
	ErrUnknownStatus = errors.New("unknown appointment status")
)
