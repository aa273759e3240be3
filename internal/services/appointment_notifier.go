// Package services – AppointmentNotifier
//
// The appointment workflow lives outside this core, but its user-visible
// pushes flow through the same hub entry point as chat delivery. This file
// owns the human-readable wording for each appointment event so the workflow
// only reports ids, status, date, and time.
//
// Wording is part of the client contract; the Android client renders these
// strings verbatim. Do not reword without coordinating a client release.
package services

import (
	"context"
	"fmt"

	"github.com/carewire/go-hospital-backend/internal/domain"
)

// Appointment statuses as reported by the appointment workflow.
const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusConfirmed = "CONFIRMED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// AppointmentNotifier formats appointment events and pushes them through the
// hub: the doctor on creation, the patient on every status change.
type AppointmentNotifier struct {
	Hub Pusher
}

// AppointmentCreated notifies the doctor about a new appointment request.
func (n *AppointmentNotifier) AppointmentCreated(ctx context.Context, doctorID, patientName, date, timeOfDay string) {
	n.Hub.Push(ctx, doctorID, domain.CategoryAppointment,
		"New Appointment Request",
		fmt.Sprintf("New appointment request from %s for %s at %s", patientName, date, timeOfDay),
	)
}

// StatusChanged notifies the patient about a status transition. Exactly one
// push is issued per transition. An unrecognized status yields
// ErrUnknownStatus and no push.
func (n *AppointmentNotifier) StatusChanged(ctx context.Context, patientID, status, date, timeOfDay string) error {
	var body string
	switch status {
	case StatusApproved:
		body = fmt.Sprintf("Your appointment has been approved for %s at %s", date, timeOfDay)
	case StatusConfirmed:
		body = fmt.Sprintf("Your appointment has been confirmed for %s at %s", date, timeOfDay)
	case StatusCompleted:
		body = fmt.Sprintf("Your appointment on %s at %s has been marked as completed by your doctor.", date, timeOfDay)
	case StatusCancelled:
		body = "Your appointment was cancelled by the doctor."
	default:
		return ErrUnknownStatus
	}
	n.Hub.Push(ctx, patientID, domain.CategoryAppointment, "Appointment Update", body)
	return nil
}

// AppointmentCancelled notifies the patient about an explicit cancel action
// (as opposed to a status update to CANCELLED).
func (n *AppointmentNotifier) AppointmentCancelled(ctx context.Context, patientID, date, timeOfDay string) {
	n.Hub.Push(ctx, patientID, domain.CategoryAppointment,
		"Appointment Cancelled",
		fmt.Sprintf("Your appointment on %s at %s has been cancelled.", date, timeOfDay),
	)
}
