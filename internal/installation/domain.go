package installation

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates appointment lifecycle states.
type Status string

const (
	StatusScheduled   Status = "SCHEDULED"
	StatusRescheduled Status = "RESCHEDULED"
	StatusCancelled   Status = "CANCELLED"
)

// Appointment is a booked installation visit. Cancelled appointments are kept.
type Appointment struct {
	ID                 string          `json:"id"`
	CustomerID         string          `json:"customer_id"`
	Address            string          `json:"address"`
	Date               string          `json:"date"`
	TimeWindow         string          `json:"time"`
	Plan               string          `json:"plan"`
	ContactPhone       string          `json:"contact_phone"`
	TechnicianID       string          `json:"technician_id"`
	Status             Status          `json:"status"`
	InstallFee         decimal.Decimal `json:"fees"`
	CancellationReason string          `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// BookInput requests a new appointment.
type BookInput struct {
	CustomerID   string
	Address      string
	Date         string
	TimeWindow   string
	Plan         string
	ContactPhone string
}

// Booking confirms a new appointment.
type Booking struct {
	Success       bool            `json:"success"`
	AppointmentID string          `json:"appointment_id"`
	TechnicianID  string          `json:"technician_id"`
	Plan          string          `json:"plan"`
	NextSteps     string          `json:"next_steps"`
	FeeQuoted     decimal.Decimal `json:"fee_quoted"`
	Appointment   Appointment     `json:"appointment"`
}

// Change confirms a reschedule or cancellation.
type Change struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	Appointment Appointment `json:"appointment"`
}
