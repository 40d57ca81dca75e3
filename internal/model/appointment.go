package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusOpen  AppointmentStatus = "open"
	AppointmentStatusTaken AppointmentStatus = "taken"
)

// SlotDuration is the fixed length of every appointment slot.
const SlotDuration = 30 * time.Minute

type Appointment struct {
	ID                 int64             `json:"id"`
	StartTime          time.Time         `json:"start_time"`
	EndTime            time.Time         `json:"end_time"`
	Status             AppointmentStatus `json:"status"`
	PatientName        string            `json:"patient_name,omitempty"`
	PatientPhoneNumber string            `json:"patient_phone_number,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
}

// IsOpen reports whether the slot can still be claimed.
func (a *Appointment) IsOpen() bool {
	return a.Status == AppointmentStatusOpen
}
