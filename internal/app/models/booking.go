package models

import "time"

// Booking statuses and priorities
const (
	BookingStatusScheduled          = "scheduled"
	BookingStatusEmergencyScheduled = "emergency_scheduled"

	BookingPriorityNormal = "normal"
	BookingPriorityUrgent = "urgent"

	SessionTypeCrisisIntervention = "crisis_intervention"
	SessionModeVideoCall          = "video_call"
)

// Booking is a counselling appointment, stored under booking:{id}
type Booking struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	CounselorID string    `json:"counselorId" example:"1"`
	Date        string    `json:"date" example:"2025-03-14"`
	Time        string    `json:"time" example:"09:00"`
	SessionType string    `json:"sessionType" example:"individual"`
	Mode        string    `json:"mode" example:"video_call"`
	Notes       string    `json:"notes"`
	Status      string    `json:"status" example:"scheduled"`
	Priority    string    `json:"priority,omitempty" example:"urgent"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Counselor is a member of the counselling roster, stored under counselor:{id}
type Counselor struct {
	ID             string   `json:"id" example:"1"`
	Name           string   `json:"name" example:"Dr. Sarah Johnson"`
	Title          string   `json:"title" example:"Licensed Clinical Psychologist"`
	Email          string   `json:"email,omitempty"`
	Specialization []string `json:"specialization"`
	Availability   []string `json:"availability" example:"09:00"`
	Rating         float64  `json:"rating" example:"4.9"`
	Languages      []string `json:"languages"`
	SessionTypes   []string `json:"sessionTypes"`
}

// Slot is a counselor's free appointment time
type Slot struct {
	CounselorID string `json:"counselorId"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// InterventionResult is what the crisis workflow reports back to the user.
// Message is never empty.
type InterventionResult struct {
	AutoBooking   bool     `json:"autoBooking"`
	AppointmentID string   `json:"appointmentId,omitempty"`
	Appointment   *Booking `json:"appointment,omitempty"`
	Message       string   `json:"message"`
}
