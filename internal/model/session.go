package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of an attendance session.
type SessionStatus string

const (
	SessionOpen      SessionStatus = "OPEN"
	SessionClosed    SessionStatus = "CLOSED"
	SessionCancelled SessionStatus = "CANCELLED"
)

// AttendanceStatus classifies a check-in against the session cutoff.
type AttendanceStatus string

const (
	AttendanceOnTime AttendanceStatus = "ON_TIME"
	AttendanceLate   AttendanceStatus = "LATE"
)

// Session is the attendance session of one civil date. There is at most one
// session per date.
type Session struct {
	ID        uuid.UUID     `json:"id"`
	Date      string        `json:"session_date"`
	StartAt   time.Time     `json:"start_at"`
	CutoffAt  time.Time     `json:"cutoff_at"`
	Status    SessionStatus `json:"status"`
	CreatedBy uuid.UUID     `json:"created_by"`
	CreatedAt time.Time     `json:"created_at"`
}

// Attendance records that a student checked in to a session.
type Attendance struct {
	ID                 uuid.UUID        `json:"id"`
	SessionID          uuid.UUID        `json:"session_id"`
	StudentID          uuid.UUID        `json:"student_id"`
	Status             AttendanceStatus `json:"status"`
	TakenBy            uuid.UUID        `json:"taken_by"`
	TakenAt            time.Time        `json:"taken_at"`
	PointTransactionID *uuid.UUID       `json:"point_transaction_id"`
}

// MarkAttendanceRequest is the payload for checking a student in.
type MarkAttendanceRequest struct {
	StudentID uuid.UUID `json:"student_id" binding:"required"`
}

// MarkAttendanceResult is returned after a successful check-in.
type MarkAttendanceResult struct {
	Attendance Attendance `json:"attendance"`
	Points     int        `json:"points"`
}

// SessionStatusRequest changes the status of today's session.
type SessionStatusRequest struct {
	Status SessionStatus `json:"status" binding:"required,oneof=OPEN CLOSED CANCELLED"`
}

// RosterEntry pairs a student with today's attendance, if any.
type RosterEntry struct {
	Student    Student     `json:"student"`
	Attendance *Attendance `json:"attendance"`
}

// TodayRoster is the class roster for the current civil date.
type TodayRoster struct {
	IsAttendanceDay bool          `json:"is_attendance_day"`
	Message         string        `json:"message,omitempty"`
	Date            string        `json:"date"`
	Session         *Session      `json:"session"`
	Students        []RosterEntry `json:"students"`
}

// AttendanceEvent is broadcast on the live feed after a check-in commits.
type AttendanceEvent struct {
	SessionID   uuid.UUID        `json:"session_id"`
	Date        string           `json:"date"`
	StudentID   uuid.UUID        `json:"student_id"`
	StudentName string           `json:"student_name"`
	ClassID     uuid.UUID        `json:"class_id"`
	Status      AttendanceStatus `json:"status"`
	Points      int              `json:"points"`
	TakenBy     string           `json:"taken_by"`
	TakenAt     time.Time        `json:"taken_at"`
}
