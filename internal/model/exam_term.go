package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TermStatus enumerates the approval workflow states of an exam term.
type TermStatus string

const (
	TermStatusDraft              TermStatus = "DRAFT"
	TermStatusProposedByLecturer TermStatus = "PROPOSED_BY_LECTURER"
	TermStatusProposedByStudent  TermStatus = "PROPOSED_BY_STUDENT"
	// TermStatusConflict is representable for interoperability with stored
	// rows, but the engine never assigns it: conflicts are surfaced as
	// errors, not as a persisted state.
	TermStatusConflict  TermStatus = "CONFLICT"
	TermStatusApproved  TermStatus = "APPROVED"
	TermStatusFinalized TermStatus = "FINALIZED"
	TermStatusRejected  TermStatus = "REJECTED"
)

// Valid reports whether s is a known status value.
func (s TermStatus) Valid() bool {
	switch s {
	case TermStatusDraft, TermStatusProposedByLecturer, TermStatusProposedByStudent,
		TermStatusConflict, TermStatusApproved, TermStatusFinalized, TermStatusRejected:
		return true
	}
	return false
}

// TermType enumerates exam attempt kinds.
type TermType string

const (
	TermTypeFirstAttempt TermType = "FIRST_ATTEMPT"
	TermTypeRetake       TermType = "RETAKE"
	TermTypeCommission   TermType = "COMMISSION"
)

// Valid reports whether t is a known term type.
func (t TermType) Valid() bool {
	switch t {
	case TermTypeFirstAttempt, TermTypeRetake, TermTypeCommission:
		return true
	}
	return false
}

// MinuteOfDay is a wall-clock time within a day, stored as minutes since
// midnight. It marshals to/from "HH:MM" in JSON.
type MinuteOfDay int

// ParseMinuteOfDay parses "HH:MM" (24-hour clock).
func ParseMinuteOfDay(s string) (MinuteOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return MinuteOfDay(t.Hour()*60 + t.Minute()), nil
}

func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// MarshalJSON renders the minute as "HH:MM".
func (m MinuteOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts "HH:MM".
func (m *MinuteOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMinuteOfDay(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// OnDate combines the minute with a calendar day into a UTC timestamp.
func (m MinuteOfDay) OnDate(date time.Time) time.Time {
	d := DateOnly(date)
	return d.Add(time.Duration(m) * time.Minute)
}

// DateOnly truncates t to midnight UTC of the same calendar day.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ExamTerm is one scheduled instance of a course's exam.
type ExamTerm struct {
	ID              uuid.UUID   `json:"id"`
	CourseID        uuid.UUID   `json:"course_id"`
	SessionID       uuid.UUID   `json:"session_id"`
	RoomID          *uuid.UUID  `json:"room_id,omitempty"`
	Date            time.Time   `json:"date"`
	StartTime       MinuteOfDay `json:"start_time"`
	EndTime         MinuteOfDay `json:"end_time"`
	Type            TermType    `json:"type"`
	Status          TermStatus  `json:"status"`
	CreatedBy       uuid.UUID   `json:"created_by"`
	RejectionReason *string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// StartAt returns the term's start as a combined UTC timestamp.
func (t *ExamTerm) StartAt() time.Time { return t.StartTime.OnDate(t.Date) }

// TermWithDetails is a term joined with its course, lecturer, group and room.
// Returned by overlap queries so conflict axes resolve without extra lookups,
// and by the detail/search read endpoints.
type TermWithDetails struct {
	ExamTerm
	CourseName   string    `json:"course_name"`
	LecturerID   uuid.UUID `json:"lecturer_id"`
	LecturerName string    `json:"lecturer_name"`
	GroupID      uuid.UUID `json:"group_id"`
	GroupName    string    `json:"group_name"`
	RoomName     *string   `json:"room_name,omitempty"`
	SessionName  string    `json:"session_name"`
}

// CreateTermRequest is the payload for scheduling a new exam term.
type CreateTermRequest struct {
	CourseID  uuid.UUID  `json:"course_id" binding:"required"`
	SessionID uuid.UUID  `json:"session_id" binding:"required"`
	RoomID    *uuid.UUID `json:"room_id" binding:"omitempty"`
	Date      string     `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime string     `json:"start_time" binding:"required,datetime=15:04"`
	EndTime   string     `json:"end_time" binding:"required,datetime=15:04"`
	Type      TermType   `json:"type" binding:"required,oneof=FIRST_ATTEMPT RETAKE COMMISSION"`
	Status    TermStatus `json:"status" binding:"omitempty,oneof=DRAFT PROPOSED_BY_LECTURER PROPOSED_BY_STUDENT APPROVED"`
}

// UpdateTermRequest is the payload for rescheduling an existing term.
type UpdateTermRequest struct {
	SessionID uuid.UUID  `json:"session_id" binding:"required"`
	RoomID    *uuid.UUID `json:"room_id" binding:"omitempty"`
	Date      string     `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime string     `json:"start_time" binding:"required,datetime=15:04"`
	EndTime   string     `json:"end_time" binding:"required,datetime=15:04"`
	Type      TermType   `json:"type" binding:"required,oneof=FIRST_ATTEMPT RETAKE COMMISSION"`
}

// UpdateTermStatusRequest is the payload for a workflow status change.
type UpdateTermStatusRequest struct {
	Status          TermStatus `json:"status" binding:"required,oneof=DRAFT PROPOSED_BY_LECTURER PROPOSED_BY_STUDENT CONFLICT APPROVED FINALIZED REJECTED"`
	RejectionReason string     `json:"rejection_reason" binding:"omitempty,max=500"`
}
