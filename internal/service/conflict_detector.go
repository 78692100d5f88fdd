package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uniterm/terminarz-backend/internal/apperr"
	"github.com/uniterm/terminarz-backend/internal/model"
	"github.com/uniterm/terminarz-backend/internal/repository"
)

// ErrScheduleConflict marks errors produced by a failed conflict check,
// so the HTTP layer can distinguish them from other rule violations.
var ErrScheduleConflict = errors.New("schedule conflict")

// Conflicts is the tri-flag summary of a conflict check.
type Conflicts struct {
	Room     bool `json:"room"`
	Lecturer bool `json:"lecturer"`
	Group    bool `json:"group"`
}

// HasAny reports whether any axis conflicts.
func (c Conflicts) HasAny() bool { return c.Room || c.Lecturer || c.Group }

// Axes lists the conflicting axes in fixed order.
func (c Conflicts) Axes() []string {
	var axes []string
	if c.Room {
		axes = append(axes, "room")
	}
	if c.Lecturer {
		axes = append(axes, "lecturer")
	}
	if c.Group {
		axes = append(axes, "group")
	}
	return axes
}

// Err converts the summary into a BusinessRule error naming every
// conflicting axis, or nil when the schedule is clear.
func (c Conflicts) Err() error {
	if !c.HasAny() {
		return nil
	}
	return &apperr.Error{
		Kind: apperr.KindBusinessRule,
		Msg:  fmt.Sprintf("conflicts with existing schedule (%s)", strings.Join(c.Axes(), ", ")),
		Err:  ErrScheduleConflict,
	}
}

// ConflictQuery describes the candidate slot being checked.
type ConflictQuery struct {
	CourseID uuid.UUID
	RoomID   *uuid.UUID
	Date     time.Time
	Start    model.MinuteOfDay
	End      model.MinuteOfDay
	// ExcludeTermID is the term being updated, skipped when comparing
	// against itself. Leave zero for a brand-new term.
	ExcludeTermID uuid.UUID
}

// DetectConflicts checks the candidate slot against every other scheduled
// term on three independent axes:
//
//   - room: another term occupies the requested room in an overlapping
//     time window on the same date;
//   - lecturer: the candidate course's lecturer already examines in an
//     overlapping window on the same date;
//   - group: the candidate course's student group already has any exam on
//     that calendar day, regardless of time overlap.
//
// Two half-open intervals [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1.
// Read-only; no side effects.
func DetectConflicts(ctx context.Context, courses repository.CourseStore, terms repository.TermStore, q ConflictQuery) (Conflicts, error) {
	var result Conflicts

	course, err := courses.GetByID(ctx, q.CourseID)
	if err != nil {
		return result, err
	}

	overlapping, err := terms.ListOverlapping(ctx, q.Date, q.Start, q.End, q.ExcludeTermID)
	if err != nil {
		return result, fmt.Errorf("list overlapping terms: %w", err)
	}

	for _, other := range overlapping {
		if q.RoomID != nil && other.RoomID != nil && *other.RoomID == *q.RoomID {
			result.Room = true
		}
		if other.LecturerID == course.LecturerID {
			result.Lecturer = true
		}
	}

	// Group exclusivity is day-level: one exam per group per calendar day,
	// so it scans the whole day rather than the overlapping-time set.
	sameDay, err := terms.ListOnDate(ctx, q.Date, q.ExcludeTermID)
	if err != nil {
		return result, fmt.Errorf("list terms on date: %w", err)
	}
	for _, other := range sameDay {
		if other.GroupID == course.GroupID {
			result.Group = true
			break
		}
	}

	return result, nil
}
