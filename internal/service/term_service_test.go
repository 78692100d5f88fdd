package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniterm/terminarz-backend/internal/apperr"
	"github.com/uniterm/terminarz-backend/internal/model"
)

func TestExamTermService_Add(t *testing.T) {
	t.Run("schedules a draft and records history", func(t *testing.T) {
		f := newFixture()
		term, err := f.addTerm(f.course, &f.room.ID, 15, mustMinute("09:00"), mustMinute("11:00"))
		require.NoError(t, err)

		assert.Equal(t, model.TermStatusDraft, term.Status)
		assert.Equal(t, f.lecturer.ID, term.CreatedBy)
		assert.Equal(t, day(15), term.Date)

		history, err := f.terms.GetHistory(context.Background(), term.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, model.TermStatusDraft, history[0].PreviousStatus)
		assert.Equal(t, model.TermStatusDraft, history[0].NewStatus)
		assert.Equal(t, f.lecturer.ID, history[0].ChangedBy)
		assert.Equal(t, testNow, history[0].ChangedAt)
		require.NotNil(t, history[0].Comment)
		assert.Equal(t, "Term created.", *history[0].Comment)
	})

	t.Run("honors an explicit initial status", func(t *testing.T) {
		f := newFixture()
		term, err := f.terms.Add(context.Background(), f.lecturer.ID, CreateTermInput{
			CourseID:  f.course.ID,
			SessionID: f.session.ID,
			Date:      day(15),
			StartTime: mustMinute("09:00"),
			EndTime:   mustMinute("11:00"),
			Type:      model.TermTypeRetake,
			Status:    model.TermStatusProposedByLecturer,
		})
		require.NoError(t, err)
		assert.Equal(t, model.TermStatusProposedByLecturer, term.Status)

		history, err := f.terms.GetHistory(context.Background(), term.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, model.TermStatusDraft, history[0].PreviousStatus)
		assert.Equal(t, model.TermStatusProposedByLecturer, history[0].NewStatus)
	})

	t.Run("conflict blocks the write entirely", func(t *testing.T) {
		f := newFixture()
		_, err := f.addTerm(f.course, &f.room.ID, 15, mustMinute("09:00"), mustMinute("11:00"))
		require.NoError(t, err)

		_, err = f.addTerm(f.course2, &f.room.ID, 15, mustMinute("10:00"), mustMinute("12:00"))
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindBusinessRule))
		assert.True(t, errors.Is(err, ErrScheduleConflict))
		assert.Contains(t, err.Error(), "room")

		assert.Len(t, f.db.terms, 1)
		assert.Len(t, f.db.history, 1)
	})

	t.Run("validation failures", func(t *testing.T) {
		f := newFixture()
		base := CreateTermInput{
			CourseID:  f.course.ID,
			SessionID: f.session.ID,
			Date:      day(15),
			StartTime: mustMinute("09:00"),
			EndTime:   mustMinute("11:00"),
			Type:      model.TermTypeFirstAttempt,
		}

		past := base
		past.Date = testNow.AddDate(0, 0, -2)
		_, err := f.terms.Add(context.Background(), f.lecturer.ID, past)
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))

		inverted := base
		inverted.StartTime, inverted.EndTime = inverted.EndTime, inverted.StartTime
		_, err = f.terms.Add(context.Background(), f.lecturer.ID, inverted)
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))

		noSession := base
		noSession.SessionID = uuid.New()
		_, err = f.terms.Add(context.Background(), f.lecturer.ID, noSession)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

		noCourse := base
		noCourse.CourseID = uuid.New()
		_, err = f.terms.Add(context.Background(), f.lecturer.ID, noCourse)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

		assert.Empty(t, f.db.terms, "no term may persist after a failed add")
	})

	t.Run("cancelled context observed before any write", func(t *testing.T) {
		f := newFixture()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := f.terms.Add(ctx, f.lecturer.ID, CreateTermInput{
			CourseID:  f.course.ID,
			SessionID: f.session.ID,
			Date:      day(15),
			StartTime: mustMinute("09:00"),
			EndTime:   mustMinute("11:00"),
			Type:      model.TermTypeFirstAttempt,
		})
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindCancelled))
		assert.Empty(t, f.db.terms)
	})
}

func TestExamTermService_Update(t *testing.T) {
	t.Run("reschedules and records the previous slot", func(t *testing.T) {
		f := newFixture()
		term, err := f.addTerm(f.course, &f.room.ID, 15, mustMinute("09:00"), mustMinute("11:00"))
		require.NoError(t, err)
		oldStart := term.StartAt()

		updated, err := f.terms.Update(context.Background(), f.starosta.ID, term.ID, UpdateTermInput{
			SessionID: f.session.ID,
			RoomID:    &f.room2.ID,
			Date:      day(20),
			StartTime: mustMinute("12:00"),
			EndTime:   mustMinute("14:00"),
			Type:      model.TermTypeFirstAttempt,
		})
		require.NoError(t, err)
		assert.Equal(t, day(20), updated.Date)
		assert.Equal(t, &f.room2.ID, updated.RoomID)

		history, err := f.terms.GetHistory(context.Background(), term.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		latest := history[0]
		assert.Equal(t, f.starosta.ID, latest.ChangedBy)
		assert.Equal(t, oldStart, latest.PreviousDate)
		assert.Equal(t, updated.StartAt(), latest.NewDate)
		require.NotNil(t, latest.Comment)
		assert.Equal(t, "Term updated.", *latest.Comment)
	})

	t.Run("moving within the same slot is not a self-conflict", func(t *testing.T) {
		f := newFixture()
		term, err := f.addTerm(f.course, &f.room.ID, 15, mustMinute("09:00"), mustMinute("11:00"))
		require.NoError(t, err)

		_, err = f.terms.Update(context.Background(), f.lecturer.ID, term.ID, UpdateTermInput{
			SessionID: f.session.ID,
			RoomID:    &f.room.ID,
			Date:      day(15),
			StartTime: mustMinute("09:00"),
			EndTime:   mustMinute("10:00"),
			Type:      model.TermTypeFirstAttempt,
		})
		assert.NoError(t, err)
	})

	t.Run("failed update leaves the term untouched", func(t *testing.T) {
		f := newFixture()
		_, err := f.addTerm(f.course, &f.room.ID, 15, mustMinute("09:00"), mustMinute("11:00"))
		require.NoError(t, err)
		other, err := f.addTerm(f.course2, &f.room2.ID, 16, mustMinute("09:00"), mustMinute("11:00"))
		require.NoError(t, err)

		// Move the second term onto the first one's room and slot.
		_, err = f.terms.Update(context.Background(), f.lecturer.ID, other.ID, UpdateTermInput{
			SessionID: f.session.ID,
			RoomID:    &f.room.ID,
			Date:      day(15),
			StartTime: mustMinute("09:30"),
			EndTime:   mustMinute("10:30"),
			Type:      model.TermTypeFirstAttempt,
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrScheduleConflict))

		stored, err := f.terms.GetByID(context.Background(), other.ID)
		require.NoError(t, err)
		assert.Equal(t, day(16), stored.Date)
		assert.Equal(t, &f.room2.ID, stored.RoomID)
	})

	t.Run("unset actor falls back to the term creator", func(t *testing.T) {
		f := newFixture()
		term, err := f.addTerm(f.course, &f.room.ID, 15, mustMinute("09:00"), mustMinute("11:00"))
		require.NoError(t, err)

		_, err = f.terms.Update(context.Background(), uuid.Nil, term.ID, UpdateTermInput{
			SessionID: f.session.ID,
			RoomID:    &f.room.ID,
			Date:      day(18),
			StartTime: mustMinute("09:00"),
			EndTime:   mustMinute("11:00"),
			Type:      model.TermTypeFirstAttempt,
		})
		require.NoError(t, err)

		history, err := f.terms.GetHistory(context.Background(), term.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, term.CreatedBy, history[0].ChangedBy)
	})

	t.Run("unknown term", func(t *testing.T) {
		f := newFixture()
		_, err := f.terms.Update(context.Background(), f.lecturer.ID, uuid.New(), UpdateTermInput{
			SessionID: f.session.ID,
			Date:      day(15),
			StartTime: mustMinute("09:00"),
			EndTime:   mustMinute("11:00"),
			Type:      model.TermTypeFirstAttempt,
		})
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestExamTermService_UpdateStatus(t *testing.T) {
	t.Run("approval records a status comment", func(t *testing.T) {
		f := newFixture()
		term, err := f.addTerm(f.course, &f.room.ID, 15, mustMinute("09:00"), mustMinute("11:00"))
		require.NoError(t, err)

		updated, err := f.terms.UpdateStatus(context.Background(), f.dean.ID, term.ID, model.TermStatusApproved, "")
		require.NoError(t, err)
		assert.Equal(t, model.TermStatusApproved, updated.Status)
		assert.Nil(t, updated.RejectionReason)

		history, err := f.terms.GetHistory(context.Background(), term.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, model.TermStatusDraft, history[0].PreviousStatus)
		assert.Equal(t, model.TermStatusApproved, history[0].NewStatus)
		require.NotNil(t, history[0].Comment)
		assert.Equal(t, "Status set to APPROVED.", *history[0].Comment)
	})

	t.Run("rejection stores the reason and skips conflict detection", func(t *testing.T) {
		f := newFixture()
		_, err := f.addTerm(f.course, &f.room.ID, 15, mustMinute("09:00"), mustMinute("11:00"))
		require.NoError(t, err)
		b, err := f.addTerm(f.course2, &f.room2.ID, 15, mustMinute("09:00"), mustMinute("11:00"))
		require.NoError(t, err)

		// Force b into a's room behind the engine's back so a conflict
		// exists at status-change time.
		forced := f.db.terms[b.ID]
		forced.RoomID = &f.room.ID
		f.db.terms[b.ID] = forced

		_, err = f.terms.UpdateStatus(context.Background(), f.dean.ID, b.ID, model.TermStatusApproved, "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrScheduleConflict))

		rejected, err := f.terms.UpdateStatus(context.Background(), f.dean.ID, b.ID, model.TermStatusRejected, "slot given to another exam")
		require.NoError(t, err)
		require.NotNil(t, rejected.RejectionReason)
		assert.Equal(t, "slot given to another exam", *rejected.RejectionReason)

		history, err := f.terms.GetHistory(context.Background(), b.ID)
		require.NoError(t, err)
		require.NotNil(t, history[0].Comment)
		assert.Equal(t, "Status set to REJECTED. Reason: slot given to another exam.", *history[0].Comment)

		// The rejected term no longer contends for the room.
		_, err = f.addTerm(f.course3, &f.room.ID, 15, mustMinute("12:00"), mustMinute("13:00"))
		assert.NoError(t, err)
	})

	t.Run("moving off rejected clears the reason", func(t *testing.T) {
		f := newFixture()
		term, err := f.addTerm(f.course, &f.room.ID, 15, mustMinute("09:00"), mustMinute("11:00"))
		require.NoError(t, err)

		_, err = f.terms.UpdateStatus(context.Background(), f.dean.ID, term.ID, model.TermStatusRejected, "typo in course")
		require.NoError(t, err)

		restored, err := f.terms.UpdateStatus(context.Background(), f.dean.ID, term.ID, model.TermStatusApproved, "")
		require.NoError(t, err)
		assert.Nil(t, restored.RejectionReason)
	})

	t.Run("repeating a status change appends another history row", func(t *testing.T) {
		f := newFixture()
		term, err := f.addTerm(f.course, &f.room.ID, 15, mustMinute("09:00"), mustMinute("11:00"))
		require.NoError(t, err)

		_, err = f.terms.UpdateStatus(context.Background(), f.dean.ID, term.ID, model.TermStatusApproved, "")
		require.NoError(t, err)
		_, err = f.terms.UpdateStatus(context.Background(), f.dean.ID, term.ID, model.TermStatusApproved, "")
		require.NoError(t, err)

		history, err := f.terms.GetHistory(context.Background(), term.ID)
		require.NoError(t, err)
		assert.Len(t, history, 3)
		assert.Equal(t, model.TermStatusApproved, history[0].PreviousStatus)
		assert.Equal(t, model.TermStatusApproved, history[0].NewStatus)
	})

	t.Run("unknown status value", func(t *testing.T) {
		f := newFixture()
		term, err := f.addTerm(f.course, &f.room.ID, 15, mustMinute("09:00"), mustMinute("11:00"))
		require.NoError(t, err)

		_, err = f.terms.UpdateStatus(context.Background(), f.dean.ID, term.ID, model.TermStatus("SHELVED"), "")
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	})
}

func TestExamTermService_Remove(t *testing.T) {
	f := newFixture()
	term, err := f.addTerm(f.course, &f.room.ID, 15, mustMinute("09:00"), mustMinute("11:00"))
	require.NoError(t, err)
	rows := len(f.db.history)

	require.NoError(t, f.terms.Remove(context.Background(), f.dean.ID, term.ID))

	_, err = f.terms.GetByID(context.Background(), term.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	// Deletion is not audited.
	assert.Len(t, f.db.history, rows)

	err = f.terms.Remove(context.Background(), f.dean.ID, term.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestExamTermService_Reads(t *testing.T) {
	f := newFixture()
	term, err := f.addTerm(f.course, &f.room.ID, 15, mustMinute("09:00"), mustMinute("11:00"))
	require.NoError(t, err)
	_, err = f.addTerm(f.course2, &f.room2.ID, 16, mustMinute("09:00"), mustMinute("11:00"))
	require.NoError(t, err)

	t.Run("details resolve relations", func(t *testing.T) {
		d, err := f.terms.GetDetails(context.Background(), term.ID)
		require.NoError(t, err)
		assert.Equal(t, "Algorithms", d.CourseName)
		assert.Equal(t, "Jan Kowalski", d.LecturerName)
		assert.Equal(t, "CS-301", d.GroupName)
		require.NotNil(t, d.RoomName)
		assert.Equal(t, "A-101", *d.RoomName)
		assert.Equal(t, "Winter 2026", d.SessionName)
	})

	t.Run("list filters by session", func(t *testing.T) {
		all, err := f.terms.List(context.Background(), nil)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		other := uuid.New()
		none, err := f.terms.List(context.Background(), &other)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("details list paginates in date order", func(t *testing.T) {
		first, total, err := f.terms.ListWithDetails(context.Background(), nil, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, first, 1)
		assert.Equal(t, term.ID, first[0].ID)

		second, total, err := f.terms.ListWithDetails(context.Background(), nil, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, second, 1)
		assert.NotEqual(t, term.ID, second[0].ID)

		past, total, err := f.terms.ListWithDetails(context.Background(), nil, 1, 5)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Empty(t, past)
	})

	t.Run("search matches course name", func(t *testing.T) {
		hits, err := f.terms.SearchWithDetails(context.Background(), "algo")
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, term.ID, hits[0].ID)
	})

	t.Run("day schedule without redis hits the store", func(t *testing.T) {
		terms, err := f.terms.GetDaySchedule(context.Background(), day(15))
		require.NoError(t, err)
		require.Len(t, terms, 1)
		assert.Equal(t, term.ID, terms[0].ID)
	})

	t.Run("history of an unknown term is not found", func(t *testing.T) {
		_, err := f.terms.GetHistory(context.Background(), uuid.New())
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}
