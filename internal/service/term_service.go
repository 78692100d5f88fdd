package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/uniterm/terminarz-backend/internal/apperr"
	"github.com/uniterm/terminarz-backend/internal/config"
	"github.com/uniterm/terminarz-backend/internal/model"
	"github.com/uniterm/terminarz-backend/internal/repository"
	ws "github.com/uniterm/terminarz-backend/internal/websocket"
)

// ExamTermService is the scheduling and workflow engine. It is the sole
// write path for exam terms: every operation validates, detects conflicts,
// persists and records history inside one transaction.
//
// The conflict check and the commit run in one read-committed transaction,
// not a serializable one, so two concurrent writers racing on the same
// slot can still both pass the check. See DESIGN.md.
type ExamTermService struct {
	txm              repository.TxManager
	stores           repository.Stores
	sessionValidator *SessionRangeValidator
	recorder         *HistoryRecorder
	rdb              *redis.Client
	log              zerolog.Logger
	clock            func() time.Time
	cacheTTL         time.Duration
}

// NewExamTermService creates a new ExamTermService. rdb may be nil, in
// which case day-schedule caching and event publishing are disabled.
func NewExamTermService(
	txm repository.TxManager,
	stores repository.Stores,
	rdb *redis.Client,
	log zerolog.Logger,
	cacheTTL time.Duration,
) *ExamTermService {
	return &ExamTermService{
		txm:              txm,
		stores:           stores,
		sessionValidator: NewSessionRangeValidator(nil),
		recorder:         NewHistoryRecorder(nil),
		rdb:              rdb,
		log:              log.With().Str("component", "term_service").Logger(),
		clock:            time.Now,
		cacheTTL:         cacheTTL,
	}
}

// WithClock replaces the service clock. Used by tests.
func (s *ExamTermService) WithClock(clock func() time.Time) *ExamTermService {
	s.clock = clock
	s.sessionValidator = NewSessionRangeValidator(clock)
	s.recorder = NewHistoryRecorder(clock)
	return s
}

// CreateTermInput carries the fields for scheduling a new term.
type CreateTermInput struct {
	CourseID  uuid.UUID
	SessionID uuid.UUID
	RoomID    *uuid.UUID
	Date      time.Time
	StartTime model.MinuteOfDay
	EndTime   model.MinuteOfDay
	Type      model.TermType
	// Status is honored as given; empty means Draft.
	Status model.TermStatus
}

// UpdateTermInput carries the fields for rescheduling an existing term.
type UpdateTermInput struct {
	SessionID uuid.UUID
	RoomID    *uuid.UUID
	Date      time.Time
	StartTime model.MinuteOfDay
	EndTime   model.MinuteOfDay
	Type      model.TermType
}

// Add schedules a new exam term. It validates the session range and time
// window, fails closed on any room/lecturer/group conflict, persists the
// term and records a history row whose previous status is Draft.
func (s *ExamTermService) Add(ctx context.Context, actorID uuid.UUID, in CreateTermInput) (*model.ExamTerm, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Cancelled(err)
	}

	status := in.Status
	if status == "" {
		status = model.TermStatusDraft
	}

	term := &model.ExamTerm{
		ID:        uuid.New(),
		CourseID:  in.CourseID,
		SessionID: in.SessionID,
		RoomID:    in.RoomID,
		Date:      model.DateOnly(in.Date),
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Type:      in.Type,
		Status:    status,
		CreatedBy: actorID,
	}

	err := s.txm.WithTx(ctx, func(ctx context.Context, st repository.Stores) error {
		if _, err := s.sessionValidator.Validate(ctx, st.Sessions, in.SessionID, in.Date); err != nil {
			return err
		}
		if err := ValidateTimeRange(in.StartTime, in.EndTime); err != nil {
			return err
		}

		conflicts, err := DetectConflicts(ctx, st.Courses, st.Terms, ConflictQuery{
			CourseID: in.CourseID,
			RoomID:   in.RoomID,
			Date:     in.Date,
			Start:    in.StartTime,
			End:      in.EndTime,
		})
		if err != nil {
			return err
		}
		if err := conflicts.Err(); err != nil {
			return err
		}

		if err := st.Terms.Create(ctx, term); err != nil {
			return err
		}
		// A brand-new term's audit trail starts from Draft.
		return s.recorder.Record(ctx, st.History, term,
			model.TermStatusDraft, term.StartAt(), commentTermCreated, actorID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("term_id", term.ID.String()).
		Str("course_id", term.CourseID.String()).
		Str("date", term.Date.Format("2006-01-02")).
		Msg("Term scheduled")

	s.afterWrite(ctx, ws.EventTermCreated, term, term.Date)
	return term, nil
}

// Update reschedules an existing term. Session, date and time are
// re-validated against the new values; the conflict check excludes the
// term itself. A failed validation leaves the term unchanged.
func (s *ExamTermService) Update(ctx context.Context, actorID uuid.UUID, id uuid.UUID, in UpdateTermInput) (*model.ExamTerm, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Cancelled(err)
	}

	var term *model.ExamTerm
	var previousDate time.Time

	err := s.txm.WithTx(ctx, func(ctx context.Context, st repository.Stores) error {
		if _, err := s.sessionValidator.Validate(ctx, st.Sessions, in.SessionID, in.Date); err != nil {
			return err
		}
		if err := ValidateTimeRange(in.StartTime, in.EndTime); err != nil {
			return err
		}

		var err error
		term, err = st.Terms.GetByID(ctx, id)
		if err != nil {
			return err
		}

		previousStatus := term.Status
		previousStart := term.StartAt()
		previousDate = term.Date

		term.SessionID = in.SessionID
		term.RoomID = in.RoomID
		term.Date = model.DateOnly(in.Date)
		term.StartTime = in.StartTime
		term.EndTime = in.EndTime
		term.Type = in.Type

		conflicts, err := DetectConflicts(ctx, st.Courses, st.Terms, ConflictQuery{
			CourseID:      term.CourseID,
			RoomID:        in.RoomID,
			Date:          in.Date,
			Start:         in.StartTime,
			End:           in.EndTime,
			ExcludeTermID: term.ID,
		})
		if err != nil {
			return err
		}
		if err := conflicts.Err(); err != nil {
			return err
		}

		if err := st.Terms.Update(ctx, term); err != nil {
			return err
		}
		return s.recorder.Record(ctx, st.History, term,
			previousStatus, previousStart, commentTermUpdated, s.resolveActor(actorID, term))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("term_id", term.ID.String()).
		Str("date", term.Date.Format("2006-01-02")).
		Msg("Term rescheduled")

	s.invalidateDayCache(ctx, previousDate)
	s.afterWrite(ctx, ws.EventTermUpdated, term, term.Date)
	return term, nil
}

// UpdateStatus drives the approval workflow. The caller-supplied status
// is honored as given; conflict detection re-runs for every status except
// Rejected, because a rejected term leaves contention. The rejection
// reason is persisted only when the new status is Rejected.
func (s *ExamTermService) UpdateStatus(ctx context.Context, actorID uuid.UUID, id uuid.UUID, status model.TermStatus, rejectionReason string) (*model.ExamTerm, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Cancelled(err)
	}
	if !status.Valid() {
		return nil, apperr.InvalidArgument("unknown status %q", status)
	}

	var term *model.ExamTerm

	err := s.txm.WithTx(ctx, func(ctx context.Context, st repository.Stores) error {
		var err error
		term, err = st.Terms.GetByID(ctx, id)
		if err != nil {
			return err
		}

		previousStatus := term.Status
		previousStart := term.StartAt()

		term.Status = status
		if status == model.TermStatusRejected && rejectionReason != "" {
			term.RejectionReason = &rejectionReason
		} else {
			term.RejectionReason = nil
		}

		if status != model.TermStatusRejected {
			conflicts, err := DetectConflicts(ctx, st.Courses, st.Terms, ConflictQuery{
				CourseID:      term.CourseID,
				RoomID:        term.RoomID,
				Date:          term.Date,
				Start:         term.StartTime,
				End:           term.EndTime,
				ExcludeTermID: term.ID,
			})
			if err != nil {
				return err
			}
			if err := conflicts.Err(); err != nil {
				return err
			}
		}

		if err := st.Terms.Update(ctx, term); err != nil {
			return err
		}
		return s.recorder.Record(ctx, st.History, term,
			previousStatus, previousStart, statusComment(status, rejectionReason),
			s.resolveActor(actorID, term))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("term_id", term.ID.String()).
		Str("status", string(status)).
		Msg("Term status changed")

	s.afterWrite(ctx, ws.EventStatusChanged, term, term.Date)
	return term, nil
}

// Remove deletes a term. No history row is written for deletion; the
// acting identity is logged only. Callers needing a delete audit must
// capture it externally.
func (s *ExamTermService) Remove(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return apperr.Cancelled(err)
	}

	var term *model.ExamTerm

	err := s.txm.WithTx(ctx, func(ctx context.Context, st repository.Stores) error {
		var err error
		term, err = st.Terms.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return st.Terms.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.Info().
		Str("term_id", id.String()).
		Str("actor_id", actorID.String()).
		Msg("Term removed")

	s.afterWrite(ctx, ws.EventTermRemoved, term, term.Date)
	return nil
}

// resolveActor applies the changed-by fallback: the explicit actor id if
// set, otherwise the term's original creator.
func (s *ExamTermService) resolveActor(actorID uuid.UUID, term *model.ExamTerm) uuid.UUID {
	if actorID != uuid.Nil {
		return actorID
	}
	return term.CreatedBy
}

// ─── Read passthroughs ─────────────────────────────────────────────

// GetByID retrieves one term.
func (s *ExamTermService) GetByID(ctx context.Context, id uuid.UUID) (*model.ExamTerm, error) {
	return s.stores.Terms.GetByID(ctx, id)
}

// GetDetails retrieves one term with relations resolved.
func (s *ExamTermService) GetDetails(ctx context.Context, id uuid.UUID) (*model.TermWithDetails, error) {
	return s.stores.Terms.GetDetails(ctx, id)
}

// List retrieves terms, optionally filtered by session.
func (s *ExamTermService) List(ctx context.Context, sessionID *uuid.UUID) ([]model.ExamTerm, error) {
	return s.stores.Terms.List(ctx, sessionID)
}

// ListByCourse retrieves all terms of one course.
func (s *ExamTermService) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]model.ExamTerm, error) {
	return s.stores.Terms.ListByCourse(ctx, courseID)
}

// ListWithDetails retrieves one page of terms with relations resolved,
// along with the total number of matching terms.
func (s *ExamTermService) ListWithDetails(ctx context.Context, sessionID *uuid.UUID, limit, offset int) ([]model.TermWithDetails, int, error) {
	total, err := s.stores.Terms.Count(ctx, sessionID)
	if err != nil {
		return nil, 0, err
	}
	terms, err := s.stores.Terms.ListWithDetails(ctx, sessionID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return terms, total, nil
}

// SearchWithDetails retrieves terms matching a free-text query.
func (s *ExamTermService) SearchWithDetails(ctx context.Context, query string) ([]model.TermWithDetails, error) {
	return s.stores.Terms.SearchWithDetails(ctx, query)
}

// GetHistory retrieves a term's audit trail, newest first.
func (s *ExamTermService) GetHistory(ctx context.Context, termID uuid.UUID) ([]model.ExamTermHistory, error) {
	if _, err := s.stores.Terms.GetByID(ctx, termID); err != nil {
		return nil, err
	}
	return s.stores.History.ListByTerm(ctx, termID)
}

// GetDaySchedule returns every non-rejected term on a calendar day,
// served from the Redis day cache when warm.
func (s *ExamTermService) GetDaySchedule(ctx context.Context, date time.Time) ([]model.TermWithDetails, error) {
	day := model.DateOnly(date)

	if s.rdb != nil {
		if data, err := s.rdb.Get(ctx, config.CacheKey.DayScheduleKey(day)).Bytes(); err == nil {
			var cached []model.TermWithDetails
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
			// Corrupt cache entry: fall through to PostgreSQL.
		}
	}

	terms, err := s.stores.Terms.ListOnDate(ctx, day, uuid.Nil)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(terms); err == nil {
			if err := s.rdb.Set(ctx, config.CacheKey.DayScheduleKey(day), data, s.cacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("Day schedule cache write failed")
			}
		}
	}
	return terms, nil
}

// ─── Cache & event plumbing ────────────────────────────────────────

// afterWrite invalidates the day cache and publishes a schedule event.
// Failures here are logged, never surfaced: the write already committed.
func (s *ExamTermService) afterWrite(ctx context.Context, event ws.Event, term *model.ExamTerm, date time.Time) {
	s.invalidateDayCache(ctx, date)

	if s.rdb == nil {
		return
	}
	payload, err := json.Marshal(ws.ScheduleEvent{
		Event:  event,
		TermID: term.ID.String(),
		Date:   model.DateOnly(date).Format("2006-01-02"),
		Status: string(term.Status),
	})
	if err != nil {
		return
	}
	if err := s.rdb.Publish(ctx, config.CacheKey.ScheduleEventsChannel(), payload).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Schedule event publish failed")
	}
}

func (s *ExamTermService) invalidateDayCache(ctx context.Context, date time.Time) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, config.CacheKey.DayScheduleKey(model.DateOnly(date))).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Day schedule cache invalidation failed")
	}
}
