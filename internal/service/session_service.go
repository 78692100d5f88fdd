package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/uniterm/terminarz-backend/internal/apperr"
	"github.com/uniterm/terminarz-backend/internal/model"
	"github.com/uniterm/terminarz-backend/internal/repository"
)

// ExamSessionService manages exam session periods (dean's office surface).
type ExamSessionService struct {
	txm    repository.TxManager
	stores repository.Stores
	log    zerolog.Logger
}

// NewExamSessionService creates a new ExamSessionService.
func NewExamSessionService(txm repository.TxManager, stores repository.Stores, log zerolog.Logger) *ExamSessionService {
	return &ExamSessionService{
		txm:    txm,
		stores: stores,
		log:    log.With().Str("component", "session_service").Logger(),
	}
}

// GetByID retrieves one exam session.
func (s *ExamSessionService) GetByID(ctx context.Context, id uuid.UUID) (*model.ExamSession, error) {
	return s.stores.Sessions.GetByID(ctx, id)
}

// List retrieves all exam sessions.
func (s *ExamSessionService) List(ctx context.Context) ([]model.ExamSession, error) {
	return s.stores.Sessions.List(ctx)
}

// Create registers a new exam session period.
func (s *ExamSessionService) Create(ctx context.Context, name string, startDate, endDate time.Time, isActive bool) (*model.ExamSession, error) {
	if model.DateOnly(endDate).Before(model.DateOnly(startDate)) {
		return nil, apperr.InvalidArgument("session start date must not be after end date")
	}

	session := &model.ExamSession{
		ID:        uuid.New(),
		Name:      name,
		StartDate: model.DateOnly(startDate),
		EndDate:   model.DateOnly(endDate),
		IsActive:  isActive,
	}
	if err := s.stores.Sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.log.Info().Str("session_id", session.ID.String()).Str("name", name).Msg("Exam session created")
	return session, nil
}

// UpdateSessionInput carries the editable session fields. Nil/empty
// fields keep their current value.
type UpdateSessionInput struct {
	Name      string
	StartDate *time.Time
	EndDate   *time.Time
	IsActive  *bool
}

// Update edits a session. The range may not shrink below terms already
// scheduled inside it; the check and the write share one transaction.
func (s *ExamSessionService) Update(ctx context.Context, id uuid.UUID, in UpdateSessionInput) (*model.ExamSession, error) {
	var session *model.ExamSession

	err := s.txm.WithTx(ctx, func(ctx context.Context, st repository.Stores) error {
		var err error
		session, err = st.Sessions.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if in.Name != "" {
			session.Name = in.Name
		}
		if in.StartDate != nil {
			session.StartDate = model.DateOnly(*in.StartDate)
		}
		if in.EndDate != nil {
			session.EndDate = model.DateOnly(*in.EndDate)
		}
		if in.IsActive != nil {
			session.IsActive = *in.IsActive
		}

		if session.EndDate.Before(session.StartDate) {
			return apperr.InvalidArgument("session start date must not be after end date")
		}

		stranded, err := st.Terms.CountOutsideRange(ctx, id, session.StartDate, session.EndDate)
		if err != nil {
			return err
		}
		if stranded > 0 {
			return apperr.BusinessRule("cannot shrink session: %d scheduled terms would fall outside the new range", stranded)
		}

		return st.Sessions.Update(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("session_id", id.String()).Msg("Exam session updated")
	return session, nil
}
