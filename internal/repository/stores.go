package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uniterm/terminarz-backend/internal/model"
)

// Querier is the subset of pgx operations the repositories need.
// Both *pgxpool.Pool and pgx.Tx satisfy it, so the same repository code
// runs inside and outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SessionStore provides access to exam sessions.
type SessionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.ExamSession, error)
	List(ctx context.Context) ([]model.ExamSession, error)
	Create(ctx context.Context, s *model.ExamSession) error
	Update(ctx context.Context, s *model.ExamSession) error
}

// CourseStore provides access to courses (lecturer/group identity resolution).
type CourseStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error)
	List(ctx context.Context) ([]model.Course, error)
	Create(ctx context.Context, c *model.Course) error
}

// RoomStore provides access to exam rooms.
type RoomStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Room, error)
	List(ctx context.Context) ([]model.Room, error)
	Create(ctx context.Context, r *model.Room) error
}

// GroupStore provides access to student groups.
type GroupStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.StudentGroup, error)
	List(ctx context.Context) ([]model.StudentGroup, error)
	Create(ctx context.Context, g *model.StudentGroup) error
}

// TermStore provides access to exam terms.
type TermStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.ExamTerm, error)
	GetDetails(ctx context.Context, id uuid.UUID) (*model.TermWithDetails, error)
	List(ctx context.Context, sessionID *uuid.UUID) ([]model.ExamTerm, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]model.ExamTerm, error)
	// Count reports the total number of terms matching the session filter,
	// for pagination of ListWithDetails.
	Count(ctx context.Context, sessionID *uuid.UUID) (int, error)
	ListWithDetails(ctx context.Context, sessionID *uuid.UUID, limit, offset int) ([]model.TermWithDetails, error)
	SearchWithDetails(ctx context.Context, query string) ([]model.TermWithDetails, error)
	// ListOverlapping returns non-rejected terms on the given date whose
	// half-open [start, end) interval intersects the candidate window,
	// with course, lecturer and group resolved. excludeID is skipped.
	ListOverlapping(ctx context.Context, date time.Time, start, end model.MinuteOfDay, excludeID uuid.UUID) ([]model.TermWithDetails, error)
	// ListOnDate returns all non-rejected terms on the given calendar day,
	// regardless of time of day. excludeID is skipped.
	ListOnDate(ctx context.Context, date time.Time, excludeID uuid.UUID) ([]model.TermWithDetails, error)
	// CountOutsideRange counts the session's terms whose date falls outside
	// [start, end]. Used to refuse shrinking a session below its terms.
	CountOutsideRange(ctx context.Context, sessionID uuid.UUID, start, end time.Time) (int, error)
	Create(ctx context.Context, t *model.ExamTerm) error
	Update(ctx context.Context, t *model.ExamTerm) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// HistoryStore provides append-only access to term audit records.
type HistoryStore interface {
	Create(ctx context.Context, h *model.ExamTermHistory) error
	ListByTerm(ctx context.Context, termID uuid.UUID) ([]model.ExamTermHistory, error)
}

// AccountStore provides access to workflow participant accounts.
type AccountStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	Create(ctx context.Context, a *model.Account) error
}

// Stores bundles every store over one Querier, so a unit of work sees a
// consistent view and commits atomically.
type Stores struct {
	Sessions SessionStore
	Courses  CourseStore
	Rooms    RoomStore
	Groups   GroupStore
	Terms    TermStore
	History  HistoryStore
	Accounts AccountStore
}

// NewStores builds the store bundle over the given Querier (pool or tx).
func NewStores(q Querier) Stores {
	return Stores{
		Sessions: NewSessionRepository(q),
		Courses:  NewCourseRepository(q),
		Rooms:    NewRoomRepository(q),
		Groups:   NewGroupRepository(q),
		Terms:    NewTermRepository(q),
		History:  NewHistoryRepository(q),
		Accounts: NewAccountRepository(q),
	}
}
