package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/uniterm/terminarz-backend/internal/apperr"
	"github.com/uniterm/terminarz-backend/internal/model"
	"github.com/uniterm/terminarz-backend/internal/repository"
)

// memDB is an in-memory stand-in for PostgreSQL, shared by the fake stores.
type memDB struct {
	sessions map[uuid.UUID]model.ExamSession
	courses  map[uuid.UUID]model.Course
	rooms    map[uuid.UUID]model.Room
	groups   map[uuid.UUID]model.StudentGroup
	accounts map[uuid.UUID]model.Account
	terms    map[uuid.UUID]model.ExamTerm
	history  []model.ExamTermHistory
}

func newMemDB() *memDB {
	return &memDB{
		sessions: map[uuid.UUID]model.ExamSession{},
		courses:  map[uuid.UUID]model.Course{},
		rooms:    map[uuid.UUID]model.Room{},
		groups:   map[uuid.UUID]model.StudentGroup{},
		accounts: map[uuid.UUID]model.Account{},
		terms:    map[uuid.UUID]model.ExamTerm{},
	}
}

func (db *memDB) stores() repository.Stores {
	return repository.Stores{
		Sessions: &memSessionStore{db},
		Courses:  &memCourseStore{db},
		Rooms:    &memRoomStore{db},
		Groups:   &memGroupStore{db},
		Terms:    &memTermStore{db},
		History:  &memHistoryStore{db},
		Accounts: &memAccountStore{db},
	}
}

// detail resolves a term's relations the way the SQL joins do.
func (db *memDB) detail(t model.ExamTerm) model.TermWithDetails {
	course := db.courses[t.CourseID]
	d := model.TermWithDetails{
		ExamTerm:    t,
		CourseName:  course.Name,
		LecturerID:  course.LecturerID,
		GroupID:     course.GroupID,
		SessionName: db.sessions[t.SessionID].Name,
	}
	if acc, ok := db.accounts[course.LecturerID]; ok {
		d.LecturerName = acc.Name
	}
	if grp, ok := db.groups[course.GroupID]; ok {
		d.GroupName = grp.Name
	}
	if t.RoomID != nil {
		if room, ok := db.rooms[*t.RoomID]; ok {
			d.RoomName = &room.Name
		}
	}
	return d
}

// ─── Sessions ──────────────────────────────────────────────────────

type memSessionStore struct{ db *memDB }

func (s *memSessionStore) GetByID(_ context.Context, id uuid.UUID) (*model.ExamSession, error) {
	sess, ok := s.db.sessions[id]
	if !ok {
		return nil, apperr.NotFound("session %s not found", id)
	}
	return &sess, nil
}

func (s *memSessionStore) List(context.Context) ([]model.ExamSession, error) {
	var out []model.ExamSession
	for _, sess := range s.db.sessions {
		out = append(out, sess)
	}
	return out, nil
}

func (s *memSessionStore) Create(_ context.Context, sess *model.ExamSession) error {
	s.db.sessions[sess.ID] = *sess
	return nil
}

func (s *memSessionStore) Update(_ context.Context, sess *model.ExamSession) error {
	if _, ok := s.db.sessions[sess.ID]; !ok {
		return apperr.NotFound("session %s not found", sess.ID)
	}
	s.db.sessions[sess.ID] = *sess
	return nil
}

// ─── Courses ───────────────────────────────────────────────────────

type memCourseStore struct{ db *memDB }

func (s *memCourseStore) GetByID(_ context.Context, id uuid.UUID) (*model.Course, error) {
	c, ok := s.db.courses[id]
	if !ok {
		return nil, apperr.NotFound("course %s not found", id)
	}
	return &c, nil
}

func (s *memCourseStore) List(context.Context) ([]model.Course, error) {
	var out []model.Course
	for _, c := range s.db.courses {
		out = append(out, c)
	}
	return out, nil
}

func (s *memCourseStore) Create(_ context.Context, c *model.Course) error {
	s.db.courses[c.ID] = *c
	return nil
}

// ─── Rooms ─────────────────────────────────────────────────────────

type memRoomStore struct{ db *memDB }

func (s *memRoomStore) GetByID(_ context.Context, id uuid.UUID) (*model.Room, error) {
	r, ok := s.db.rooms[id]
	if !ok {
		return nil, apperr.NotFound("room %s not found", id)
	}
	return &r, nil
}

func (s *memRoomStore) List(context.Context) ([]model.Room, error) {
	var out []model.Room
	for _, r := range s.db.rooms {
		out = append(out, r)
	}
	return out, nil
}

func (s *memRoomStore) Create(_ context.Context, r *model.Room) error {
	s.db.rooms[r.ID] = *r
	return nil
}

// ─── Groups ────────────────────────────────────────────────────────

type memGroupStore struct{ db *memDB }

func (s *memGroupStore) GetByID(_ context.Context, id uuid.UUID) (*model.StudentGroup, error) {
	g, ok := s.db.groups[id]
	if !ok {
		return nil, apperr.NotFound("group %s not found", id)
	}
	return &g, nil
}

func (s *memGroupStore) List(context.Context) ([]model.StudentGroup, error) {
	var out []model.StudentGroup
	for _, g := range s.db.groups {
		out = append(out, g)
	}
	return out, nil
}

func (s *memGroupStore) Create(_ context.Context, g *model.StudentGroup) error {
	s.db.groups[g.ID] = *g
	return nil
}

// ─── Accounts ──────────────────────────────────────────────────────

type memAccountStore struct{ db *memDB }

func (s *memAccountStore) GetByID(_ context.Context, id uuid.UUID) (*model.Account, error) {
	a, ok := s.db.accounts[id]
	if !ok {
		return nil, apperr.NotFound("account %s not found", id)
	}
	return &a, nil
}

func (s *memAccountStore) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	for _, a := range s.db.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, apperr.NotFound("account %s not found", email)
}

func (s *memAccountStore) Create(_ context.Context, a *model.Account) error {
	s.db.accounts[a.ID] = *a
	return nil
}

// ─── Terms ─────────────────────────────────────────────────────────

type memTermStore struct{ db *memDB }

func (s *memTermStore) GetByID(_ context.Context, id uuid.UUID) (*model.ExamTerm, error) {
	t, ok := s.db.terms[id]
	if !ok {
		return nil, apperr.NotFound("term %s not found", id)
	}
	return &t, nil
}

func (s *memTermStore) GetDetails(ctx context.Context, id uuid.UUID) (*model.TermWithDetails, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := s.db.detail(*t)
	return &d, nil
}

func (s *memTermStore) List(_ context.Context, sessionID *uuid.UUID) ([]model.ExamTerm, error) {
	var out []model.ExamTerm
	for _, t := range s.db.terms {
		if sessionID != nil && t.SessionID != *sessionID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *memTermStore) ListByCourse(_ context.Context, courseID uuid.UUID) ([]model.ExamTerm, error) {
	var out []model.ExamTerm
	for _, t := range s.db.terms {
		if t.CourseID == courseID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memTermStore) Count(_ context.Context, sessionID *uuid.UUID) (int, error) {
	n := 0
	for _, t := range s.db.terms {
		if sessionID != nil && t.SessionID != *sessionID {
			continue
		}
		n++
	}
	return n, nil
}

func (s *memTermStore) ListWithDetails(_ context.Context, sessionID *uuid.UUID, limit, offset int) ([]model.TermWithDetails, error) {
	var out []model.TermWithDetails
	for _, t := range s.db.terms {
		if sessionID != nil && t.SessionID != *sessionID {
			continue
		}
		out = append(out, s.db.detail(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime < out[j].StartTime
	})
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *memTermStore) SearchWithDetails(_ context.Context, query string) ([]model.TermWithDetails, error) {
	q := strings.ToLower(query)
	var out []model.TermWithDetails
	for _, t := range s.db.terms {
		d := s.db.detail(t)
		if strings.Contains(strings.ToLower(d.CourseName), q) ||
			strings.Contains(strings.ToLower(d.LecturerName), q) ||
			strings.Contains(strings.ToLower(d.GroupName), q) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *memTermStore) ListOverlapping(_ context.Context, date time.Time, start, end model.MinuteOfDay, excludeID uuid.UUID) ([]model.TermWithDetails, error) {
	day := model.DateOnly(date)
	var out []model.TermWithDetails
	for _, t := range s.db.terms {
		if t.ID == excludeID || t.Status == model.TermStatusRejected {
			continue
		}
		if !t.Date.Equal(day) {
			continue
		}
		if t.StartTime < end && start < t.EndTime {
			out = append(out, s.db.detail(t))
		}
	}
	return out, nil
}

func (s *memTermStore) ListOnDate(_ context.Context, date time.Time, excludeID uuid.UUID) ([]model.TermWithDetails, error) {
	day := model.DateOnly(date)
	var out []model.TermWithDetails
	for _, t := range s.db.terms {
		if t.ID == excludeID || t.Status == model.TermStatusRejected {
			continue
		}
		if t.Date.Equal(day) {
			out = append(out, s.db.detail(t))
		}
	}
	return out, nil
}

func (s *memTermStore) CountOutsideRange(_ context.Context, sessionID uuid.UUID, start, end time.Time) (int, error) {
	count := 0
	for _, t := range s.db.terms {
		if t.SessionID != sessionID {
			continue
		}
		if t.Date.Before(model.DateOnly(start)) || t.Date.After(model.DateOnly(end)) {
			count++
		}
	}
	return count, nil
}

func (s *memTermStore) Create(_ context.Context, t *model.ExamTerm) error {
	s.db.terms[t.ID] = *t
	return nil
}

func (s *memTermStore) Update(_ context.Context, t *model.ExamTerm) error {
	if _, ok := s.db.terms[t.ID]; !ok {
		return apperr.NotFound("term %s not found", t.ID)
	}
	s.db.terms[t.ID] = *t
	return nil
}

func (s *memTermStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.db.terms[id]; !ok {
		return apperr.NotFound("term %s not found", id)
	}
	delete(s.db.terms, id)
	return nil
}

// ─── History ───────────────────────────────────────────────────────

type memHistoryStore struct{ db *memDB }

func (s *memHistoryStore) Create(_ context.Context, h *model.ExamTermHistory) error {
	s.db.history = append(s.db.history, *h)
	return nil
}

func (s *memHistoryStore) ListByTerm(_ context.Context, termID uuid.UUID) ([]model.ExamTermHistory, error) {
	var out []model.ExamTermHistory
	for i := len(s.db.history) - 1; i >= 0; i-- {
		if s.db.history[i].ExamTermID == termID {
			out = append(out, s.db.history[i])
		}
	}
	return out, nil
}

// ─── Transactions ──────────────────────────────────────────────────

// memTxManager runs the unit of work against the shared memDB. There is
// no rollback; tests rely on the engine validating before it writes.
type memTxManager struct{ st repository.Stores }

func (m *memTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, st repository.Stores) error) error {
	return fn(ctx, m.st)
}

// ─── Fixture ───────────────────────────────────────────────────────

// testNow is the frozen clock shared by engine tests.
var testNow = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	db      *memDB
	stores  repository.Stores
	terms   *ExamTermService
	session model.ExamSession

	lecturer model.Account
	lecturer2 model.Account
	starosta model.Account
	dean     model.Account
	group    model.StudentGroup
	group2   model.StudentGroup
	room     model.Room
	room2    model.Room
	course   model.Course
	course2  model.Course
	course3  model.Course
}

// newFixture seeds a session spanning January 2026, two lecturers, two
// groups, two rooms and three courses:
//
//	course  = lecturer / group
//	course2 = lecturer2 / group2  (fully disjoint from course)
//	course3 = lecturer / group2   (shares the lecturer with course)
func newFixture() *fixture {
	db := newMemDB()
	st := db.stores()

	f := &fixture{
		db:     db,
		stores: st,
		session: model.ExamSession{
			ID:        uuid.New(),
			Name:      "Winter 2026",
			StartDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
			IsActive:  true,
		},
		lecturer:  model.Account{ID: uuid.New(), Email: "kowalski@uni.edu", Name: "Jan Kowalski", Role: model.RoleLecturer},
		lecturer2: model.Account{ID: uuid.New(), Email: "nowak@uni.edu", Name: "Anna Nowak", Role: model.RoleLecturer},
		starosta:  model.Account{ID: uuid.New(), Email: "starosta@uni.edu", Name: "Piotr Zielinski", Role: model.RoleStarosta},
		dean:      model.Account{ID: uuid.New(), Email: "dean@uni.edu", Name: "Maria Wisniewska", Role: model.RoleDean},
		group:     model.StudentGroup{ID: uuid.New(), Name: "CS-301"},
		group2:    model.StudentGroup{ID: uuid.New(), Name: "CS-302"},
		room:      model.Room{ID: uuid.New(), Name: "A-101", Capacity: 60},
		room2:     model.Room{ID: uuid.New(), Name: "B-204", Capacity: 30},
	}
	f.course = model.Course{ID: uuid.New(), Code: "ALG", Name: "Algorithms", LecturerID: f.lecturer.ID, GroupID: f.group.ID}
	f.course2 = model.Course{ID: uuid.New(), Code: "DB", Name: "Databases", LecturerID: f.lecturer2.ID, GroupID: f.group2.ID}
	f.course3 = model.Course{ID: uuid.New(), Code: "OS", Name: "Operating Systems", LecturerID: f.lecturer.ID, GroupID: f.group2.ID}

	db.sessions[f.session.ID] = f.session
	for _, a := range []model.Account{f.lecturer, f.lecturer2, f.starosta, f.dean} {
		db.accounts[a.ID] = a
	}
	db.groups[f.group.ID] = f.group
	db.groups[f.group2.ID] = f.group2
	db.rooms[f.room.ID] = f.room
	db.rooms[f.room2.ID] = f.room2
	for _, c := range []model.Course{f.course, f.course2, f.course3} {
		db.courses[c.ID] = c
	}

	txm := &memTxManager{st: st}
	f.terms = NewExamTermService(txm, st, nil, zerolog.Nop(), 0).
		WithClock(func() time.Time { return testNow })
	return f
}

// addTerm schedules a term through the engine, failing the test on error.
func (f *fixture) addTerm(course model.Course, roomID *uuid.UUID, day int, start, end model.MinuteOfDay) (*model.ExamTerm, error) {
	return f.terms.Add(context.Background(), f.lecturer.ID, CreateTermInput{
		CourseID:  course.ID,
		SessionID: f.session.ID,
		RoomID:    roomID,
		Date:      time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC),
		StartTime: start,
		EndTime:   end,
		Type:      model.TermTypeFirstAttempt,
	})
}

func mustMinute(s string) model.MinuteOfDay {
	m, err := model.ParseMinuteOfDay(s)
	if err != nil {
		panic(err)
	}
	return m
}
