package service

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/repository"
)

// memState is everything memStore holds; InTx snapshots it for rollback.
type memState struct {
	users       map[uuid.UUID]model.User
	grades      map[uuid.UUID]model.Grade
	classes     map[uuid.UUID]model.Class
	students    map[uuid.UUID]model.Student
	assignments []model.ClassAssignment
	sessions    map[string]model.Session
	attendances []model.Attendance
	reasons     []model.PointReason
	txns        []model.PointTransaction
	rewards     map[uuid.UUID]model.RewardItem
	purchases   []model.Purchase
	audits      []model.AuditLog
}

func (s memState) clone() memState {
	return memState{
		users:       maps.Clone(s.users),
		grades:      maps.Clone(s.grades),
		classes:     maps.Clone(s.classes),
		students:    maps.Clone(s.students),
		assignments: slices.Clone(s.assignments),
		sessions:    maps.Clone(s.sessions),
		attendances: slices.Clone(s.attendances),
		reasons:     slices.Clone(s.reasons),
		txns:        slices.Clone(s.txns),
		rewards:     maps.Clone(s.rewards),
		purchases:   slices.Clone(s.purchases),
		audits:      slices.Clone(s.audits),
	}
}

// memStore is an in-memory repository.Transactor. Transactions are
// serialized, which stands in for the row locks the SQL store takes.
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex
	st   memState

	// auditErr, when set, makes CreateAuditLog fail.
	auditErr error
	// sessionInserts counts EnsureSession calls that created a row.
	sessionInserts int
}

var _ repository.Transactor = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{st: memState{
		users:    map[uuid.UUID]model.User{},
		grades:   map[uuid.UUID]model.Grade{},
		classes:  map[uuid.UUID]model.Class{},
		students: map[uuid.UUID]model.Student{},
		sessions: map[string]model.Session{},
		rewards:  map[uuid.UUID]model.RewardItem{},
	}}
}

func (m *memStore) InTx(ctx context.Context, fn func(q repository.Queries) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	snapshot := m.st.clone()
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.st = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

// Users

func (m *memStore) GetUser(_ context.Context, id uuid.UUID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.st.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.st.users {
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) ListUsers(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := slices.Collect(maps.Values(m.st.users))
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (m *memStore) CreateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.st.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return repository.ErrDuplicate
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.st.users[u.ID] = *u
	return nil
}

func (m *memStore) UpdateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.st.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Name = u.Name
	existing.Role = u.Role
	existing.IsActive = u.IsActive
	existing.UpdatedAt = time.Now()
	m.st.users[u.ID] = existing
	return nil
}

func (m *memStore) UpdateUserPassword(_ context.Context, id uuid.UUID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.st.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	m.st.users[id] = u
	return nil
}

// Grades and classes

func (m *memStore) ListGrades(_ context.Context) ([]model.Grade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	grades := slices.Collect(maps.Values(m.st.grades))
	sort.Slice(grades, func(i, j int) bool { return grades[i].SortOrder < grades[j].SortOrder })
	return grades, nil
}

func (m *memStore) GetGrade(_ context.Context, id uuid.UUID) (*model.Grade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.st.grades[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &g, nil
}

func (m *memStore) CreateGrade(_ context.Context, g *model.Grade) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g.ID = uuid.New()
	g.CreatedAt = time.Now()
	m.st.grades[g.ID] = *g
	return nil
}

func (m *memStore) UpdateGrade(_ context.Context, g *model.Grade) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.st.grades[g.ID]; !ok {
		return repository.ErrNotFound
	}
	m.st.grades[g.ID] = *g
	return nil
}

func (m *memStore) DeleteGrade(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.st.grades[id]; !ok {
		return repository.ErrNotFound
	}
	for _, c := range m.st.classes {
		if c.GradeID == id {
			return repository.ErrReferenced
		}
	}
	delete(m.st.grades, id)
	return nil
}

func (m *memStore) CountActiveClassesInGrade(_ context.Context, gradeID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.st.classes {
		if c.GradeID == gradeID && c.IsActive {
			n++
		}
	}
	return n, nil
}

func (m *memStore) classWithCounts(c model.Class) model.Class {
	c.GradeName = m.st.grades[c.GradeID].Name
	c.StudentCount = 0
	for _, s := range m.st.students {
		if s.ClassID == c.ID && s.IsActive {
			c.StudentCount++
		}
	}
	return c
}

func (m *memStore) ListClasses(_ context.Context, f model.ClassFilter) ([]model.Class, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Class
	for _, c := range m.st.classes {
		if !c.IsActive ||
			(f.GradeID != nil && c.GradeID != *f.GradeID) ||
			(f.Gender != "" && c.Gender != f.Gender) ||
			(f.Q != "" && !strings.Contains(c.Name, f.Q)) {
			continue
		}
		out = append(out, m.classWithCounts(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetClass(_ context.Context, id uuid.UUID) (*model.Class, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.st.classes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c = m.classWithCounts(c)
	return &c, nil
}

func (m *memStore) CreateClass(_ context.Context, c *model.Class) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.st.grades[c.GradeID]; !ok {
		return repository.ErrReferenced
	}
	c.ID = uuid.New()
	c.IsActive = true
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.st.classes[c.ID] = *c
	return nil
}

func (m *memStore) UpdateClass(_ context.Context, c *model.Class) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.st.classes[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	c.IsActive = existing.IsActive
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now()
	m.st.classes[c.ID] = *c
	return nil
}

func (m *memStore) DeactivateClass(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.st.classes[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.IsActive = false
	m.st.classes[id] = c
	return nil
}

func (m *memStore) CountActiveStudentsInClass(_ context.Context, classID uuid.UUID, gender model.Gender) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.st.students {
		if s.ClassID == classID && s.Gender == gender && s.IsActive {
			n++
		}
	}
	return n, nil
}

// Students

func (m *memStore) ListStudents(_ context.Context, f model.StudentFilter) ([]model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Student
	for _, s := range m.st.students {
		if !s.IsActive ||
			(f.ClassID != nil && s.ClassID != *f.ClassID) ||
			(f.Q != "" && !strings.Contains(s.Name, f.Q)) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetStudent(_ context.Context, id uuid.UUID) (*model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.st.students[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (m *memStore) LockStudent(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	return m.GetStudent(ctx, id)
}

func (m *memStore) ListActiveStudentsByClass(ctx context.Context, classID uuid.UUID) ([]model.Student, error) {
	return m.ListStudents(ctx, model.StudentFilter{ClassID: &classID})
}

func (m *memStore) CreateStudent(_ context.Context, s *model.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = uuid.New()
	s.IsActive = true
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	m.st.students[s.ID] = *s
	return nil
}

func (m *memStore) UpdateStudent(_ context.Context, s *model.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.st.students[s.ID]
	if !ok {
		return repository.ErrNotFound
	}
	s.IsActive = existing.IsActive
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = time.Now()
	m.st.students[s.ID] = *s
	return nil
}

func (m *memStore) DeactivateStudent(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.st.students[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.IsActive = false
	m.st.students[id] = s
	return nil
}

// Assignments

func (m *memStore) ListAssignmentsByUser(_ context.Context, userID uuid.UUID) ([]model.ClassAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ClassAssignment
	for _, a := range m.st.assignments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) IsAssigned(_ context.Context, userID, classID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.ContainsFunc(m.st.assignments, func(a model.ClassAssignment) bool {
		return a.UserID == userID && a.ClassID == classID
	}), nil
}

func (m *memStore) CreateAssignment(_ context.Context, a *model.ClassAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.st.assignments {
		if existing.UserID == a.UserID && existing.ClassID == a.ClassID {
			return repository.ErrDuplicate
		}
	}
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	m.st.assignments = append(m.st.assignments, *a)
	return nil
}

func (m *memStore) DeleteAssignment(_ context.Context, userID, classID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.st.assignments, func(a model.ClassAssignment) bool {
		return a.UserID == userID && a.ClassID == classID
	})
	if i < 0 {
		return repository.ErrNotFound
	}
	m.st.assignments = slices.Delete(m.st.assignments, i, i+1)
	return nil
}

// Sessions and attendance

func (m *memStore) EnsureSession(_ context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.st.sessions[s.Date]; ok {
		*s = existing
		return nil
	}
	s.ID = uuid.New()
	s.Status = model.SessionOpen
	s.CreatedAt = time.Now()
	m.st.sessions[s.Date] = *s
	m.sessionInserts++
	return nil
}

func (m *memStore) GetSessionByDate(_ context.Context, date string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.st.sessions[date]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (m *memStore) UpdateSessionStatus(_ context.Context, id uuid.UUID, status model.SessionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for date, s := range m.st.sessions {
		if s.ID == id {
			s.Status = status
			m.st.sessions[date] = s
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) GetAttendance(_ context.Context, sessionID, studentID uuid.UUID) (*model.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.st.attendances {
		if a.SessionID == sessionID && a.StudentID == studentID {
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) CreateAttendance(_ context.Context, a *model.Attendance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.st.attendances {
		if existing.SessionID == a.SessionID && existing.StudentID == a.StudentID {
			return repository.ErrDuplicate
		}
	}
	a.ID = uuid.New()
	m.st.attendances = append(m.st.attendances, *a)
	return nil
}

func (m *memStore) LinkAttendanceTransaction(_ context.Context, attendanceID, txnID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.st.attendances {
		if m.st.attendances[i].ID == attendanceID {
			m.st.attendances[i].PointTransactionID = &txnID
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) ListAttendanceBySession(_ context.Context, sessionID uuid.UUID) ([]model.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Attendance
	for _, a := range m.st.attendances {
		if a.SessionID == sessionID {
			out = append(out, a)
		}
	}
	return out, nil
}

// Reasons

func (m *memStore) ListReasons(_ context.Context, f model.ReasonFilter) ([]model.PointReason, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PointReason
	for _, r := range m.st.reasons {
		if (f.Active != nil && r.IsActive != *f.Active) ||
			(f.Category != "" && r.Category != f.Category) ||
			(f.Q != "" && !strings.Contains(r.Name, f.Q)) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memStore) GetReason(_ context.Context, id uuid.UUID) (*model.PointReason, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.st.reasons {
		if r.ID == id {
			r.AllowedRoles = slices.Clone(r.AllowedRoles)
			return &r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) FirstActiveReasonByCategory(_ context.Context, category model.ReasonCategory) (*model.PointReason, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.st.reasons {
		if r.Category == category && r.IsActive {
			return &r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) CreateReason(_ context.Context, r *model.PointReason) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	m.st.reasons = append(m.st.reasons, *r)
	return nil
}

func (m *memStore) UpdateReason(_ context.Context, r *model.PointReason) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.st.reasons {
		if m.st.reasons[i].ID == r.ID {
			m.st.reasons[i] = *r
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) DisableReason(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.st.reasons {
		if m.st.reasons[i].ID == id {
			m.st.reasons[i].IsActive = false
			return nil
		}
	}
	return repository.ErrNotFound
}

// Ledger

func (m *memStore) CreateTransaction(_ context.Context, t *model.PointTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if (t.ReasonID == nil) == (t.ManualText == nil) {
		return errors.New("transaction needs exactly one of reason and manual text")
	}
	t.ID = uuid.New()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	m.st.txns = append(m.st.txns, *t)
	return nil
}

func (m *memStore) SumPoints(_ context.Context, studentID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := 0
	for _, t := range m.st.txns {
		if t.StudentID == studentID {
			sum += t.Points
		}
	}
	return sum, nil
}

func (m *memStore) ReasonUsedBetween(_ context.Context, studentID, reasonID uuid.UUID, from, to time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.ContainsFunc(m.st.txns, func(t model.PointTransaction) bool {
		return t.StudentID == studentID && t.ReasonID != nil && *t.ReasonID == reasonID &&
			!t.CreatedAt.Before(from) && t.CreatedAt.Before(to)
	}), nil
}

func (m *memStore) ListTransactions(_ context.Context, studentID uuid.UUID, limit int) ([]model.PointTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PointTransaction
	for i := len(m.st.txns) - 1; i >= 0 && len(out) < limit; i-- {
		if m.st.txns[i].StudentID == studentID {
			out = append(out, m.st.txns[i])
		}
	}
	return out, nil
}

func (m *memStore) ListBalances(_ context.Context, classID *uuid.UUID) ([]model.BalanceRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.BalanceRow
	for _, s := range m.st.students {
		if !s.IsActive || (classID != nil && s.ClassID != *classID) {
			continue
		}
		c := m.st.classes[s.ClassID]
		row := model.BalanceRow{
			StudentID:   s.ID,
			StudentName: s.Name,
			Gender:      s.Gender,
			GradeName:   m.st.grades[c.GradeID].Name,
			ClassName:   c.Name,
		}
		for _, t := range m.st.txns {
			if t.StudentID == s.ID {
				row.Balance += t.Points
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentName < out[j].StudentName })
	return out, nil
}

// Rewards

func (m *memStore) ListRewards(_ context.Context, f model.RewardFilter) ([]model.RewardItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.RewardItem
	for _, r := range m.st.rewards {
		if (f.Active != nil && r.IsActive != *f.Active) || (f.Q != "" && !strings.Contains(r.Name, f.Q)) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memStore) GetReward(_ context.Context, id uuid.UUID) (*model.RewardItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.st.rewards[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (m *memStore) CreateReward(_ context.Context, item *model.RewardItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = uuid.New()
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	m.st.rewards[item.ID] = *item
	return nil
}

func (m *memStore) UpdateReward(_ context.Context, item *model.RewardItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.st.rewards[item.ID]; !ok {
		return repository.ErrNotFound
	}
	m.st.rewards[item.ID] = *item
	return nil
}

func (m *memStore) DisableReward(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.st.rewards[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.IsActive = false
	m.st.rewards[id] = r
	return nil
}

func (m *memStore) DecrementStock(_ context.Context, itemID uuid.UUID, quantity int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.st.rewards[itemID]
	if !ok {
		return false, nil
	}
	if r.Stock == nil {
		return true, nil
	}
	if *r.Stock < quantity {
		return false, nil
	}
	left := *r.Stock - quantity
	r.Stock = &left
	m.st.rewards[itemID] = r
	return true, nil
}

func (m *memStore) CreatePurchase(_ context.Context, p *model.Purchase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	m.st.purchases = append(m.st.purchases, *p)
	return nil
}

func (m *memStore) LinkPurchaseTransaction(_ context.Context, purchaseID, txnID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.st.purchases {
		if m.st.purchases[i].ID == purchaseID {
			m.st.purchases[i].PointTransactionID = &txnID
			return nil
		}
	}
	return repository.ErrNotFound
}

// Audit

func (m *memStore) CreateAuditLog(_ context.Context, l *model.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.auditErr != nil {
		return m.auditErr
	}
	l.ID = uuid.New()
	l.CreatedAt = time.Now()
	m.st.audits = append(m.st.audits, *l)
	return nil
}

func (m *memStore) ListAuditLogs(_ context.Context, f model.AuditFilter, limit int) ([]model.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.AuditLog
	for i := len(m.st.audits) - 1; i >= 0 && len(out) < limit; i-- {
		l := m.st.audits[i]
		if (f.Action != "" && l.Action != f.Action) || (f.EntityType != "" && l.EntityType != f.EntityType) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

// Test accessors

func (m *memStore) txnCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.st.txns)
}

func (m *memStore) attendanceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.st.attendances)
}

func (m *memStore) auditActions() []model.AuditAction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.AuditAction, len(m.st.audits))
	for i, l := range m.st.audits {
		out[i] = l.Action
	}
	return out
}

// Fixture helpers

type fixture struct {
	store   *memStore
	super   model.Actor
	admin   model.Actor
	gate    model.Actor
	servant model.Actor
	grade   model.Grade
	boys    model.Class
	girls   model.Class
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{store: newMemStore()}
	mkUser := func(username string, role model.Role) model.Actor {
		u := &model.User{Username: username, Name: username, Role: role, IsActive: true}
		if err := f.store.CreateUser(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
		return u.Actor()
	}
	f.super = mkUser("super", model.RoleSuperAdmin)
	f.admin = mkUser("admin", model.RoleAdmin)
	f.gate = mkUser("gate", model.RoleGateAdmin)
	f.servant = mkUser("servant", model.RoleServant)

	f.grade = model.Grade{Name: "Grade 1", SortOrder: 1}
	if err := f.store.CreateGrade(ctx, &f.grade); err != nil {
		t.Fatalf("create grade: %v", err)
	}
	f.boys = model.Class{GradeID: f.grade.ID, Name: "Boys 1", Gender: model.GenderMale}
	f.girls = model.Class{GradeID: f.grade.ID, Name: "Girls 1", Gender: model.GenderFemale}
	for _, c := range []*model.Class{&f.boys, &f.girls} {
		if err := f.store.CreateClass(ctx, c); err != nil {
			t.Fatalf("create class: %v", err)
		}
	}
	return f
}

func (f *fixture) student(t testing.TB, name string, class model.Class) model.Student {
	t.Helper()
	s := &model.Student{Name: name, Gender: class.Gender, ClassID: class.ID}
	if err := f.store.CreateStudent(context.Background(), s); err != nil {
		t.Fatalf("create student: %v", err)
	}
	return *s
}

func (f *fixture) reason(t testing.TB, name string, points int, cat model.ReasonCategory, limit model.LimitType, roles ...model.Role) model.PointReason {
	t.Helper()
	r := &model.PointReason{
		Name:         name,
		Points:       points,
		Category:     cat,
		LimitType:    limit,
		AllowedRoles: roles,
		IsActive:     true,
		CreatedBy:    f.super.UserID,
	}
	if err := f.store.CreateReason(context.Background(), r); err != nil {
		t.Fatalf("create reason: %v", err)
	}
	return *r
}

func (f *fixture) credit(t testing.TB, studentID uuid.UUID, points int) {
	t.Helper()
	text := "seed"
	err := f.store.CreateTransaction(context.Background(), &model.PointTransaction{
		StudentID:  studentID,
		Points:     points,
		ManualText: &text,
		CreatedBy:  f.super.UserID,
	})
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
}

func (f *fixture) assign(t testing.TB, actor model.Actor, class model.Class) {
	t.Helper()
	if err := f.store.CreateAssignment(context.Background(), &model.ClassAssignment{UserID: actor.UserID, ClassID: class.ID}); err != nil {
		t.Fatalf("assign: %v", err)
	}
}
