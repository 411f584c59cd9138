package service

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"edu-radar/backend/internal/dto"
	"edu-radar/backend/internal/model"
)

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
	scores   []model.TestScore
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) avgScore(studentID string) float64 {
	var sum float64
	var n int
	for _, s := range m.scores {
		if s.StudentID == studentID {
			sum += s.TestScore
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func (m *mockStudentRepo) ListJoined(_ context.Context) ([]model.StudentAggregate, error) {
	ids := make([]string, 0, len(m.students))
	for id := range m.students {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([]model.StudentAggregate, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, model.StudentAggregate{
			Student:      *m.students[id],
			AvgTestScore: m.avgScore(id),
		})
	}
	return rows, nil
}

func (m *mockStudentRepo) GetJoined(_ context.Context, studentID string) (*model.StudentAggregate, error) {
	stu, ok := m.students[studentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.StudentAggregate{Student: *stu, AvgTestScore: m.avgScore(studentID)}, nil
}

func (m *mockStudentRepo) ExistingIDs(_ context.Context) (map[string]bool, error) {
	existing := make(map[string]bool, len(m.students))
	for id := range m.students {
		existing[id] = true
	}
	return existing, nil
}

func (m *mockStudentRepo) BatchCreate(_ context.Context, students []model.Student, scores []model.TestScore) error {
	for i := range students {
		stu := students[i]
		m.students[stu.StudentID] = &stu
	}
	m.scores = append(m.scores, scores...)
	return nil
}

func (m *mockStudentRepo) UpdateFields(_ context.Context, studentID string, updates map[string]interface{}) error {
	stu, ok := m.students[studentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["attendance_percentage"]; ok {
		if f, ok := v.(float64); ok {
			stu.AttendancePercentage = f
		}
	}
	if v, ok := updates["fee_status"]; ok {
		if s, ok := v.(string); ok {
			stu.FeeStatus = s
		}
	}
	return nil
}

func (m *mockStudentRepo) DeleteCascade(_ context.Context, studentID string) error {
	if _, ok := m.students[studentID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.students, studentID)
	kept := m.scores[:0]
	for _, s := range m.scores {
		if s.StudentID != studentID {
			kept = append(kept, s)
		}
	}
	m.scores = kept
	return nil
}

// ── Mock ScoreRepository（与 mockStudentRepo 共享底层数据）──

type mockScoreRepo struct {
	store *mockStudentRepo
}

func newMockScoreRepo(store *mockStudentRepo) *mockScoreRepo {
	return &mockScoreRepo{store: store}
}

func (m *mockScoreRepo) ListByStudent(_ context.Context, studentID string) ([]model.TestScore, error) {
	var out []model.TestScore
	for _, s := range m.store.scores {
		if s.StudentID == studentID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TestNumber < out[j].TestNumber })
	return out, nil
}

func (m *mockScoreRepo) Trends(_ context.Context, studentID string) ([]dto.TrendPoint, error) {
	scores, _ := m.ListByStudent(nil, studentID)
	var points []dto.TrendPoint
	for _, s := range scores {
		points = append(points, dto.TrendPoint{TestNumber: s.TestNumber, TestScore: s.TestScore})
	}
	return points, nil
}

func (m *mockScoreRepo) SubjectAverages(_ context.Context) ([]dto.SubjectScore, error) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, s := range m.store.scores {
		sums[s.Subject] += s.TestScore
		counts[s.Subject]++
	}

	subjects := make([]string, 0, len(sums))
	for subject := range sums {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)

	out := make([]dto.SubjectScore, 0, len(subjects))
	for _, subject := range subjects {
		out = append(out, dto.SubjectScore{
			Subject:      subject,
			AvgTestScore: sums[subject] / float64(counts[subject]),
		})
	}
	return out, nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if u, ok := m.users[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	names := make([]string, 0, len(m.users))
	for name := range m.users {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]model.User, 0, len(names))
	for _, name := range names {
		out = append(out, *m.users[name])
	}
	return out, nil
}

func (m *mockUserRepo) Delete(_ context.Context, username string) error {
	if _, ok := m.users[username]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, username)
	return nil
}

func (m *mockUserRepo) UpdateRole(_ context.Context, username, role string) error {
	u, ok := m.users[username]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Role = role
	return nil
}
