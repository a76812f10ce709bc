package test

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"monitoria-system/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Fixture 直接写库构造测试数据
type Fixture struct {
	t   *testing.T
	DB  *gorm.DB
	seq atomic.Int64
}

func NewFixture(t *testing.T, db *gorm.DB) *Fixture {
	return &Fixture{t: t, DB: db}
}

func (f *Fixture) next() int64 {
	return f.seq.Add(1)
}

func (f *Fixture) create(v any) {
	f.t.Helper()
	require.NoError(f.t, f.DB.Create(v).Error)
}

func (f *Fixture) user(role model.Role, name string) model.User {
	u := model.User{
		Email: fmt.Sprintf("%s%d@ufba.br", role, f.next()),
		Name:  name,
		Role:  role,
	}
	f.create(&u)
	return u
}

func (f *Fixture) Admin() model.User {
	return f.user(model.RoleAdmin, "Admin")
}

func (f *Fixture) Department() model.Department {
	d := model.Department{Name: "Departamento de Ciência da Computação", Acronym: "DCC"}
	f.create(&d)
	return d
}

func (f *Fixture) Professor(departmentID uint) model.Professor {
	u := f.user(model.RoleProfessor, "Professor")
	p := model.Professor{UserID: u.ID, Name: u.Name, Email: u.Email, DepartmentID: departmentID}
	f.create(&p)
	return p
}

func (f *Fixture) Student(cr *float64) model.Student {
	u := f.user(model.RoleStudent, "Aluno")
	s := model.Student{
		UserID:     u.ID,
		Enrollment: fmt.Sprintf("2021%05d", f.next()),
		Name:       u.Name,
		Email:      u.Email,
		CR:         cr,
	}
	f.create(&s)
	return s
}

func (f *Fixture) Discipline(code string) model.Discipline {
	d := model.Discipline{Code: code, Name: "Disciplina " + code, Class: "T01"}
	f.create(&d)
	return d
}

func (f *Fixture) Grade(studentID, disciplineID uint, grade float64) {
	f.create(&model.StudentGrade{StudentID: studentID, DisciplineID: disciplineID, Grade: grade})
}

func (f *Fixture) Equivalence(a, b uint) {
	f.create(&model.DisciplineEquivalence{DisciplineAID: a, DisciplineBID: b})
}

// Project 默认 2025 第一学期、1 个奖学金名额 + 2 个志愿者名额
func (f *Fixture) Project(professor model.Professor, status model.ProjectStatus, disciplines []uint, opts ...func(*model.Project)) model.Project {
	p := model.Project{
		Title:                 fmt.Sprintf("Monitoria %d", f.next()),
		Description:           "Apoio às aulas práticas",
		ProfessorID:           professor.ID,
		DepartmentID:          professor.DepartmentID,
		Year:                  2025,
		Term:                  model.Semester1,
		Type:                  model.ProposalIndividual,
		RequestedScholarships: 1,
		RequestedVolunteers:   2,
		AllocatedScholarships: 1,
		WeeklyHours:           12,
		Weeks:                 17,
		Status:                status,
	}
	for _, id := range disciplines {
		p.Disciplines = append(p.Disciplines, model.ProjectDiscipline{DisciplineID: id})
	}
	for _, opt := range opts {
		opt(&p)
	}
	f.create(&p)
	return p
}

func (f *Fixture) Period(year int, term model.Term, start, end time.Time, opts ...func(*model.EnrollmentPeriod)) model.EnrollmentPeriod {
	p := model.EnrollmentPeriod{Year: year, Term: term, StartAt: start.UTC(), EndAt: end.UTC()}
	for _, opt := range opts {
		opt(&p)
	}
	f.create(&p)
	return p
}

func (f *Fixture) Application(studentID, projectID, periodID uint, slot model.SlotType, status model.ApplicationStatus, opts ...func(*model.Application)) model.Application {
	a := model.Application{
		StudentID: studentID,
		ProjectID: projectID,
		PeriodID:  periodID,
		SlotType:  slot,
		Status:    status,
	}
	for _, opt := range opts {
		opt(&a)
	}
	f.create(&a)
	return a
}

func Ptr[T any](v T) *T {
	return &v
}
