package period

import (
	"context"
	"sync"
	"testing"
	"time"

	"monitoria-system/internal/global/actor"
	"monitoria-system/internal/global/optional"
	"monitoria-system/internal/global/response"
	"monitoria-system/internal/model"
	"monitoria-system/test"

	"github.com/stretchr/testify/require"
)

var (
	admin = actor.Admin(1)
	day   = func(d int) time.Time { return time.Date(2025, time.February, d, 0, 0, 0, 0, time.UTC) }
)

func newService(t *testing.T) (*Service, *test.Fixture) {
	db := test.NewDB(t)
	return NewService(db), test.NewFixture(t, db)
}

func countPeriods(t *testing.T, s *Service) int64 {
	var n int64
	require.NoError(t, s.db.Model(&model.EnrollmentPeriod{}).Count(&n).Error)
	return n
}

func TestCreate(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	p, err := s.Create(ctx, admin, CreateInput{Year: 2025, Term: model.Semester1, StartAt: day(1), EndAt: day(10)})
	require.NoError(t, err)
	require.NotZero(t, p.ID)

	cases := []struct {
		name  string
		actor actor.Actor
		in    CreateInput
		want  *response.Error
	}{
		{"professor forbidden", actor.Professor(2), CreateInput{Year: 2025, Term: model.Semester1, StartAt: day(20), EndAt: day(25)}, response.ErrForbidden},
		{"end before start", admin, CreateInput{Year: 2025, Term: model.Semester1, StartAt: day(25), EndAt: day(20)}, response.ErrValidation},
		{"invalid term", admin, CreateInput{Year: 2025, Term: "SEMESTRE_3", StartAt: day(20), EndAt: day(25)}, response.ErrValidation},
		{"overlap inside", admin, CreateInput{Year: 2025, Term: model.Semester1, StartAt: day(3), EndAt: day(5)}, response.ErrValidation},
		{"overlap covering", admin, CreateInput{Year: 2025, Term: model.Semester1, StartAt: day(1).Add(-time.Hour), EndAt: day(11)}, response.ErrValidation},
		{"touching end is overlap", admin, CreateInput{Year: 2025, Term: model.Semester1, StartAt: day(10), EndAt: day(12)}, response.ErrValidation},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := s.Create(ctx, c.actor, c.in)
			test.ErrorIs(t, err, c.want)
			require.Equal(t, int64(1), countPeriods(t, s))
		})
	}

	t.Run("other term does not overlap", func(t *testing.T) {
		_, err := s.Create(ctx, admin, CreateInput{Year: 2025, Term: model.Semester2, StartAt: day(3), EndAt: day(5)})
		require.NoError(t, err)
	})

	t.Run("adjacent window", func(t *testing.T) {
		_, err := s.Create(ctx, admin, CreateInput{Year: 2025, Term: model.Semester1, StartAt: day(10).Add(time.Second), EndAt: day(20)})
		require.NoError(t, err)
	})
}

// TestCreateConcurrentOverlap 覆盖并发下检查与写入的原子性
// 测试库只有一个连接，两个事务在这里天然串行；MySQL 上行锁与 SERIALIZABLE 的行为无法在此复现，只能靠阅读代码确认
func TestCreateConcurrentOverlap(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Create(ctx, admin, CreateInput{Year: 2025, Term: model.Semester1, StartAt: day(1 + i), EndAt: day(10 + i)})
		}(i)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			test.ErrorIs(t, err, response.ErrValidation)
			failed++
		}
	}
	require.Equal(t, 1, failed)
	require.Equal(t, int64(1), countPeriods(t, s))
}

func TestUpdate(t *testing.T) {
	s, f := newService(t)
	ctx := context.Background()
	first := f.Period(2025, model.Semester1, day(1), day(10))
	second := f.Period(2025, model.Semester1, day(15), day(20))

	t.Run("extend into neighbour", func(t *testing.T) {
		_, err := s.Update(ctx, admin, second.ID, UpdateInput{StartAt: optional.Of(day(9))})
		test.ErrorIs(t, err, response.ErrValidation)
	})

	t.Run("own window is excluded", func(t *testing.T) {
		p, err := s.Update(ctx, admin, first.ID, UpdateInput{EndAt: optional.Of(day(12))})
		require.NoError(t, err)
		require.True(t, p.EndAt.Equal(day(12)))
		require.True(t, p.StartAt.Equal(day(1)))
	})

	t.Run("null rejected", func(t *testing.T) {
		_, err := s.Update(ctx, admin, first.ID, UpdateInput{EndAt: optional.Null[time.Time]()})
		test.ErrorIs(t, err, response.ErrValidation)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := s.Update(ctx, admin, 999, UpdateInput{EndAt: optional.Of(day(12))})
		test.ErrorIs(t, err, response.ErrNotFound)
	})
}

func TestScholarshipTotal(t *testing.T) {
	s, f := newService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, admin, CreateInput{Year: 2025, Term: model.Semester1, StartAt: day(1), EndAt: day(5), TotalScholarships: test.Ptr(-1)})
	test.ErrorIs(t, err, response.ErrValidation)

	limit, err := ScholarshipLimit(ctx, s.db, 2025, model.Semester1)
	require.NoError(t, err)
	require.Nil(t, limit)

	early, err := s.Create(ctx, admin, CreateInput{Year: 2025, Term: model.Semester1, StartAt: day(1), EndAt: day(5), TotalScholarships: test.Ptr(12)})
	require.NoError(t, err)
	late := f.Period(2025, model.Semester1, day(10), day(15))

	limit, err = ScholarshipLimit(ctx, s.db, 2025, model.Semester1)
	require.NoError(t, err)
	require.Equal(t, 12, *limit)

	_, err = s.Update(ctx, admin, late.ID, UpdateInput{TotalScholarships: optional.Of(20)})
	require.NoError(t, err)
	limit, err = ScholarshipLimit(ctx, s.db, 2025, model.Semester1)
	require.NoError(t, err)
	require.Equal(t, 20, *limit)

	_, err = s.Update(ctx, admin, late.ID, UpdateInput{TotalScholarships: optional.Of(-3)})
	test.ErrorIs(t, err, response.ErrValidation)

	// 置空后回落到更早的报名期
	p, err := s.Update(ctx, admin, late.ID, UpdateInput{TotalScholarships: optional.Null[int]()})
	require.NoError(t, err)
	require.Nil(t, p.TotalScholarships)
	limit, err = ScholarshipLimit(ctx, s.db, 2025, model.Semester1)
	require.NoError(t, err)
	require.Equal(t, 12, *limit)

	// 未提供时保持不变
	_, err = s.Update(ctx, admin, early.ID, UpdateInput{EndAt: optional.Of(day(6))})
	require.NoError(t, err)
	var stored model.EnrollmentPeriod
	require.NoError(t, s.db.First(&stored, early.ID).Error)
	require.Equal(t, 12, *stored.TotalScholarships)
}

func TestOpenGate(t *testing.T) {
	s, f := newService(t)
	ctx := context.Background()
	f.Period(2025, model.Semester1, day(1), day(10))

	cases := []struct {
		name string
		now  time.Time
		term model.Term
		want bool
	}{
		{"before", day(1).Add(-time.Second), model.Semester1, false},
		{"at start", day(1), model.Semester1, true},
		{"inside", day(5), model.Semester1, true},
		{"at end", day(10), model.Semester1, true},
		{"after", day(10).Add(time.Second), model.Semester1, false},
		{"other term", day(5), model.Semester2, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			open, err := IsOpen(ctx, s.db, 2025, c.term, c.now)
			require.NoError(t, err)
			require.Equal(t, c.want, open)
		})
	}

	s.now = func() time.Time { return day(4) }
	p, err := s.Current(ctx, 2025, model.Semester1)
	require.NoError(t, err)
	require.Equal(t, 2025, p.Year)

	s.now = func() time.Time { return day(28) }
	_, err = s.Current(ctx, 2025, model.Semester1)
	test.ErrorIs(t, err, response.ErrNotFound)
}
