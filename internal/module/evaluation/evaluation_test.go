package evaluation

import (
	"context"
	"testing"

	"monitoria-system/internal/global/response"
	"monitoria-system/test"

	"github.com/stretchr/testify/require"
)

func TestComputeFinalGrade(t *testing.T) {
	cases := []struct {
		name                 string
		discipline, exam, cr float64
		want                 float64
	}{
		{"weighted", 8, 7, 9, 7.90},
		{"all zero", 0, 0, 0, 0},
		{"all ten", 10, 10, 10, 10},
		{"round half up on third decimal", 7.01, 7.01, 7.04, 7.02},
		{"decimal half", 1.005, 1.005, 1.005, 1.01},
		{"discipline dominates", 10, 0, 0, 5},
		{"exam weight", 0, 10, 0, 3},
		{"cr weight", 0, 0, 10, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.InDelta(t, c.want, ComputeFinalGrade(c.discipline, c.exam, c.cr), 1e-9)
		})
	}
}

func TestComputeFinalGradeStaysInRange(t *testing.T) {
	for d := 0.0; d <= 10; d += 0.75 {
		for s := 0.0; s <= 10; s += 1.25 {
			for c := 0.0; c <= 10; c += 2.5 {
				got := ComputeFinalGrade(d, s, c)
				require.GreaterOrEqual(t, got, MinGrade)
				require.LessOrEqual(t, got, MaxGrade)
				require.Equal(t, got, ComputeFinalGrade(d, s, c))
			}
		}
	}
}

func TestValidateGrade(t *testing.T) {
	require.NoError(t, ValidateGrade("nota", 0))
	require.NoError(t, ValidateGrade("nota", 10))
	test.ErrorIs(t, ValidateGrade("nota", -0.1), response.ErrValidation)
	test.ErrorIs(t, ValidateGrade("nota", 10.01), response.ErrValidation)
}

func TestResolveDisciplineGrade(t *testing.T) {
	db := test.NewDB(t)
	f := test.NewFixture(t, db)
	ctx := context.Background()

	student := f.Student(nil)
	mata37 := f.Discipline("MATA37")
	mata40 := f.Discipline("MATA40")
	mata50 := f.Discipline("MATA50")
	mata60 := f.Discipline("MATA60")

	t.Run("no grade", func(t *testing.T) {
		got, err := ResolveDisciplineGrade(ctx, db, student.ID, mata37.ID)
		require.NoError(t, err)
		require.Nil(t, got)
	})

	f.Grade(student.ID, mata40.ID, 8.5)
	f.Equivalence(mata37.ID, mata40.ID)

	t.Run("equivalence is symmetric", func(t *testing.T) {
		got, err := ResolveDisciplineGrade(ctx, db, student.ID, mata37.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, 8.5, *got)
	})

	t.Run("direct grade wins", func(t *testing.T) {
		f.Grade(student.ID, mata37.ID, 6)
		got, err := ResolveDisciplineGrade(ctx, db, student.ID, mata37.ID)
		require.NoError(t, err)
		require.Equal(t, 6.0, *got)
	})

	t.Run("one hop only", func(t *testing.T) {
		// MATA60 ≡ MATA50 ≡ MATA40，MATA40 的成绩不能传递到 MATA60
		f.Equivalence(mata50.ID, mata40.ID)
		f.Equivalence(mata60.ID, mata50.ID)
		got, err := ResolveDisciplineGrade(ctx, db, student.ID, mata60.ID)
		require.NoError(t, err)
		require.Nil(t, got)
	})

	t.Run("other students are ignored", func(t *testing.T) {
		other := f.Student(nil)
		got, err := ResolveDisciplineGrade(ctx, db, other.ID, mata40.ID)
		require.NoError(t, err)
		require.Nil(t, got)
	})
}
