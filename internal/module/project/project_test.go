package project

import (
	"context"
	"strconv"
	"testing"
	"time"

	"monitoria-system/internal/global/actor"
	"monitoria-system/internal/global/logger"
	"monitoria-system/internal/global/notify"
	"monitoria-system/internal/global/optional"
	"monitoria-system/internal/global/renderer"
	"monitoria-system/internal/global/response"
	"monitoria-system/internal/model"
	"monitoria-system/test"

	"github.com/stretchr/testify/require"
)

type env struct {
	svc      *Service
	f        *test.Fixture
	docs     *test.Renderer
	store    *test.Store
	notifier *test.Notifier
	owner    model.Professor
	ownerAct actor.Actor
	other    actor.Actor
	admin    actor.Actor
	mata37   model.Discipline
	mata38   model.Discipline
}

func setup(t *testing.T) *env {
	db := test.NewDB(t)
	f := test.NewFixture(t, db)
	e := &env{
		f:        f,
		docs:     &test.Renderer{},
		store:    test.NewStore(),
		notifier: &test.Notifier{},
	}
	e.svc = NewService(db, e.docs, e.store, e.notifier)
	e.svc.now = func() time.Time { return time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC) }

	dept := f.Department()
	e.owner = f.Professor(dept.ID)
	e.ownerAct = actor.Professor(e.owner.UserID)
	e.other = actor.Professor(f.Professor(dept.ID).UserID)
	e.admin = actor.Admin(f.Admin().ID)
	e.mata37 = f.Discipline("MATA37")
	e.mata38 = f.Discipline("MATA38")
	f.Period(2025, model.Semester1, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC),
		func(p *model.EnrollmentPeriod) { p.TotalScholarships = test.Ptr(10) })
	return e
}

func (e *env) project(t *testing.T, status model.ProjectStatus, opts ...func(*model.Project)) model.Project {
	return e.f.Project(e.owner, status, []uint{e.mata37.ID}, opts...)
}

func (e *env) reload(t *testing.T, id uint) model.Project {
	var p model.Project
	require.NoError(t, e.svc.db.Unscoped().First(&p, id).Error)
	return p
}

func validCreate(disciplines ...uint) CreateInput {
	return CreateInput{
		Title:                 "Monitoria de Cálculo",
		Year:                  2025,
		Term:                  model.Semester1,
		Type:                  model.ProposalIndividual,
		RequestedScholarships: 1,
		RequestedVolunteers:   1,
		WeeklyHours:           12,
		Weeks:                 17,
		DisciplineIDs:         disciplines,
	}
}

func TestCreate(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	t.Run("professor creates draft", func(t *testing.T) {
		p, err := e.svc.Create(ctx, e.ownerAct, validCreate(e.mata37.ID, e.mata37.ID, e.mata38.ID))
		require.NoError(t, err)
		require.Equal(t, model.ProjectDraft, p.Status)
		require.Equal(t, e.owner.ID, p.ProfessorID)
		require.Equal(t, e.owner.DepartmentID, p.DepartmentID)
		require.ElementsMatch(t, []uint{e.mata37.ID, e.mata38.ID}, p.DisciplineIDs())
	})

	t.Run("admin creates on behalf of professor", func(t *testing.T) {
		in := validCreate(e.mata37.ID)
		in.ProfessorID = &e.owner.ID
		p, err := e.svc.Create(ctx, e.admin, in)
		require.NoError(t, err)
		require.Equal(t, model.ProjectPendingProfessorSignature, p.Status)
		require.Equal(t, e.owner.ID, p.ProfessorID)
	})

	cases := []struct {
		name  string
		actor actor.Actor
		in    func() CreateInput
		want  *response.Error
	}{
		{"student forbidden", actor.Student(99), func() CreateInput { return validCreate(e.mata37.ID) }, response.ErrForbidden},
		{"admin without professor", e.admin, func() CreateInput { return validCreate(e.mata37.ID) }, response.ErrValidation},
		{"no discipline", e.ownerAct, func() CreateInput { return validCreate() }, response.ErrValidation},
		{"unknown discipline", e.ownerAct, func() CreateInput { return validCreate(e.mata37.ID, 999) }, response.ErrNotFound},
		{"no slots", e.ownerAct, func() CreateInput {
			in := validCreate(e.mata37.ID)
			in.RequestedScholarships, in.RequestedVolunteers = 0, 0
			return in
		}, response.ErrValidation},
		{"bad term", e.ownerAct, func() CreateInput {
			in := validCreate(e.mata37.ID)
			in.Term = "VERAO"
			return in
		}, response.ErrValidation},
		{"user without professor profile", actor.Professor(12345), func() CreateInput { return validCreate(e.mata37.ID) }, response.ErrForbidden},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := e.svc.Create(ctx, c.actor, c.in())
			test.ErrorIs(t, err, c.want)
		})
	}
}

func TestCreateIndividualAgainstApprovedCollective(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.project(t, model.ProjectApproved, func(p *model.Project) { p.Type = model.ProposalCollective })

	_, err := e.svc.Create(ctx, e.ownerAct, validCreate(e.mata37.ID))
	test.ErrorIs(t, err, response.ErrConflict)

	// 其他学期、其他课程、集体项目本身都不受影响
	in := validCreate(e.mata37.ID)
	in.Term = model.Semester2
	_, err = e.svc.Create(ctx, e.ownerAct, in)
	require.NoError(t, err)

	_, err = e.svc.Create(ctx, e.ownerAct, validCreate(e.mata38.ID))
	require.NoError(t, err)

	in = validCreate(e.mata37.ID)
	in.Type = model.ProposalCollective
	_, err = e.svc.Create(ctx, e.ownerAct, in)
	require.NoError(t, err)
}

func TestSubmit(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	cases := []struct {
		from model.ProjectStatus
		want *response.Error
	}{
		{model.ProjectDraft, nil},
		{model.ProjectPendingProfessorSignature, nil},
		{model.ProjectSubmitted, response.ErrBadRequest},
		{model.ProjectApproved, response.ErrBadRequest},
		{model.ProjectRejected, response.ErrBadRequest},
		{model.ProjectPendingAdminSignature, response.ErrBadRequest},
	}
	for _, c := range cases {
		t.Run(string(c.from), func(t *testing.T) {
			p := e.project(t, c.from)
			got, err := e.svc.Submit(ctx, e.ownerAct, p.ID)
			if c.want != nil {
				test.ErrorIs(t, err, c.want)
				require.Equal(t, c.from, e.reload(t, p.ID).Status)
				return
			}
			require.NoError(t, err)
			require.Equal(t, model.ProjectSubmitted, got.Status)
			require.Equal(t, model.ProjectSubmitted, e.reload(t, p.ID).Status)
		})
	}

	t.Run("admin may submit", func(t *testing.T) {
		p := e.project(t, model.ProjectDraft)
		_, err := e.svc.Submit(ctx, e.admin, p.ID)
		require.NoError(t, err)
	})

	t.Run("other professor forbidden", func(t *testing.T) {
		p := e.project(t, model.ProjectDraft)
		_, err := e.svc.Submit(ctx, e.other, p.ID)
		test.ErrorIs(t, err, response.ErrForbidden)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := e.svc.Submit(ctx, e.ownerAct, 4242)
		test.ErrorIs(t, err, response.ErrNotFound)
	})

	require.Contains(t, e.notifier.Templates(), notify.TemplateProjectSubmitted)
}

func TestSignAsProfessor(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	t.Run("stores signature and document", func(t *testing.T) {
		p := e.project(t, model.ProjectPendingProfessorSignature)
		got, err := e.svc.SignAsProfessor(ctx, e.ownerAct, p.ID, "data:image/png;base64,AAAA")
		require.NoError(t, err)
		require.Equal(t, model.ProjectSubmitted, got.Status)

		stored := e.reload(t, p.ID)
		require.Equal(t, model.ProjectSubmitted, stored.Status)
		require.Equal(t, "data:image/png;base64,AAAA", stored.ProfessorSignature)
		require.NotNil(t, stored.ProfessorSignedAt)
		require.NotEmpty(t, stored.SignedDocument)
		require.Contains(t, e.store.Objects, stored.SignedDocument)
		require.Contains(t, e.docs.Templates, renderer.TemplateProjectProposal)
	})

	t.Run("render failure rolls back", func(t *testing.T) {
		e.docs.Fail = true
		defer func() { e.docs.Fail = false }()

		p := e.project(t, model.ProjectDraft)
		_, err := e.svc.SignAsProfessor(ctx, e.ownerAct, p.ID, "sig")
		test.ErrorIs(t, err, response.ErrUpstream)

		stored := e.reload(t, p.ID)
		require.Equal(t, model.ProjectDraft, stored.Status)
		require.Empty(t, stored.ProfessorSignature)
		require.Nil(t, stored.ProfessorSignedAt)
	})

	t.Run("storage failure rolls back", func(t *testing.T) {
		e.store.Fail = true
		defer func() { e.store.Fail = false }()

		p := e.project(t, model.ProjectDraft)
		_, err := e.svc.SignAsProfessor(ctx, e.ownerAct, p.ID, "sig")
		test.ErrorIs(t, err, response.ErrUpstream)
		require.Equal(t, model.ProjectDraft, e.reload(t, p.ID).Status)
	})

	t.Run("notification failure is not fatal", func(t *testing.T) {
		e.notifier.Fail = true
		defer func() { e.notifier.Fail = false }()

		p := e.project(t, model.ProjectDraft)
		_, err := e.svc.SignAsProfessor(ctx, e.ownerAct, p.ID, "sig")
		require.NoError(t, err)
	})

	t.Run("not owner", func(t *testing.T) {
		p := e.project(t, model.ProjectDraft)
		_, err := e.svc.SignAsProfessor(ctx, e.other, p.ID, "sig")
		test.ErrorIs(t, err, response.ErrForbidden)
	})

	t.Run("admin cannot sign as professor", func(t *testing.T) {
		p := e.project(t, model.ProjectDraft)
		_, err := e.svc.SignAsProfessor(ctx, e.admin, p.ID, "sig")
		test.ErrorIs(t, err, response.ErrForbidden)
	})

	t.Run("empty signature", func(t *testing.T) {
		p := e.project(t, model.ProjectDraft)
		_, err := e.svc.SignAsProfessor(ctx, e.ownerAct, p.ID, "  ")
		test.ErrorIs(t, err, response.ErrValidation)
	})

	t.Run("already approved", func(t *testing.T) {
		p := e.project(t, model.ProjectApproved)
		_, err := e.svc.SignAsProfessor(ctx, e.ownerAct, p.ID, "sig")
		test.ErrorIs(t, err, response.ErrBadRequest)
	})
}

func TestApproveAndReject(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	t.Run("approve records scholarships", func(t *testing.T) {
		p := e.project(t, model.ProjectSubmitted)
		got, err := e.svc.Approve(ctx, e.admin, p.ID, ApproveInput{ScholarshipCount: test.Ptr(2), Feedback: test.Ptr("ok")})
		require.NoError(t, err)
		require.Equal(t, model.ProjectApproved, got.Status)
		stored := e.reload(t, p.ID)
		require.Equal(t, 2, stored.AllocatedScholarships)
		require.Equal(t, "ok", stored.AdminFeedback)
	})

	t.Run("approve without count keeps allocation", func(t *testing.T) {
		p := e.project(t, model.ProjectSubmitted, func(p *model.Project) { p.AllocatedScholarships = 0 })
		_, err := e.svc.Approve(ctx, e.admin, p.ID, ApproveInput{})
		require.NoError(t, err)
		require.Equal(t, 0, e.reload(t, p.ID).AllocatedScholarships)
	})

	t.Run("approve from draft", func(t *testing.T) {
		p := e.project(t, model.ProjectDraft)
		_, err := e.svc.Approve(ctx, e.admin, p.ID, ApproveInput{})
		test.ErrorIs(t, err, response.ErrBadRequest)
	})

	t.Run("professor cannot approve", func(t *testing.T) {
		p := e.project(t, model.ProjectSubmitted)
		_, err := e.svc.Approve(ctx, e.ownerAct, p.ID, ApproveInput{})
		test.ErrorIs(t, err, response.ErrForbidden)
	})

	t.Run("negative count", func(t *testing.T) {
		p := e.project(t, model.ProjectSubmitted)
		_, err := e.svc.Approve(ctx, e.admin, p.ID, ApproveInput{ScholarshipCount: test.Ptr(-1)})
		test.ErrorIs(t, err, response.ErrValidation)
	})

	t.Run("reject requires feedback", func(t *testing.T) {
		p := e.project(t, model.ProjectSubmitted)
		_, err := e.svc.Reject(ctx, e.admin, p.ID, " ")
		test.ErrorIs(t, err, response.ErrValidation)
		require.Equal(t, model.ProjectSubmitted, e.reload(t, p.ID).Status)
	})

	t.Run("reject", func(t *testing.T) {
		p := e.project(t, model.ProjectSubmitted)
		_, err := e.svc.Reject(ctx, e.admin, p.ID, "Faltou cronograma")
		require.NoError(t, err)
		stored := e.reload(t, p.ID)
		require.Equal(t, model.ProjectRejected, stored.Status)
		require.Equal(t, "Faltou cronograma", stored.AdminFeedback)

		// 驳回后不能重新提交
		_, err = e.svc.Submit(ctx, e.ownerAct, p.ID)
		test.ErrorIs(t, err, response.ErrBadRequest)
	})

	t.Run("reject approved", func(t *testing.T) {
		p := e.project(t, model.ProjectApproved)
		_, err := e.svc.Reject(ctx, e.admin, p.ID, "tarde demais")
		test.ErrorIs(t, err, response.ErrBadRequest)
	})

	require.Contains(t, e.notifier.Templates(), notify.TemplateProjectApproved)
	require.Contains(t, e.notifier.Templates(), notify.TemplateProjectRejected)
}

func TestApproveIndividualAgainstApprovedCollective(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	individual := e.project(t, model.ProjectSubmitted)
	e.project(t, model.ProjectApproved, func(p *model.Project) { p.Type = model.ProposalCollective })

	_, err := e.svc.Approve(ctx, e.admin, individual.ID, ApproveInput{})
	test.ErrorIs(t, err, response.ErrConflict)
	require.Equal(t, model.ProjectSubmitted, e.reload(t, individual.ID).Status)
}

func TestApproveCollectiveAgainstIndividual(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.project(t, model.ProjectApproved)
	collective := func() model.Project {
		return e.project(t, model.ProjectSubmitted, func(p *model.Project) { p.Type = model.ProposalCollective })
	}

	p := collective()
	_, err := e.svc.Approve(ctx, e.admin, p.ID, ApproveInput{})
	test.ErrorIs(t, err, response.ErrConflict)
	require.Equal(t, model.ProjectSubmitted, e.reload(t, p.ID).Status)

	p = collective()
	_, err = e.svc.SignAsAdmin(ctx, e.admin, p.ID, "sig-admin")
	test.ErrorIs(t, err, response.ErrConflict)
	require.Equal(t, model.ProjectSubmitted, e.reload(t, p.ID).Status)

	t.Run("rejected or other term individual does not block", func(t *testing.T) {
		e.f.Project(e.owner, model.ProjectRejected, []uint{e.mata38.ID})
		e.f.Project(e.owner, model.ProjectApproved, []uint{e.mata38.ID}, func(p *model.Project) { p.Term = model.Semester2 })
		p := e.f.Project(e.owner, model.ProjectSubmitted, []uint{e.mata38.ID}, func(p *model.Project) { p.Type = model.ProposalCollective })
		got, err := e.svc.Approve(ctx, e.admin, p.ID, ApproveInput{})
		require.NoError(t, err)
		require.Equal(t, model.ProjectApproved, got.Status)
	})
}

func TestScholarshipBudget(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	// 夹具项目默认已分配 1 个名额
	for range 3 {
		e.project(t, model.ProjectApproved, func(p *model.Project) { p.Type = model.ProposalCollective })
	}

	p := e.project(t, model.ProjectSubmitted, func(p *model.Project) { p.Type = model.ProposalCollective })
	_, err := e.svc.Approve(ctx, e.admin, p.ID, ApproveInput{ScholarshipCount: test.Ptr(8)})
	test.ErrorIs(t, err, response.ErrValidation)
	require.Equal(t, model.ProjectSubmitted, e.reload(t, p.ID).Status)

	got, err := e.svc.Approve(ctx, e.admin, p.ID, ApproveInput{ScholarshipCount: test.Ptr(7)})
	require.NoError(t, err)
	require.Equal(t, 7, got.AllocatedScholarships)

	_, err = e.svc.AllocateScholarships(ctx, e.admin, p.ID, 8)
	test.ErrorIs(t, err, response.ErrValidation)
	_, err = e.svc.AllocateScholarships(ctx, e.admin, p.ID, 0)
	require.NoError(t, err)

	t.Run("no total configured", func(t *testing.T) {
		other := e.project(t, model.ProjectApproved, func(p *model.Project) { p.Term = model.Semester2 })
		_, err := e.svc.AllocateScholarships(ctx, e.admin, other.ID, 1)
		test.ErrorIs(t, err, response.ErrValidation)
		_, err = e.svc.AllocateScholarships(ctx, e.admin, other.ID, 0)
		require.NoError(t, err)
	})
}

func TestSignAsAdmin(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	t.Run("approves", func(t *testing.T) {
		p := e.project(t, model.ProjectSubmitted)
		got, err := e.svc.SignAsAdmin(ctx, e.admin, p.ID, "sig-admin")
		require.NoError(t, err)
		require.Equal(t, model.ProjectApproved, got.Status)
		stored := e.reload(t, p.ID)
		require.Equal(t, "sig-admin", stored.AdminSignature)
		require.NotEmpty(t, stored.SignedDocument)
	})

	t.Run("document failure keeps approval", func(t *testing.T) {
		e.docs.Fail = true
		defer func() { e.docs.Fail = false }()
		p := e.project(t, model.ProjectSubmitted)
		_, err := e.svc.SignAsAdmin(ctx, e.admin, p.ID, "sig-admin")
		require.NoError(t, err)
		stored := e.reload(t, p.ID)
		require.Equal(t, model.ProjectApproved, stored.Status)
		require.Empty(t, stored.SignedDocument)
	})

	t.Run("only from submitted", func(t *testing.T) {
		for _, status := range []model.ProjectStatus{model.ProjectDraft, model.ProjectApproved, model.ProjectRejected} {
			p := e.project(t, status)
			_, err := e.svc.SignAsAdmin(ctx, e.admin, p.ID, "sig-admin")
			test.ErrorIs(t, err, response.ErrBadRequest)
		}
	})

	t.Run("professor forbidden", func(t *testing.T) {
		p := e.project(t, model.ProjectSubmitted)
		_, err := e.svc.SignAsAdmin(ctx, e.ownerAct, p.ID, "sig")
		test.ErrorIs(t, err, response.ErrForbidden)
	})
}

func TestDelete(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	t.Run("owner deletes draft", func(t *testing.T) {
		p := e.project(t, model.ProjectDraft)
		require.NoError(t, e.svc.Delete(ctx, e.ownerAct, p.ID))
		require.True(t, e.reload(t, p.ID).DeletedAt.Valid)
		_, err := e.svc.Get(ctx, e.admin, p.ID)
		test.ErrorIs(t, err, response.ErrNotFound)
	})

	t.Run("owner cannot delete submitted", func(t *testing.T) {
		p := e.project(t, model.ProjectSubmitted)
		test.ErrorIs(t, e.svc.Delete(ctx, e.ownerAct, p.ID), response.ErrBadRequest)
	})

	t.Run("other professor", func(t *testing.T) {
		p := e.project(t, model.ProjectDraft)
		test.ErrorIs(t, e.svc.Delete(ctx, e.other, p.ID), response.ErrForbidden)
	})

	t.Run("admin deletes any state", func(t *testing.T) {
		p := e.project(t, model.ProjectApproved)
		require.NoError(t, e.svc.Delete(ctx, e.admin, p.ID))
	})
}

func TestUpdate(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	t.Run("partial update keeps absent fields", func(t *testing.T) {
		p := e.project(t, model.ProjectDraft)
		got, err := e.svc.Update(ctx, e.ownerAct, p.ID, UpdateInput{
			Title:         optional.Of("Monitoria de Álgebra"),
			DisciplineIDs: optional.Of([]uint{e.mata38.ID}),
		})
		require.NoError(t, err)
		require.Equal(t, "Monitoria de Álgebra", got.Title)

		stored := e.reload(t, p.ID)
		require.Equal(t, "Monitoria de Álgebra", stored.Title)
		require.Equal(t, p.Description, stored.Description)
		require.Equal(t, p.WeeklyHours, stored.WeeklyHours)

		var links []model.ProjectDiscipline
		require.NoError(t, e.svc.db.Where("project_id = ?", p.ID).Find(&links).Error)
		require.Len(t, links, 1)
		require.Equal(t, e.mata38.ID, links[0].DisciplineID)
	})

	t.Run("owner cannot edit after submit", func(t *testing.T) {
		p := e.project(t, model.ProjectSubmitted)
		_, err := e.svc.Update(ctx, e.ownerAct, p.ID, UpdateInput{Title: optional.Of("x")})
		test.ErrorIs(t, err, response.ErrBadRequest)
	})

	t.Run("admin edits submitted", func(t *testing.T) {
		p := e.project(t, model.ProjectSubmitted)
		_, err := e.svc.Update(ctx, e.admin, p.ID, UpdateInput{Weeks: optional.Of(10)})
		require.NoError(t, err)
		require.Equal(t, 10, e.reload(t, p.ID).Weeks)
	})

	t.Run("cleared title", func(t *testing.T) {
		p := e.project(t, model.ProjectDraft)
		_, err := e.svc.Update(ctx, e.ownerAct, p.ID, UpdateInput{Title: optional.Null[string]()})
		test.ErrorIs(t, err, response.ErrValidation)
	})

	t.Run("no slots left", func(t *testing.T) {
		p := e.project(t, model.ProjectDraft)
		_, err := e.svc.Update(ctx, e.ownerAct, p.ID, UpdateInput{
			RequestedScholarships: optional.Of(0),
			RequestedVolunteers:   optional.Of(0),
		})
		test.ErrorIs(t, err, response.ErrValidation)
	})

	t.Run("empty discipline list", func(t *testing.T) {
		p := e.project(t, model.ProjectDraft)
		_, err := e.svc.Update(ctx, e.ownerAct, p.ID, UpdateInput{DisciplineIDs: optional.Of([]uint{})})
		test.ErrorIs(t, err, response.ErrValidation)
	})
}

func TestAllocateAndGet(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	approved := e.project(t, model.ProjectApproved)
	draft := e.project(t, model.ProjectDraft)

	got, err := e.svc.AllocateScholarships(ctx, e.admin, approved.ID, 3)
	require.NoError(t, err)
	require.Equal(t, 3, got.AllocatedScholarships)

	_, err = e.svc.AllocateScholarships(ctx, e.admin, draft.ID, 3)
	test.ErrorIs(t, err, response.ErrBadRequest)

	student := actor.Student(777)
	_, err = e.svc.Get(ctx, student, approved.ID)
	require.NoError(t, err)
	_, err = e.svc.Get(ctx, student, draft.ID)
	test.ErrorIs(t, err, response.ErrNotFound)
	_, err = e.svc.Get(ctx, e.other, draft.ID)
	test.ErrorIs(t, err, response.ErrForbidden)
}

func TestSignedDocumentURL(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	p := e.project(t, model.ProjectDraft)

	_, err := e.svc.SignedDocumentURL(ctx, e.ownerAct, p.ID)
	test.ErrorIs(t, err, response.ErrNotFound)

	_, err = e.svc.SignAsProfessor(ctx, e.ownerAct, p.ID, "sig")
	require.NoError(t, err)
	url, err := e.svc.SignedDocumentURL(ctx, e.ownerAct, p.ID)
	require.NoError(t, err)
	require.Contains(t, url, "projects/")
}

func TestSubmitHandler(t *testing.T) {
	e := setup(t)
	svc = e.svc
	log = logger.New("Project")
	p := e.project(t, model.ProjectDraft)
	id := strconv.FormatUint(uint64(p.ID), 10)

	resp := test.DoRequest(t, SubmitProject, test.Request{Params: test.Param("id", id), Actor: &e.ownerAct})
	test.NoError(t, resp)

	resp = test.DoRequest(t, SubmitProject, test.Request{Params: test.Param("id", id), Actor: &e.ownerAct})
	test.ErrorEqual(t, response.ErrBadRequest, resp)

	resp = test.DoRequest(t, SubmitProject, test.Request{Params: test.Param("id", "abc"), Actor: &e.ownerAct})
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)

	resp = test.DoRequest(t, SubmitProject, test.Request{Params: test.Param("id", id)})
	test.ErrorEqual(t, response.ErrUnauthorized, resp)
}
