package application

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"monitoria-system/internal/global/actor"
	"monitoria-system/internal/global/database"
	"monitoria-system/internal/global/notify"
	"monitoria-system/internal/global/response"
	"monitoria-system/internal/model"
	"monitoria-system/internal/module/evaluation"
	"monitoria-system/internal/module/period"
	"monitoria-system/tools"

	"gorm.io/gorm"
)

const defaultStudentRejection = "Vaga recusada pelo estudante"

type CreateInput struct {
	ProjectID uint           `json:"project_id" binding:"required"`
	SlotType  model.SlotType `json:"slot_type" binding:"required"`
	Documents []string       `json:"documents"`
}

type EvaluateInput struct {
	DisciplineGrade float64 `json:"discipline_grade"`
	ExamGrade       float64 `json:"exam_grade"`
}

type SelectInput struct {
	Scholarship []uint `json:"scholarship"`
	Volunteer   []uint `json:"volunteer"`
}

// Create 依次检查：项目已批准、报名期开放、未重复报名、所选类型有名额；同时快照学业系数与课程成绩
func (s *Service) Create(ctx context.Context, a actor.Actor, in CreateInput) (*model.Application, error) {
	if err := a.Require(actor.ApplicationCreate); err != nil {
		return nil, err
	}
	if !in.SlotType.Valid() {
		return nil, response.ErrValidation.WithTips("报名类型只能是 SCHOLARSHIP 或 VOLUNTEER")
	}

	var app model.Application
	err := database.Serializable(ctx, s.db, func(tx *gorm.DB) error {
		st, err := studentOf(tx, a.UserID, false)
		if err != nil {
			return err
		}
		p, err := loadProject(tx, in.ProjectID, false)
		if err != nil {
			return err
		}
		if p.Status != model.ProjectApproved {
			return response.ErrBadRequest.WithTips("项目尚未批准，不能报名")
		}

		open, err := period.Open(ctx, tx, p.Year, p.Term, s.now().UTC())
		if err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		if open == nil {
			return response.ErrBadRequest.WithTips("当前不在报名期内")
		}

		var n int64
		if err := tx.Model(&model.Application{}).
			Where("student_id = ? AND project_id = ? AND period_id = ?", st.ID, p.ID, open.ID).
			Count(&n).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		if n > 0 {
			return response.ErrConflict.WithTips("已报名该项目")
		}

		switch {
		case in.SlotType == model.SlotScholarship && p.AllocatedScholarships <= 0:
			return response.ErrValidation.WithTips("该项目没有奖学金名额")
		case in.SlotType == model.SlotVolunteer && p.RequestedVolunteers <= 0:
			return response.ErrValidation.WithTips("该项目没有志愿者名额")
		}

		grade, err := s.disciplineGrade(ctx, tx, st.ID, p.ID)
		if err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}

		app = model.Application{
			StudentID:       st.ID,
			ProjectID:       p.ID,
			PeriodID:        open.ID,
			SlotType:        in.SlotType,
			Status:          model.ApplicationSubmitted,
			DisciplineGrade: grade,
			CR:              st.CR,
			Documents:       in.Documents,
		}
		if err := tx.Create(&app).Error; err != nil {
			if database.IsDuplicate(err) {
				return response.ErrConflict.WithTips("已报名该项目")
			}
			return response.ErrDatabase.WithOrigin(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("报名成功", "application_id", app.ID, "student_id", app.StudentID, "project_id", app.ProjectID, "slot", app.SlotType)
	return &app, nil
}

// disciplineGrade 按项目课程顺序取第一个能解析出的成绩
func (s *Service) disciplineGrade(ctx context.Context, tx *gorm.DB, studentID, projectID uint) (*float64, error) {
	var ids []uint
	if err := tx.Model(&model.ProjectDiscipline{}).
		Where("project_id = ?", projectID).Order("id").
		Pluck("discipline_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		g, err := evaluation.ResolveDisciplineGrade(ctx, tx, studentID, id)
		if err != nil || g != nil {
			return g, err
		}
	}
	return nil, nil
}

// Evaluate 项目负责人为 SUBMITTED 状态的报名评分
func (s *Service) Evaluate(ctx context.Context, a actor.Actor, id uint, in EvaluateInput) (*model.Application, error) {
	if err := a.Require(actor.ApplicationEvaluate); err != nil {
		return nil, err
	}
	if err := evaluation.ValidateGrade("课程成绩", in.DisciplineGrade); err != nil {
		return nil, err
	}
	if err := evaluation.ValidateGrade("选拔成绩", in.ExamGrade); err != nil {
		return nil, err
	}

	var app *model.Application
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		if app, err = loadApplication(tx, id, true); err != nil {
			return err
		}
		p, err := loadProject(tx, app.ProjectID, false)
		if err != nil {
			return err
		}
		if err := ownProject(tx, a, p); err != nil {
			return err
		}

		cr := 0.0
		if app.CR != nil {
			cr = *app.CR
		}
		final := evaluation.ComputeFinalGrade(in.DisciplineGrade, in.ExamGrade, cr)
		if err := setStatus(tx, app, []model.ApplicationStatus{model.ApplicationSubmitted}, model.ApplicationSubmitted, map[string]any{
			"discipline_grade": in.DisciplineGrade,
			"exam_grade":       in.ExamGrade,
			"final_grade":      final,
		}); err != nil {
			return err
		}
		app.DisciplineGrade, app.ExamGrade, app.FinalGrade = &in.DisciplineGrade, &in.ExamGrade, &final
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("报名已评分", "application_id", app.ID, "final_grade", *app.FinalGrade, "by", a.UserID)
	return app, nil
}

// Select 负责教师确定录取名单，其余 SUBMITTED 报名全部落选，在同一事务内完成
func (s *Service) Select(ctx context.Context, a actor.Actor, projectID uint, in SelectInput) ([]model.Application, error) {
	if err := a.Require(actor.ApplicationSelect); err != nil {
		return nil, err
	}
	scholarship := dedupe(in.Scholarship)
	volunteer := dedupe(in.Volunteer)
	for _, id := range scholarship {
		if slices.Contains(volunteer, id) {
			return nil, response.ErrValidation.WithTips(fmt.Sprintf("报名 #%d 不能同时录取为奖学金和志愿者", id))
		}
	}

	var apps []model.Application
	err := database.Serializable(ctx, s.db, func(tx *gorm.DB) error {
		p, err := loadProject(tx, projectID, true)
		if err != nil {
			return err
		}
		if err := ownProject(tx, a, p); err != nil {
			return err
		}
		if p.Status != model.ProjectApproved {
			return response.ErrBadRequest.WithTips("项目未批准")
		}
		if err := ensureQuota(tx, p, len(scholarship), len(volunteer)); err != nil {
			return err
		}

		apps = apps[:0]
		if err := lockFor(tx).Where("project_id = ? AND status = ?", p.ID, model.ApplicationSubmitted).
			Order("id").Find(&apps).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		pending := make(map[uint]bool, len(apps))
		for _, app := range apps {
			pending[app.ID] = true
		}
		for _, id := range slices.Concat(scholarship, volunteer) {
			if !pending[id] {
				return response.ErrValidation.WithTips(fmt.Sprintf("报名 #%d 不属于该项目或不是待录取状态", id))
			}
		}

		for i := range apps {
			app := &apps[i]
			to := model.ApplicationRejectedByProfessor
			switch {
			case slices.Contains(scholarship, app.ID):
				to = model.ApplicationSelectedScholarship
			case slices.Contains(volunteer, app.ID):
				to = model.ApplicationSelectedVolunteer
			}
			if err := setStatus(tx, app, []model.ApplicationStatus{model.ApplicationSubmitted}, to, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("录取结果已确定", "project_id", projectID, "scholarship", scholarship, "volunteer", volunteer, "by", a.UserID)
	s.notifySelection(ctx, apps)
	return apps, nil
}

func (s *Service) notifySelection(ctx context.Context, apps []model.Application) {
	for _, app := range apps {
		var st model.Student
		if err := s.db.WithContext(ctx).First(&st, app.StudentID).Error; err != nil {
			s.log.Error("查询学生失败", "error", err, "student_id", app.StudentID)
			continue
		}
		if st.Email == "" {
			continue
		}
		s.send(ctx, notify.TemplateSelectionResult, []string{st.Email}, map[string]any{
			"application_id": app.ID,
			"project_id":     app.ProjectID,
			"status":         app.Status,
		})
	}
}

// Accept 学生接受录取；奖学金岗位受每学期一个的限制，检查与写入在锁定学生记录的同一事务内
func (s *Service) Accept(ctx context.Context, a actor.Actor, id uint) (*model.Application, error) {
	if err := a.Require(actor.ApplicationDecide); err != nil {
		return nil, err
	}

	var app *model.Application
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		st, err := studentOf(tx, a.UserID, true)
		if err != nil {
			return err
		}
		if app, err = loadApplication(tx, id, true); err != nil {
			return err
		}
		if app.StudentID != st.ID {
			return response.ErrForbidden.WithTips("只能处理自己的报名")
		}
		to, ok := acceptedFrom[app.Status]
		if !ok {
			return response.ErrBadRequest.WithTips(fmt.Sprintf("报名状态为 %s，不能接受", app.Status))
		}
		p, err := loadProject(tx, app.ProjectID, true)
		if err != nil {
			return err
		}

		if to == model.ApplicationAcceptedScholarship {
			if err := ensureSingleScholarship(tx, st.ID, p.Year, p.Term, app.ID); err != nil {
				return err
			}
			accepted, err := occupied(tx, p.ID, []model.ApplicationStatus{model.ApplicationAcceptedScholarship}, app.ID)
			if err != nil {
				return err
			}
			if accepted >= p.AllocatedScholarships {
				return response.ErrBadRequest.WithTips("项目奖学金名额已满")
			}
		}
		if err := setStatus(tx, app, []model.ApplicationStatus{app.Status}, to, nil); err != nil {
			return err
		}

		start, end := p.Term.Bounds(p.Year)
		placement := model.Placement{
			ApplicationID: app.ID,
			StudentID:     st.ID,
			ProjectID:     p.ID,
			Type:          model.SlotVolunteer,
			StartDate:     start,
			EndDate:       end,
		}
		if to == model.ApplicationAcceptedScholarship {
			placement.Type = model.SlotScholarship
		}
		if err := tx.Create(&placement).Error; err != nil {
			if database.IsDuplicate(err) {
				return response.ErrConflict.WithTips("岗位已存在")
			}
			return response.ErrDatabase.WithOrigin(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("学生已接受录取", "application_id", app.ID, "status", app.Status, "by", a.UserID)
	return app, nil
}

// Reject 学生放弃录取，原因作为反馈对教师可见
func (s *Service) Reject(ctx context.Context, a actor.Actor, id uint, reason string) (*model.Application, error) {
	if err := a.Require(actor.ApplicationDecide); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultStudentRejection
	}

	var app *model.Application
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		st, err := studentOf(tx, a.UserID, false)
		if err != nil {
			return err
		}
		if app, err = loadApplication(tx, id, true); err != nil {
			return err
		}
		if app.StudentID != st.ID {
			return response.ErrForbidden.WithTips("只能处理自己的报名")
		}
		if !app.Selected() {
			return response.ErrBadRequest.WithTips(fmt.Sprintf("报名状态为 %s，不能放弃", app.Status))
		}
		if err := setStatus(tx, app, selected, model.ApplicationRejectedByStudent, map[string]any{"feedback": reason}); err != nil {
			return err
		}
		app.Feedback = reason
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("学生已放弃录取", "application_id", app.ID, "by", a.UserID)
	return app, nil
}

// Ranking 项目报名排名，负责教师或管理员可见
func (s *Service) Ranking(ctx context.Context, a actor.Actor, projectID uint) ([]model.Application, error) {
	if err := a.Require(actor.ApplicationRanking); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	p, err := loadProject(db, projectID, false)
	if err != nil {
		return nil, err
	}
	if err := ownProject(db, a, p); err != nil {
		return nil, err
	}

	var apps []model.Application
	if err := db.Preload("Student").Where("project_id = ?", p.ID).Find(&apps).Error; err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	SortByRank(apps)
	return apps, nil
}

// ExportRanking 排名导出为 xlsx
func (s *Service) ExportRanking(ctx context.Context, a actor.Actor, projectID uint) ([]byte, error) {
	apps, err := s.Ranking(ctx, a, projectID)
	if err != nil {
		return nil, err
	}
	data, err := tools.ExportToExcel("Ranking", rankingRows(apps))
	if err != nil {
		return nil, response.ErrInternal.WithOrigin(err)
	}
	return data, nil
}

// Mine 学生自己的报名
func (s *Service) Mine(ctx context.Context, a actor.Actor) ([]model.Application, error) {
	if !a.IsStudent() {
		return nil, response.ErrForbidden
	}
	db := s.db.WithContext(ctx)
	st, err := studentOf(db, a.UserID, false)
	if err != nil {
		return nil, err
	}
	var apps []model.Application
	if err := db.Where("student_id = ?", st.ID).Order("created_at DESC").Find(&apps).Error; err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return apps, nil
}

func (s *Service) Get(ctx context.Context, a actor.Actor, id uint) (*model.Application, error) {
	if err := a.Require(actor.ApplicationView); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	app, err := loadApplication(db, id, false)
	if err != nil {
		return nil, err
	}
	if a.IsStudent() {
		st, err := studentOf(db, a.UserID, false)
		if err != nil {
			return nil, err
		}
		if st.ID != app.StudentID {
			return nil, response.ErrForbidden.WithTips("只能查看自己的报名")
		}
		return app, nil
	}
	p, err := loadProject(db, app.ProjectID, false)
	if err != nil {
		return nil, err
	}
	if err := ownProject(db, a, p); err != nil {
		return nil, err
	}
	return app, nil
}

func dedupe(ids []uint) []uint {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
