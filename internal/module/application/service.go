package application

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"monitoria-system/internal/global/actor"
	"monitoria-system/internal/global/database"
	"monitoria-system/internal/global/logger"
	"monitoria-system/internal/global/notify"
	"monitoria-system/internal/global/response"
	"monitoria-system/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	db       *gorm.DB
	notifier notify.Notifier
	log      *slog.Logger
	now      func() time.Time
}

func NewService(db *gorm.DB, notifier notify.Notifier) *Service {
	return &Service{
		db:       db,
		notifier: notifier,
		log:      logger.New("Application"),
		now:      time.Now,
	}
}

var selected = []model.ApplicationStatus{
	model.ApplicationSelectedScholarship,
	model.ApplicationSelectedVolunteer,
}

// acceptedFrom 录取状态到接受状态
var acceptedFrom = map[model.ApplicationStatus]model.ApplicationStatus{
	model.ApplicationSelectedScholarship: model.ApplicationAcceptedScholarship,
	model.ApplicationSelectedVolunteer:   model.ApplicationAcceptedVolunteer,
}

func lockFor(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
}

func studentOf(tx *gorm.DB, userID uint, lock bool) (*model.Student, error) {
	if lock {
		tx = lockFor(tx)
	}
	var st model.Student
	if err := tx.Where("user_id = ?", userID).First(&st).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, response.ErrForbidden.WithTips("未找到学生档案")
		}
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &st, nil
}

func professorOf(tx *gorm.DB, userID uint) (*model.Professor, error) {
	var prof model.Professor
	if err := tx.Where("user_id = ?", userID).First(&prof).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, response.ErrForbidden.WithTips("未找到教师档案")
		}
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &prof, nil
}

func loadProject(tx *gorm.DB, id uint, lock bool) (*model.Project, error) {
	if lock {
		tx = lockFor(tx)
	}
	var p model.Project
	if err := tx.First(&p, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, response.ErrNotFound.WithTips("项目不存在")
		}
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &p, nil
}

func loadApplication(tx *gorm.DB, id uint, lock bool) (*model.Application, error) {
	if lock {
		tx = lockFor(tx)
	}
	var app model.Application
	if err := tx.First(&app, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, response.ErrNotFound.WithTips("报名不存在")
		}
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &app, nil
}

// ownProject 管理员放行，教师必须是项目负责人
func ownProject(tx *gorm.DB, a actor.Actor, p *model.Project) error {
	if a.IsAdmin() {
		return nil
	}
	prof, err := professorOf(tx, a.UserID)
	if err != nil {
		return err
	}
	if prof.ID != p.ProfessorID {
		return response.ErrForbidden.WithTips("只有项目负责人可以操作")
	}
	return nil
}

// setStatus 以源状态为条件更新报名状态
func setStatus(tx *gorm.DB, app *model.Application, from []model.ApplicationStatus, to model.ApplicationStatus, extra map[string]any) error {
	if !slices.Contains(from, app.Status) {
		return response.ErrBadRequest.WithTips(fmt.Sprintf("报名状态为 %s，不能变为 %s", app.Status, to))
	}
	updates := map[string]any{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := tx.Model(&model.Application{}).
		Where("id = ? AND status IN ?", app.ID, from).
		Updates(updates)
	if res.Error != nil {
		return response.ErrDatabase.WithOrigin(res.Error)
	}
	if res.RowsAffected == 0 {
		return response.ErrBadRequest.WithTips("报名状态已变化，请刷新后重试")
	}
	app.Status = to
	return nil
}

func (s *Service) send(ctx context.Context, template string, recipients []string, data map[string]any) {
	if err := s.notifier.Send(ctx, template, recipients, data); err != nil {
		s.log.Error("发送报名通知失败", "error", err, "template", template)
	}
}
