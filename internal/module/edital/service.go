package edital

import (
	"context"
	"log/slog"
	"time"

	"monitoria-system/config"
	"monitoria-system/internal/global/database"
	"monitoria-system/internal/global/logger"
	"monitoria-system/internal/global/notify"
	"monitoria-system/internal/global/renderer"
	"monitoria-system/internal/global/response"
	"monitoria-system/internal/global/storage"
	"monitoria-system/internal/model"
	"monitoria-system/tools"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	db            *gorm.DB
	docs          renderer.Renderer
	store         storage.ObjectStore
	notifier      notify.Notifier
	log           *slog.Logger
	now           func() time.Time
	downloadTTL   time.Duration
	publicBaseURL string
}

func NewService(db *gorm.DB, docs renderer.Renderer, store storage.ObjectStore, notifier notify.Notifier) *Service {
	cfg := config.Get().Workflow
	return &Service{
		db:            db,
		docs:          docs,
		store:         store,
		notifier:      notifier,
		log:           logger.New("Edital"),
		now:           time.Now,
		downloadTTL:   cfg.DownloadURLTTL,
		publicBaseURL: cfg.PublicBaseURL,
	}
}

func lockFor(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
}

func load(tx *gorm.DB, id uint, lock bool) (*model.Edital, error) {
	if lock {
		tx = lockFor(tx)
	}
	var e model.Edital
	if err := tx.First(&e, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, response.ErrNotFound.WithTips("公告不存在")
		}
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &e, nil
}

func (s *Service) userEmail(ctx context.Context, userID uint) []string {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, userID).Error; err != nil {
		s.log.Error("查询用户邮箱失败", "error", err, "user_id", userID)
		return nil
	}
	return []string{u.Email}
}

func (s *Service) send(ctx context.Context, template string, recipients []string, data map[string]any) {
	if len(recipients) == 0 {
		return
	}
	if err := s.notifier.Send(ctx, template, recipients, data); err != nil {
		s.log.Error("发送公告通知失败", "error", err, "template", template)
	}
}

// renderSigned 渲染带系主任签名的公告 PDF 并保存，返回对象名
func (s *Service) renderSigned(ctx context.Context, e *model.Edital) (string, error) {
	var period model.EnrollmentPeriod
	if err := s.db.WithContext(ctx).First(&period, e.PeriodID).Error; err != nil {
		return "", response.ErrDatabase.WithOrigin(err)
	}
	pdf, err := s.docs.Render(ctx, renderer.TemplateEdital, map[string]any{
		"number":            e.Number,
		"type":              e.Type,
		"title":             e.Title,
		"description":       e.Description,
		"scholarship_value": e.ScholarshipValue,
		"exam_dates":        e.ExamDates,
		"result_date":       e.ResultDate,
		"year":              period.Year,
		"term":              period.Term,
		"enrollment_start":  period.StartAt,
		"enrollment_end":    period.EndAt,
		"chief_name":        e.ChiefName,
		"chief_signature":   e.ChiefSignature,
		"chief_signed_at":   e.ChiefSignedAt,
	})
	if err != nil {
		return "", response.ErrUpstream.WithTips("生成公告 PDF 失败").WithOrigin(err)
	}
	objectName := storage.ObjectName("editais", e.ID, ".pdf")
	if err := s.store.Put(ctx, objectName, pdf, tools.PDFContentType); err != nil {
		return "", response.ErrUpstream.WithTips("保存公告 PDF 失败").WithOrigin(err)
	}
	return objectName, nil
}
