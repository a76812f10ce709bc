package project

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"monitoria-system/config"
	"monitoria-system/internal/global/actor"
	"monitoria-system/internal/global/database"
	"monitoria-system/internal/global/logger"
	"monitoria-system/internal/global/notify"
	"monitoria-system/internal/global/renderer"
	"monitoria-system/internal/global/response"
	"monitoria-system/internal/global/storage"
	"monitoria-system/internal/model"
	"monitoria-system/internal/module/period"
	"monitoria-system/tools"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	db          *gorm.DB
	docs        renderer.Renderer
	store       storage.ObjectStore
	notifier    notify.Notifier
	log         *slog.Logger
	now         func() time.Time
	downloadTTL time.Duration
}

func NewService(db *gorm.DB, docs renderer.Renderer, store storage.ObjectStore, notifier notify.Notifier) *Service {
	return &Service{
		db:          db,
		docs:        docs,
		store:       store,
		notifier:    notifier,
		log:         logger.New("Project"),
		now:         time.Now,
		downloadTTL: config.Get().Workflow.DownloadURLTTL,
	}
}

func (s *Service) load(tx *gorm.DB, id uint, lock bool) (*model.Project, error) {
	if lock {
		tx = tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	var p model.Project
	if err := tx.Preload("Disciplines").First(&p, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, response.ErrNotFound.WithTips("项目不存在")
		}
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &p, nil
}

// professorOf 当前教师的档案，没有档案的账号不能以教师身份操作
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

// authorize 管理员放行，教师必须是项目负责人
func authorize(tx *gorm.DB, a actor.Actor, p *model.Project) error {
	if a.IsAdmin() {
		return nil
	}
	if !a.IsProfessor() {
		return response.ErrForbidden
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

// move 以当前持久化状态为条件更新，状态被并发修改时返回 ErrBadRequest
func (s *Service) move(tx *gorm.DB, p *model.Project, act action, to model.ProjectStatus, updates map[string]any) error {
	if !allowedFrom(act, p.Status) {
		return response.ErrBadRequest.WithTips(fmt.Sprintf("项目状态为 %s，不能执行 %s", p.Status, act))
	}
	if updates == nil {
		updates = map[string]any{}
	}
	updates["status"] = to

	res := tx.Model(&model.Project{}).
		Where("id = ? AND status IN ?", p.ID, sources[act]).
		Updates(updates)
	if res.Error != nil {
		return response.ErrDatabase.WithOrigin(res.Error)
	}
	if res.RowsAffected == 0 {
		return response.ErrBadRequest.WithTips("项目状态已变化，请刷新后重试")
	}
	p.Status = to
	return nil
}

// collectiveConflict 同一课程、同一学年学期是否已有已批准的集体项目
func collectiveConflict(tx *gorm.DB, year int, term model.Term, disciplineIDs []uint, excludeID uint) error {
	if len(disciplineIDs) == 0 {
		return nil
	}
	q := tx.Model(&model.Project{}).
		Joins("JOIN project_discipline ON project_discipline.project_id = project.id").
		Where("project.type = ? AND project.status = ?", model.ProposalCollective, model.ProjectApproved).
		Where("project.year = ? AND project.term = ?", year, term).
		Where("project_discipline.discipline_id IN ?", disciplineIDs)
	if excludeID != 0 {
		q = q.Where("project.id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	if n > 0 {
		return response.ErrConflict.WithTips("该课程本学期已有已批准的集体项目，不能再申请个人项目")
	}
	return nil
}

// individualConflict 同一课程、同一学年学期是否存在未驳回的个人项目，集体项目批准前检查
func individualConflict(tx *gorm.DB, year int, term model.Term, disciplineIDs []uint, excludeID uint) error {
	if len(disciplineIDs) == 0 {
		return nil
	}
	var n int64
	err := tx.Model(&model.Project{}).
		Joins("JOIN project_discipline ON project_discipline.project_id = project.id").
		Where("project.type = ? AND project.status <> ?", model.ProposalIndividual, model.ProjectRejected).
		Where("project.year = ? AND project.term = ?", year, term).
		Where("project_discipline.discipline_id IN ?", disciplineIDs).
		Where("project.id <> ?", excludeID).
		Count(&n).Error
	if err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	if n > 0 {
		return response.ErrConflict.WithTips("该课程本学期已有个人项目，不能批准集体项目")
	}
	return nil
}

// approvalConflict 个人项目与已批准的集体项目在同一课程同一学期互斥，两个方向都要检查
func approvalConflict(tx *gorm.DB, p *model.Project) error {
	if p.Type == model.ProposalCollective {
		return individualConflict(tx, p.Year, p.Term, p.DisciplineIDs(), p.ID)
	}
	return collectiveConflict(tx, p.Year, p.Term, p.DisciplineIDs(), p.ID)
}

// ensureScholarshipBudget 同一学年学期已批准项目的奖学金名额之和不能超过报名期配置的总数
// 需要在 SERIALIZABLE 事务中调用
func ensureScholarshipBudget(ctx context.Context, tx *gorm.DB, p *model.Project, count int) error {
	if count == 0 {
		return nil
	}
	limit, err := period.ScholarshipLimit(ctx, tx, p.Year, p.Term)
	if err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	if limit == nil {
		return response.ErrValidation.WithTips(fmt.Sprintf("%d/%s 未配置奖学金总数", p.Year, p.Term))
	}

	var used int64
	err = tx.Model(&model.Project{}).
		Where("year = ? AND term = ? AND status = ? AND id <> ?", p.Year, p.Term, model.ProjectApproved, p.ID).
		Select("COALESCE(SUM(allocated_scholarships), 0)").
		Scan(&used).Error
	if err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	if int(used)+count > *limit {
		return response.ErrValidation.WithTips(fmt.Sprintf("奖学金总数为 %d，已分配 %d，剩余不足 %d", *limit, used, count))
	}
	return nil
}

func (s *Service) adminEmails(ctx context.Context) []string {
	var emails []string
	if err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("role = ?", model.RoleAdmin).Pluck("email", &emails).Error; err != nil {
		s.log.Error("查询管理员邮箱失败", "error", err)
	}
	return emails
}

func (s *Service) professorEmail(ctx context.Context, professorID uint) []string {
	var prof model.Professor
	if err := s.db.WithContext(ctx).First(&prof, professorID).Error; err != nil {
		s.log.Error("查询教师邮箱失败", "error", err, "professor_id", professorID)
		return nil
	}
	if prof.Email == "" {
		return nil
	}
	return []string{prof.Email}
}

// notify 通知失败只记日志，不影响已提交的状态
func (s *Service) notify(ctx context.Context, template string, recipients []string, p *model.Project) {
	data := map[string]any{
		"project_id": p.ID,
		"title":      p.Title,
		"status":     p.Status,
		"feedback":   p.AdminFeedback,
	}
	if err := s.notifier.Send(ctx, template, recipients, data); err != nil {
		s.log.Error("发送项目通知失败", "error", err, "template", template, "project_id", p.ID)
	}
}

// renderSigned 渲染并保存签名后的项目 PDF，返回对象名
func (s *Service) renderSigned(ctx context.Context, tx *gorm.DB, p *model.Project) (string, error) {
	var prof model.Professor
	if err := tx.First(&prof, p.ProfessorID).Error; err != nil {
		return "", response.ErrDatabase.WithOrigin(err)
	}
	var disciplines []model.Discipline
	if ids := p.DisciplineIDs(); len(ids) > 0 {
		if err := tx.Where("id IN ?", ids).Order("code").Find(&disciplines).Error; err != nil {
			return "", response.ErrDatabase.WithOrigin(err)
		}
	}

	pdf, err := s.docs.Render(ctx, renderer.TemplateProjectProposal, proposalDocument(p, &prof, disciplines))
	if err != nil {
		return "", response.ErrUpstream.WithTips("生成项目 PDF 失败").WithOrigin(err)
	}
	objectName := storage.ObjectName("projects", p.ID, ".pdf")
	if err := s.store.Put(ctx, objectName, pdf, tools.PDFContentType); err != nil {
		return "", response.ErrUpstream.WithTips("保存项目 PDF 失败").WithOrigin(err)
	}
	return objectName, nil
}

func proposalDocument(p *model.Project, prof *model.Professor, disciplines []model.Discipline) map[string]any {
	codes := make([]string, 0, len(disciplines))
	for _, d := range disciplines {
		codes = append(codes, d.Code+" - "+d.Name)
	}
	return map[string]any{
		"title":                  p.Title,
		"description":            p.Description,
		"professor":              prof.Name,
		"year":                   p.Year,
		"term":                   p.Term,
		"type":                   p.Type,
		"disciplines":            codes,
		"requested_scholarships": p.RequestedScholarships,
		"requested_volunteers":   p.RequestedVolunteers,
		"weekly_hours":           p.WeeklyHours,
		"weeks":                  p.Weeks,
		"target_audience":        p.TargetAudience,
		"professor_signature":    p.ProfessorSignature,
		"professor_signed_at":    p.ProfessorSignedAt,
		"admin_signature":        p.AdminSignature,
		"admin_signed_at":        p.AdminSignedAt,
	}
}
