package project

import (
	"context"
	"slices"
	"strings"

	"monitoria-system/internal/global/actor"
	"monitoria-system/internal/global/database"
	"monitoria-system/internal/global/notify"
	"monitoria-system/internal/global/optional"
	"monitoria-system/internal/global/response"
	"monitoria-system/internal/model"

	"gorm.io/gorm"
)

type CreateInput struct {
	ProfessorID           *uint              `json:"professor_id"` // 管理员代建时必填
	DepartmentID          uint               `json:"department_id"`
	Title                 string             `json:"title" binding:"required"`
	Description           string             `json:"description"`
	Year                  int                `json:"year" binding:"required"`
	Term                  model.Term         `json:"term" binding:"required"`
	Type                  model.ProposalType `json:"type" binding:"required"`
	RequestedScholarships int                `json:"requested_scholarships" binding:"min=0"`
	RequestedVolunteers   int                `json:"requested_volunteers" binding:"min=0"`
	WeeklyHours           int                `json:"weekly_hours" binding:"min=0"`
	Weeks                 int                `json:"weeks" binding:"min=0"`
	TargetAudience        string             `json:"target_audience"`
	DisciplineIDs         []uint             `json:"discipline_ids"`
}

type UpdateInput struct {
	Title                 optional.Value[string] `json:"title"`
	Description           optional.Value[string] `json:"description"`
	RequestedScholarships optional.Value[int]    `json:"requested_scholarships"`
	RequestedVolunteers   optional.Value[int]    `json:"requested_volunteers"`
	WeeklyHours           optional.Value[int]    `json:"weekly_hours"`
	Weeks                 optional.Value[int]    `json:"weeks"`
	TargetAudience        optional.Value[string] `json:"target_audience"`
	DisciplineIDs         optional.Value[[]uint] `json:"discipline_ids"`
}

type ApproveInput struct {
	ScholarshipCount *int    `json:"scholarship_count"`
	Feedback         *string `json:"feedback"`
}

func dedupe(ids []uint) []uint {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func checkSlots(scholarships, volunteers int) error {
	if scholarships < 0 || volunteers < 0 {
		return response.ErrValidation.WithTips("名额不能为负数")
	}
	if scholarships+volunteers == 0 {
		return response.ErrValidation.WithTips("至少申请一个奖学金或志愿者名额")
	}
	return nil
}

func checkDisciplines(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return response.ErrValidation.WithTips("项目至少关联一门课程")
	}
	var n int64
	if err := tx.Model(&model.Discipline{}).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	if int(n) != len(ids) {
		return response.ErrNotFound.WithTips("课程不存在")
	}
	return nil
}

// Create 教师为自己创建草稿；管理员代建时项目等待教师签名
func (s *Service) Create(ctx context.Context, a actor.Actor, in CreateInput) (*model.Project, error) {
	if err := a.Require(actor.ProjectCreate); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	switch {
	case in.Title == "":
		return nil, response.ErrValidation.WithTips("标题不能为空")
	case in.Year <= 0:
		return nil, response.ErrValidation.WithTips("学年无效")
	case !in.Term.Valid():
		return nil, response.ErrValidation.WithTips("学期无效")
	case !in.Type.Valid():
		return nil, response.ErrValidation.WithTips("项目类型只能是 INDIVIDUAL 或 COLLECTIVE")
	}
	if err := checkSlots(in.RequestedScholarships, in.RequestedVolunteers); err != nil {
		return nil, err
	}
	disciplineIDs := dedupe(in.DisciplineIDs)

	p := model.Project{
		Title:                 in.Title,
		Description:           in.Description,
		DepartmentID:          in.DepartmentID,
		Year:                  in.Year,
		Term:                  in.Term,
		Type:                  in.Type,
		RequestedScholarships: in.RequestedScholarships,
		RequestedVolunteers:   in.RequestedVolunteers,
		WeeklyHours:           in.WeeklyHours,
		Weeks:                 in.Weeks,
		TargetAudience:        in.TargetAudience,
	}

	err := database.Serializable(ctx, s.db, func(tx *gorm.DB) error {
		var prof *model.Professor
		var err error
		if a.IsAdmin() {
			if in.ProfessorID == nil {
				return response.ErrValidation.WithTips("管理员代建项目需指定负责教师")
			}
			prof = &model.Professor{}
			if err := tx.First(prof, *in.ProfessorID).Error; err != nil {
				if database.IsNotFound(err) {
					return response.ErrNotFound.WithTips("教师不存在")
				}
				return response.ErrDatabase.WithOrigin(err)
			}
			p.Status = model.ProjectPendingProfessorSignature
		} else {
			if prof, err = professorOf(tx, a.UserID); err != nil {
				return err
			}
			p.Status = model.ProjectDraft
		}
		p.ProfessorID = prof.ID
		if p.DepartmentID == 0 {
			p.DepartmentID = prof.DepartmentID
		}

		if err := checkDisciplines(tx, disciplineIDs); err != nil {
			return err
		}
		if p.Type == model.ProposalIndividual {
			if err := collectiveConflict(tx, p.Year, p.Term, disciplineIDs, 0); err != nil {
				return err
			}
		}

		p.ID = 0
		p.Disciplines = p.Disciplines[:0]
		for _, id := range disciplineIDs {
			p.Disciplines = append(p.Disciplines, model.ProjectDiscipline{DisciplineID: id})
		}
		if err := tx.Create(&p).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("项目创建成功", "project_id", p.ID, "professor_id", p.ProfessorID, "status", p.Status, "by", a.UserID)
	return &p, nil
}

// Update 部分更新；负责教师只能在草稿或待签名时修改，管理员可在终态前修改
func (s *Service) Update(ctx context.Context, a actor.Actor, id uint, in UpdateInput) (*model.Project, error) {
	if err := a.Require(actor.ProjectUpdate); err != nil {
		return nil, err
	}

	var p *model.Project
	err := database.Serializable(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		if p, err = s.load(tx, id, true); err != nil {
			return err
		}
		if err := authorize(tx, a, p); err != nil {
			return err
		}
		if a.IsProfessor() && !allowedFrom(actOwnerEdit, p.Status) {
			return response.ErrBadRequest.WithTips("项目已提交，不能修改")
		}
		if terminal(p.Status) {
			return response.ErrBadRequest.WithTips("项目已结束审批，不能修改")
		}

		updates := map[string]any{}
		if in.Title.Set {
			title := strings.TrimSpace(in.Title.Value)
			if title == "" {
				return response.ErrValidation.WithTips("标题不能为空")
			}
			p.Title, updates["title"] = title, title
		}
		if in.Description.Set {
			p.Description, updates["description"] = in.Description.Value, in.Description.Value
		}
		if in.TargetAudience.Set {
			p.TargetAudience, updates["target_audience"] = in.TargetAudience.Value, in.TargetAudience.Value
		}
		if in.WeeklyHours.Set {
			p.WeeklyHours, updates["weekly_hours"] = in.WeeklyHours.Value, in.WeeklyHours.Value
		}
		if in.Weeks.Set {
			p.Weeks, updates["weeks"] = in.Weeks.Value, in.Weeks.Value
		}
		if in.RequestedScholarships.Set {
			p.RequestedScholarships, updates["requested_scholarships"] = in.RequestedScholarships.Value, in.RequestedScholarships.Value
		}
		if in.RequestedVolunteers.Set {
			p.RequestedVolunteers, updates["requested_volunteers"] = in.RequestedVolunteers.Value, in.RequestedVolunteers.Value
		}
		if err := checkSlots(p.RequestedScholarships, p.RequestedVolunteers); err != nil {
			return err
		}

		if in.DisciplineIDs.Set {
			ids := dedupe(in.DisciplineIDs.Value)
			if err := checkDisciplines(tx, ids); err != nil {
				return err
			}
			if p.Type == model.ProposalIndividual {
				if err := collectiveConflict(tx, p.Year, p.Term, ids, p.ID); err != nil {
					return err
				}
			}
			if err := tx.Where("project_id = ?", p.ID).Delete(&model.ProjectDiscipline{}).Error; err != nil {
				return response.ErrDatabase.WithOrigin(err)
			}
			links := make([]model.ProjectDiscipline, 0, len(ids))
			for _, did := range ids {
				links = append(links, model.ProjectDiscipline{ProjectID: p.ID, DisciplineID: did})
			}
			if err := tx.Create(&links).Error; err != nil {
				return response.ErrDatabase.WithOrigin(err)
			}
			p.Disciplines = links
		}

		if len(updates) == 0 {
			return nil
		}
		res := tx.Model(&model.Project{}).Where("id = ? AND status = ?", p.ID, p.Status).Updates(updates)
		if res.Error != nil {
			return response.ErrDatabase.WithOrigin(res.Error)
		}
		if res.RowsAffected == 0 {
			return response.ErrBadRequest.WithTips("项目状态已变化，请刷新后重试")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("项目更新成功", "project_id", p.ID, "by", a.UserID)
	return p, nil
}

// Submit 草稿或待教师签名 -> 已提交
func (s *Service) Submit(ctx context.Context, a actor.Actor, id uint) (*model.Project, error) {
	if err := a.Require(actor.ProjectSubmit); err != nil {
		return nil, err
	}
	var p *model.Project
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		if p, err = s.load(tx, id, true); err != nil {
			return err
		}
		if err := authorize(tx, a, p); err != nil {
			return err
		}
		return s.move(tx, p, actSubmit, model.ProjectSubmitted, nil)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("项目已提交", "project_id", p.ID, "by", a.UserID)
	s.notify(ctx, notify.TemplateProjectSubmitted, s.adminEmails(ctx), p)
	return p, nil
}

// SignAsProfessor 教师签名并提交；签名 PDF 必须生成成功，否则整体回滚
func (s *Service) SignAsProfessor(ctx context.Context, a actor.Actor, id uint, signature string) (*model.Project, error) {
	if err := a.Require(actor.ProjectSignProfessor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(signature) == "" {
		return nil, response.ErrValidation.WithTips("签名不能为空")
	}

	var p *model.Project
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		if p, err = s.load(tx, id, true); err != nil {
			return err
		}
		if err := authorize(tx, a, p); err != nil {
			return err
		}
		signedAt := s.now().UTC()
		if err := s.move(tx, p, actSignProfessor, model.ProjectSubmitted, map[string]any{
			"professor_signature": signature,
			"professor_signed_at": signedAt,
		}); err != nil {
			return err
		}
		p.ProfessorSignature, p.ProfessorSignedAt = signature, &signedAt

		objectName, err := s.renderSigned(ctx, tx, p)
		if err != nil {
			return err
		}
		if err := tx.Model(&model.Project{}).Where("id = ?", p.ID).Update("signed_document", objectName).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		p.SignedDocument = objectName
		return nil
	})
	if err != nil {
		s.log.Error("教师签名失败", "error", err, "project_id", id, "by", a.UserID)
		return nil, err
	}

	s.log.Info("教师已签名", "project_id", p.ID, "document", p.SignedDocument)
	s.notify(ctx, notify.TemplateProjectSubmitted, s.adminEmails(ctx), p)
	return p, nil
}

// Approve 已提交 -> 已批准，可同时分配奖学金名额
func (s *Service) Approve(ctx context.Context, a actor.Actor, id uint, in ApproveInput) (*model.Project, error) {
	if err := a.Require(actor.ProjectApprove); err != nil {
		return nil, err
	}
	if in.ScholarshipCount != nil && *in.ScholarshipCount < 0 {
		return nil, response.ErrValidation.WithTips("奖学金名额不能为负数")
	}

	var p *model.Project
	err := database.Serializable(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		if p, err = s.load(tx, id, true); err != nil {
			return err
		}
		updates := map[string]any{}
		if in.ScholarshipCount != nil {
			updates["allocated_scholarships"] = *in.ScholarshipCount
		}
		if in.Feedback != nil {
			updates["admin_feedback"] = *in.Feedback
		}
		if allowedFrom(actApprove, p.Status) {
			if err := approvalConflict(tx, p); err != nil {
				return err
			}
			if in.ScholarshipCount != nil {
				if err := ensureScholarshipBudget(ctx, tx, p, *in.ScholarshipCount); err != nil {
					return err
				}
			}
		}
		if err := s.move(tx, p, actApprove, model.ProjectApproved, updates); err != nil {
			return err
		}
		if in.ScholarshipCount != nil {
			p.AllocatedScholarships = *in.ScholarshipCount
		}
		if in.Feedback != nil {
			p.AdminFeedback = *in.Feedback
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("项目已批准", "project_id", p.ID, "allocated_scholarships", p.AllocatedScholarships, "by", a.UserID)
	s.notify(ctx, notify.TemplateProjectApproved, s.professorEmail(ctx, p.ProfessorID), p)
	return p, nil
}

// Reject 已提交 -> 已驳回，必须给出意见
func (s *Service) Reject(ctx context.Context, a actor.Actor, id uint, feedback string) (*model.Project, error) {
	if err := a.Require(actor.ProjectReject); err != nil {
		return nil, err
	}
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return nil, response.ErrValidation.WithTips("驳回必须填写意见")
	}

	var p *model.Project
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		if p, err = s.load(tx, id, true); err != nil {
			return err
		}
		if err := s.move(tx, p, actReject, model.ProjectRejected, map[string]any{"admin_feedback": feedback}); err != nil {
			return err
		}
		p.AdminFeedback = feedback
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("项目已驳回", "project_id", p.ID, "by", a.UserID)
	s.notify(ctx, notify.TemplateProjectRejected, s.professorEmail(ctx, p.ProfessorID), p)
	return p, nil
}

// SignAsAdmin 管理员签名即批准；签名 PDF 生成失败只记录日志
func (s *Service) SignAsAdmin(ctx context.Context, a actor.Actor, id uint, signature string) (*model.Project, error) {
	if err := a.Require(actor.ProjectSignAdmin); err != nil {
		return nil, err
	}
	if strings.TrimSpace(signature) == "" {
		return nil, response.ErrValidation.WithTips("签名不能为空")
	}

	var p *model.Project
	err := database.Serializable(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		if p, err = s.load(tx, id, true); err != nil {
			return err
		}
		if allowedFrom(actSignAdmin, p.Status) {
			if err := approvalConflict(tx, p); err != nil {
				return err
			}
		}
		signedAt := s.now().UTC()
		if err := s.move(tx, p, actSignAdmin, model.ProjectApproved, map[string]any{
			"admin_signature": signature,
			"admin_signed_at": signedAt,
		}); err != nil {
			return err
		}
		p.AdminSignature, p.AdminSignedAt = signature, &signedAt
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("管理员已签名", "project_id", p.ID, "by", a.UserID)

	if objectName, err := s.renderSigned(ctx, s.db.WithContext(ctx), p); err != nil {
		s.log.Error("生成管理员签名 PDF 失败", "error", err, "project_id", p.ID)
	} else if err := s.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", p.ID).
		Update("signed_document", objectName).Error; err != nil {
		s.log.Error("保存签名 PDF 引用失败", "error", err, "project_id", p.ID)
	} else {
		p.SignedDocument = objectName
	}

	s.notify(ctx, notify.TemplateProjectApproved, s.professorEmail(ctx, p.ProfessorID), p)
	return p, nil
}

// AllocateScholarships 调整已批准项目的奖学金名额
func (s *Service) AllocateScholarships(ctx context.Context, a actor.Actor, id uint, count int) (*model.Project, error) {
	if err := a.Require(actor.ProjectAllocate); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, response.ErrValidation.WithTips("奖学金名额不能为负数")
	}
	var p *model.Project
	err := database.Serializable(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		if p, err = s.load(tx, id, true); err != nil {
			return err
		}
		if allowedFrom(actAllocate, p.Status) {
			if err := ensureScholarshipBudget(ctx, tx, p, count); err != nil {
				return err
			}
		}
		if err := s.move(tx, p, actAllocate, model.ProjectApproved, map[string]any{"allocated_scholarships": count}); err != nil {
			return err
		}
		p.AllocatedScholarships = count
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("奖学金名额已分配", "project_id", p.ID, "count", count, "by", a.UserID)
	return p, nil
}

// Delete 软删除；教师只能删除草稿，管理员不限状态
func (s *Service) Delete(ctx context.Context, a actor.Actor, id uint) error {
	if err := a.Require(actor.ProjectDelete); err != nil {
		return err
	}
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		p, err := s.load(tx, id, true)
		if err != nil {
			return err
		}
		if err := authorize(tx, a, p); err != nil {
			return err
		}

		q := tx.Where("id = ?", p.ID)
		if !a.IsAdmin() {
			if !allowedFrom(actOwnerDelete, p.Status) {
				return response.ErrBadRequest.WithTips("只能删除草稿状态的项目")
			}
			q = q.Where("status IN ?", sources[actOwnerDelete])
		}
		res := q.Delete(&model.Project{})
		if res.Error != nil {
			return response.ErrDatabase.WithOrigin(res.Error)
		}
		if res.RowsAffected == 0 {
			return response.ErrBadRequest.WithTips("项目状态已变化，请刷新后重试")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("项目已删除", "project_id", id, "by", a.UserID)
	return nil
}

// Get 学生只能看到已批准的项目
func (s *Service) Get(ctx context.Context, a actor.Actor, id uint) (*model.Project, error) {
	if err := a.Require(actor.ProjectView); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	p, err := s.load(db, id, false)
	if err != nil {
		return nil, err
	}
	if a.IsStudent() {
		if p.Status != model.ProjectApproved {
			return nil, response.ErrNotFound.WithTips("项目不存在")
		}
		return p, nil
	}
	if err := authorize(db, a, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SignedDocumentURL 最新签名 PDF 的限时下载链接
func (s *Service) SignedDocumentURL(ctx context.Context, a actor.Actor, id uint) (string, error) {
	db := s.db.WithContext(ctx)
	p, err := s.load(db, id, false)
	if err != nil {
		return "", err
	}
	if err := authorize(db, a, p); err != nil {
		return "", err
	}
	if p.SignedDocument == "" {
		return "", response.ErrNotFound.WithTips("项目尚未生成签名文件")
	}
	url, err := s.store.PresignedGet(ctx, p.SignedDocument, s.downloadTTL)
	if err != nil {
		return "", response.ErrUpstream.WithOrigin(err)
	}
	return url, nil
}
