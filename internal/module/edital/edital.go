package edital

import (
	"context"
	"fmt"
	"strings"
	"time"

	"monitoria-system/internal/global/actor"
	"monitoria-system/internal/global/database"
	"monitoria-system/internal/global/optional"
	"monitoria-system/internal/global/response"
	"monitoria-system/internal/global/storage"
	"monitoria-system/internal/model"

	"gorm.io/gorm"
)

type CreateInput struct {
	Type             model.EditalType `json:"type" binding:"required"`
	Number           string           `json:"number" binding:"required"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	ScholarshipValue float64          `json:"scholarship_value"`
	ExamDates        []string         `json:"exam_dates"`
	ResultDate       *time.Time       `json:"result_date"`
	PeriodID         uint             `json:"period_id" binding:"required"`
}

// UpdateInput 未出现的字段保持不变，显式 null 清空
type UpdateInput struct {
	Number           optional.Value[string]    `json:"number"`
	Title            optional.Value[string]    `json:"title"`
	Description      optional.Value[string]    `json:"description"`
	ScholarshipValue optional.Value[float64]   `json:"scholarship_value"`
	ExamDates        optional.Value[[]string]  `json:"exam_dates"`
	ResultDate       optional.Value[time.Time] `json:"result_date"`
}

func duplicateNumber(number string) error {
	return response.ErrConflict.WithTips(fmt.Sprintf("公告编号 %s 已存在", number))
}

func numberTaken(tx *gorm.DB, number string, excludeID uint) (bool, error) {
	var n int64
	err := tx.Model(&model.Edital{}).Where("number = ? AND id <> ?", number, excludeID).Count(&n).Error
	return n > 0, err
}

func (s *Service) Create(ctx context.Context, a actor.Actor, in CreateInput) (*model.Edital, error) {
	if err := a.Require(actor.EditalManage); err != nil {
		return nil, err
	}
	in.Number = strings.TrimSpace(in.Number)
	if !in.Type.Valid() {
		return nil, response.ErrValidation.WithTips("公告类型只能是 INTERNAL 或 EXTERNAL")
	}
	if in.Number == "" {
		return nil, response.ErrValidation.WithTips("公告编号不能为空")
	}
	if in.ScholarshipValue < 0 {
		return nil, response.ErrValidation.WithTips("奖学金金额不能为负数")
	}

	e := model.Edital{
		Type:             in.Type,
		Number:           in.Number,
		Title:            strings.TrimSpace(in.Title),
		Description:      strings.TrimSpace(in.Description),
		ScholarshipValue: in.ScholarshipValue,
		ExamDates:        in.ExamDates,
		ResultDate:       in.ResultDate,
		CreatedBy:        a.UserID,
		PeriodID:         in.PeriodID,
	}
	err := database.Serializable(ctx, s.db, func(tx *gorm.DB) error {
		var period model.EnrollmentPeriod
		if err := tx.First(&period, in.PeriodID).Error; err != nil {
			if database.IsNotFound(err) {
				return response.ErrNotFound.WithTips("报名期不存在")
			}
			return response.ErrDatabase.WithOrigin(err)
		}
		var n int64
		if err := tx.Model(&model.Edital{}).Where("period_id = ?", in.PeriodID).Count(&n).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		if n > 0 {
			return response.ErrConflict.WithTips("该报名期已有公告")
		}
		taken, err := numberTaken(tx, in.Number, 0)
		if err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		if taken {
			return duplicateNumber(in.Number)
		}
		e.ID = 0
		if err := tx.Create(&e).Error; err != nil {
			if database.IsDuplicate(err) {
				return duplicateNumber(in.Number)
			}
			return response.ErrDatabase.WithOrigin(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("公告已创建", "edital_id", e.ID, "number", e.Number, "period_id", e.PeriodID, "by", a.UserID)
	return &e, nil
}

// Update 已发布的公告不能修改，需先撤回
func (s *Service) Update(ctx context.Context, a actor.Actor, id uint, in UpdateInput) (*model.Edital, error) {
	if err := a.Require(actor.EditalManage); err != nil {
		return nil, err
	}
	if in.Number.Set && (in.Number.Null || strings.TrimSpace(in.Number.Value) == "") {
		return nil, response.ErrValidation.WithTips("公告编号不能为空")
	}
	if v := in.ScholarshipValue.Ptr(); v != nil && *v < 0 {
		return nil, response.ErrValidation.WithTips("奖学金金额不能为负数")
	}

	var e *model.Edital
	err := database.Serializable(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		if e, err = load(tx, id, true); err != nil {
			return err
		}
		if e.Published {
			return response.ErrBadRequest.WithTips("公告已发布，不能修改")
		}

		var cols []string
		if in.Number.Set {
			number := strings.TrimSpace(in.Number.Value)
			taken, err := numberTaken(tx, number, e.ID)
			if err != nil {
				return response.ErrDatabase.WithOrigin(err)
			}
			if taken {
				return duplicateNumber(number)
			}
			e.Number, cols = number, append(cols, "number")
		}
		if in.Title.Set {
			e.Title, cols = strings.TrimSpace(in.Title.Value), append(cols, "title")
		}
		if in.Description.Set {
			e.Description, cols = strings.TrimSpace(in.Description.Value), append(cols, "description")
		}
		if in.ScholarshipValue.Set {
			e.ScholarshipValue, cols = in.ScholarshipValue.Value, append(cols, "scholarship_value")
		}
		if in.ExamDates.Set {
			e.ExamDates, cols = nil, append(cols, "exam_dates")
			if in.ExamDates.Present() {
				e.ExamDates = in.ExamDates.Value
			}
		}
		if in.ResultDate.Set {
			e.ResultDate, cols = in.ResultDate.Ptr(), append(cols, "result_date")
		}
		if len(cols) == 0 {
			return nil
		}

		// 按列名选择性保存，零值与 null 同样写入
		if err := tx.Model(e).Select(cols).Updates(e).Error; err != nil {
			if database.IsDuplicate(err) {
				return duplicateNumber(e.Number)
			}
			return response.ErrDatabase.WithOrigin(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("公告已更新", "edital_id", e.ID, "by", a.UserID)
	return e, nil
}

// AttachSignedFile 上传签字版公告文件
func (s *Service) AttachSignedFile(ctx context.Context, a actor.Actor, id uint, data []byte, contentType string) (*model.Edital, error) {
	if err := a.Require(actor.EditalManage); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, response.ErrValidation.WithTips("文件不能为空")
	}
	e, err := load(s.db.WithContext(ctx), id, false)
	if err != nil {
		return nil, err
	}
	if e.Published {
		return nil, response.ErrBadRequest.WithTips("公告已发布，不能替换文件")
	}

	objectName := storage.ObjectName("editais/signed", e.ID, ".pdf")
	if err := s.store.Put(ctx, objectName, data, contentType); err != nil {
		return nil, response.ErrUpstream.WithTips("保存公告文件失败").WithOrigin(err)
	}
	res := s.db.WithContext(ctx).Model(&model.Edital{}).
		Where("id = ? AND published = ?", e.ID, false).
		Update("signed_file", objectName)
	if res.Error != nil {
		return nil, response.ErrDatabase.WithOrigin(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, response.ErrBadRequest.WithTips("公告已发布，不能替换文件")
	}
	e.SignedFile = objectName

	s.log.Info("公告文件已上传", "edital_id", e.ID, "object", objectName, "by", a.UserID)
	return e, nil
}

// Publish 前置条件逐项检查，报告第一个缺失项
func (s *Service) Publish(ctx context.Context, a actor.Actor, id uint) (*model.Edital, error) {
	if err := a.Require(actor.EditalManage); err != nil {
		return nil, err
	}

	var e *model.Edital
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		if e, err = load(tx, id, true); err != nil {
			return err
		}
		if err := checkPublishable(tx, e); err != nil {
			return err
		}
		publishedAt := s.now().UTC()
		res := tx.Model(&model.Edital{}).
			Where("id = ? AND published = ?", e.ID, false).
			Updates(map[string]any{"published": true, "published_at": publishedAt})
		if res.Error != nil {
			return response.ErrDatabase.WithOrigin(res.Error)
		}
		if res.RowsAffected == 0 {
			return response.ErrBadRequest.WithTips("公告已发布")
		}
		e.Published, e.PublishedAt = true, &publishedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("公告已发布", "edital_id", e.ID, "number", e.Number, "by", a.UserID)
	return e, nil
}

func checkPublishable(tx *gorm.DB, e *model.Edital) error {
	switch {
	case e.Published:
		return response.ErrBadRequest.WithTips("公告已发布")
	case strings.TrimSpace(e.Title) == "":
		return response.ErrValidation.WithTips("发布前必须填写标题")
	case strings.TrimSpace(e.Description) == "":
		return response.ErrValidation.WithTips("发布前必须填写说明")
	case e.SignedFile == "":
		return response.ErrValidation.WithTips("发布前必须上传签字文件")
	case e.Type == model.EditalInternal && e.ChiefSignedAt == nil:
		return response.ErrValidation.WithTips("院系内部公告发布前需要系主任签名")
	}

	var period model.EnrollmentPeriod
	if err := tx.First(&period, e.PeriodID).Error; err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	var n int64
	if err := tx.Model(&model.Project{}).
		Where("year = ? AND term = ? AND status = ?", period.Year, period.Term, model.ProjectApproved).
		Count(&n).Error; err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	if n == 0 {
		return response.ErrValidation.WithTips("该报名期内没有已批准的项目")
	}
	return nil
}

func (s *Service) Unpublish(ctx context.Context, a actor.Actor, id uint) (*model.Edital, error) {
	if err := a.Require(actor.EditalManage); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	e, err := load(db, id, false)
	if err != nil {
		return nil, err
	}
	res := db.Model(&model.Edital{}).
		Where("id = ? AND published = ?", e.ID, true).
		Updates(map[string]any{"published": false, "published_at": nil})
	if res.Error != nil {
		return nil, response.ErrDatabase.WithOrigin(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, response.ErrBadRequest.WithTips("公告未发布")
	}
	e.Published, e.PublishedAt = false, nil

	s.log.Info("公告已撤回", "edital_id", e.ID, "by", a.UserID)
	return e, nil
}

// Get 非管理员只能看到已发布的公告
func (s *Service) Get(ctx context.Context, a actor.Actor, id uint) (*model.Edital, error) {
	e, err := load(s.db.WithContext(ctx), id, false)
	if err != nil {
		return nil, err
	}
	if !e.Published && !a.IsAdmin() {
		return nil, response.ErrNotFound.WithTips("公告不存在")
	}
	return e, nil
}

// FileURL 公告文件的限时下载链接，优先返回系主任签名版
func (s *Service) FileURL(ctx context.Context, a actor.Actor, id uint) (string, error) {
	e, err := s.Get(ctx, a, id)
	if err != nil {
		return "", err
	}
	objectName := e.ChiefSignedFile
	if objectName == "" {
		objectName = e.SignedFile
	}
	if objectName == "" {
		return "", response.ErrNotFound.WithTips("公告尚未上传文件")
	}
	url, err := s.store.PresignedGet(ctx, objectName, s.downloadTTL)
	if err != nil {
		return "", response.ErrUpstream.WithOrigin(err)
	}
	return url, nil
}
