package period

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"monitoria-system/internal/global/actor"
	"monitoria-system/internal/global/database"
	"monitoria-system/internal/global/logger"
	"monitoria-system/internal/global/optional"
	"monitoria-system/internal/global/response"
	"monitoria-system/internal/model"

	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *slog.Logger
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, log: logger.New("Period"), now: time.Now}
}

type CreateInput struct {
	Year    int        `json:"year" binding:"required,min=2000"`
	Term    model.Term `json:"term" binding:"required"`
	StartAt time.Time  `json:"start_at" binding:"required"`
	EndAt   time.Time  `json:"end_at" binding:"required"`

	TotalScholarships *int `json:"total_scholarships"`
}

type UpdateInput struct {
	StartAt optional.Value[time.Time] `json:"start_at"`
	EndAt   optional.Value[time.Time] `json:"end_at"`

	TotalScholarships optional.Value[int] `json:"total_scholarships"`
}

func validateTotal(total *int) error {
	if total != nil && *total < 0 {
		return response.ErrValidation.WithTips("奖学金总数不能为负数")
	}
	return nil
}

func validateWindow(term model.Term, start, end time.Time) error {
	if !term.Valid() {
		return response.ErrValidation.WithTips("学期只能是 SEMESTRE_1 或 SEMESTRE_2")
	}
	if !start.Before(end) {
		return response.ErrValidation.WithTips("开始时间必须早于结束时间")
	}
	return nil
}

func overlapError(p *model.EnrollmentPeriod) error {
	return response.ErrValidation.WithTips(fmt.Sprintf("与报名期 #%d (%s ~ %s) 重叠",
		p.ID, p.StartAt.Format(time.RFC3339), p.EndAt.Format(time.RFC3339)))
}

// Create 重叠检查与插入在同一个 SERIALIZABLE 事务内
func (s *Service) Create(ctx context.Context, a actor.Actor, in CreateInput) (*model.EnrollmentPeriod, error) {
	if err := a.Require(actor.PeriodManage); err != nil {
		return nil, err
	}
	start, end := in.StartAt.UTC(), in.EndAt.UTC()
	if err := validateWindow(in.Term, start, end); err != nil {
		return nil, err
	}
	if err := validateTotal(in.TotalScholarships); err != nil {
		return nil, err
	}

	p := model.EnrollmentPeriod{Year: in.Year, Term: in.Term, StartAt: start, EndAt: end, TotalScholarships: in.TotalScholarships}
	err := database.Serializable(ctx, s.db, func(tx *gorm.DB) error {
		overlap, err := FindOverlap(ctx, tx, in.Year, in.Term, start, end, 0)
		if err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		if overlap != nil {
			return overlapError(overlap)
		}
		p.ID = 0
		if err := tx.Create(&p).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("报名期创建成功", "period_id", p.ID, "year", p.Year, "term", p.Term, "by", a.UserID)
	return &p, nil
}

func (s *Service) Update(ctx context.Context, a actor.Actor, id uint, in UpdateInput) (*model.EnrollmentPeriod, error) {
	if err := a.Require(actor.PeriodManage); err != nil {
		return nil, err
	}
	if (in.StartAt.Set && in.StartAt.Null) || (in.EndAt.Set && in.EndAt.Null) {
		return nil, response.ErrValidation.WithTips("起止时间不能置空")
	}
	if err := validateTotal(in.TotalScholarships.Ptr()); err != nil {
		return nil, err
	}

	var p model.EnrollmentPeriod
	err := database.Serializable(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			if database.IsNotFound(err) {
				return response.ErrNotFound.WithTips("报名期不存在")
			}
			return response.ErrDatabase.WithOrigin(err)
		}
		if in.StartAt.Present() {
			p.StartAt = in.StartAt.Value.UTC()
		}
		if in.EndAt.Present() {
			p.EndAt = in.EndAt.Value.UTC()
		}
		if in.TotalScholarships.Set {
			p.TotalScholarships = in.TotalScholarships.Ptr()
		}
		if err := validateWindow(p.Term, p.StartAt, p.EndAt); err != nil {
			return err
		}

		overlap, err := FindOverlap(ctx, tx, p.Year, p.Term, p.StartAt, p.EndAt, p.ID)
		if err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		if overlap != nil {
			return overlapError(overlap)
		}
		if err := tx.Model(&p).Updates(map[string]any{
			"start_at":           p.StartAt,
			"end_at":             p.EndAt,
			"total_scholarships": p.TotalScholarships,
		}).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("报名期更新成功", "period_id", p.ID, "by", a.UserID)
	return &p, nil
}

// Current 当前开放的报名期
func (s *Service) Current(ctx context.Context, year int, term model.Term) (*model.EnrollmentPeriod, error) {
	p, err := Open(ctx, s.db, year, term, s.now().UTC())
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	if p == nil {
		return nil, response.ErrNotFound.WithTips("当前没有开放的报名期")
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*model.EnrollmentPeriod, error) {
	var p model.EnrollmentPeriod
	if err := s.db.WithContext(ctx).Preload("Edital").First(&p, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, response.ErrNotFound.WithTips("报名期不存在")
		}
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &p, nil
}
