package period

import (
	"context"
	"time"

	"monitoria-system/internal/model"

	"gorm.io/gorm"
)

// Open 返回 (year, term) 下包含 now 的报名期，没有时返回 nil
// 比较在 Go 中完成，避免不同数据库对时间字面量的差异
func Open(ctx context.Context, db *gorm.DB, year int, term model.Term, now time.Time) (*model.EnrollmentPeriod, error) {
	periods, err := list(ctx, db, year, term)
	if err != nil {
		return nil, err
	}
	for i := range periods {
		if periods[i].Contains(now) {
			return &periods[i], nil
		}
	}
	return nil, nil
}

func IsOpen(ctx context.Context, db *gorm.DB, year int, term model.Term, now time.Time) (bool, error) {
	p, err := Open(ctx, db, year, term, now)
	return p != nil, err
}

// FindOverlap 查找与 [start, end] 重叠的报名期，excludeID 为 0 时不排除
// 需要与随后的写入处于同一个 SERIALIZABLE 事务中
func FindOverlap(ctx context.Context, tx *gorm.DB, year int, term model.Term, start, end time.Time, excludeID uint) (*model.EnrollmentPeriod, error) {
	periods, err := list(ctx, tx, year, term)
	if err != nil {
		return nil, err
	}
	for i := range periods {
		if periods[i].ID == excludeID {
			continue
		}
		if periods[i].Overlaps(start, end) {
			return &periods[i], nil
		}
	}
	return nil, nil
}

// ScholarshipLimit 学年学期的奖学金总数，取最近一个配置了总数的报名期；未配置返回 nil
func ScholarshipLimit(ctx context.Context, db *gorm.DB, year int, term model.Term) (*int, error) {
	var p model.EnrollmentPeriod
	err := db.WithContext(ctx).
		Where("year = ? AND term = ? AND total_scholarships IS NOT NULL", year, term).
		Order("start_at DESC").
		Limit(1).
		Find(&p).Error
	if err != nil || p.ID == 0 {
		return nil, err
	}
	return p.TotalScholarships, nil
}

func list(ctx context.Context, db *gorm.DB, year int, term model.Term) ([]model.EnrollmentPeriod, error) {
	var periods []model.EnrollmentPeriod
	err := db.WithContext(ctx).
		Where("year = ? AND term = ?", year, term).
		Order("start_at").
		Find(&periods).Error
	return periods, err
}
