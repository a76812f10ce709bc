package model

import "time"

// EnrollmentPeriod 报名时间窗口，闭区间 [StartAt, EndAt]
type EnrollmentPeriod struct {
	Model
	Year    int       `gorm:"not null;index:idx_period_term" json:"year"`
	Term    Term      `gorm:"type:varchar(20);not null;index:idx_period_term" json:"term"`
	StartAt time.Time `gorm:"not null" json:"start_at"`
	EndAt   time.Time `gorm:"not null" json:"end_at"`
	// 本学期可分配的奖学金总数，未配置时不允许分配
	TotalScholarships *int    `json:"total_scholarships"`
	Edital            *Edital `gorm:"foreignKey:PeriodID" json:"edital,omitempty"`
}

func (p *EnrollmentPeriod) Contains(t time.Time) bool {
	return !t.Before(p.StartAt) && !t.After(p.EndAt)
}

func (p *EnrollmentPeriod) Overlaps(start, end time.Time) bool {
	return !start.After(p.EndAt) && !p.StartAt.After(end)
}
