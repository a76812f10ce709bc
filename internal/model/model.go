package model

import (
	"time"

	"gorm.io/gorm"
)

type Model struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *Model) CreateTime() int64 {
	return m.CreatedAt.UnixMilli()
}

func (m *Model) UpdateTime() int64 {
	return m.UpdatedAt.UnixMilli()
}

// Term 学期
type Term string

const (
	Semester1 Term = "SEMESTRE_1"
	Semester2 Term = "SEMESTRE_2"
)

func (t Term) Valid() bool {
	return t == Semester1 || t == Semester2
}

// Bounds 学期起止日期：第一学期 3/1 到 7/30，第二学期 8/1 到 12/30
func (t Term) Bounds(year int) (start, end time.Time) {
	if t == Semester1 {
		return time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC),
			time.Date(year, time.July, 30, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(year, time.August, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 30, 0, 0, 0, 0, time.UTC)
}
