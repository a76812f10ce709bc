package model

import "time"

type SlotType string

const (
	SlotScholarship SlotType = "SCHOLARSHIP"
	SlotVolunteer   SlotType = "VOLUNTEER"
)

func (s SlotType) Valid() bool {
	return s == SlotScholarship || s == SlotVolunteer
}

type ApplicationStatus string

const (
	ApplicationSubmitted           ApplicationStatus = "SUBMITTED"
	ApplicationSelectedScholarship ApplicationStatus = "SELECTED_SCHOLARSHIP"
	ApplicationSelectedVolunteer   ApplicationStatus = "SELECTED_VOLUNTEER"
	ApplicationAcceptedScholarship ApplicationStatus = "ACCEPTED_SCHOLARSHIP"
	ApplicationAcceptedVolunteer   ApplicationStatus = "ACCEPTED_VOLUNTEER"
	ApplicationRejectedByStudent   ApplicationStatus = "REJECTED_BY_STUDENT"
	ApplicationRejectedByProfessor ApplicationStatus = "REJECTED_BY_PROFESSOR"
)

// Application 学生对某个项目的报名
type Application struct {
	Model
	StudentID       uint              `gorm:"not null;uniqueIndex:idx_application_unique" json:"student_id"`
	ProjectID       uint              `gorm:"not null;uniqueIndex:idx_application_unique;index" json:"project_id"`
	PeriodID        uint              `gorm:"not null;uniqueIndex:idx_application_unique" json:"period_id"`
	SlotType        SlotType          `gorm:"type:varchar(20);not null" json:"slot_type"`
	Status          ApplicationStatus `gorm:"type:varchar(40);not null;index" json:"status"`
	DisciplineGrade *float64          `json:"discipline_grade"` // 报名时快照，评分时可覆盖
	ExamGrade       *float64          `json:"exam_grade"`
	CR              *float64          `json:"cr"` // 报名时的学业系数快照
	FinalGrade      *float64          `json:"final_grade"`
	Feedback        string            `gorm:"type:text" json:"feedback"`
	Documents       []string          `gorm:"serializer:json" json:"documents"`

	Student *Student `json:"student,omitempty"`
}

// SubmittedAt 报名提交时间
func (a *Application) SubmittedAt() time.Time {
	return a.CreatedAt
}

func (a *Application) Selected() bool {
	return a.Status == ApplicationSelectedScholarship || a.Status == ApplicationSelectedVolunteer
}

// Placement 接受录取后生成的岗位记录
type Placement struct {
	Model
	ApplicationID uint      `gorm:"not null;uniqueIndex" json:"application_id"`
	StudentID     uint      `gorm:"not null;index" json:"student_id"`
	ProjectID     uint      `gorm:"not null;index" json:"project_id"`
	Type          SlotType  `gorm:"type:varchar(20);not null" json:"type"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
}
