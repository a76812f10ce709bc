package model

import "time"

type ProjectStatus string

const (
	ProjectDraft                     ProjectStatus = "DRAFT"
	ProjectSubmitted                 ProjectStatus = "SUBMITTED"
	ProjectApproved                  ProjectStatus = "APPROVED"
	ProjectRejected                  ProjectStatus = "REJECTED"
	ProjectPendingProfessorSignature ProjectStatus = "PENDING_PROFESSOR_SIGNATURE"
	ProjectPendingAdminSignature     ProjectStatus = "PENDING_ADMIN_SIGNATURE"
)

type ProposalType string

const (
	ProposalIndividual ProposalType = "INDIVIDUAL"
	ProposalCollective ProposalType = "COLLECTIVE"
)

func (p ProposalType) Valid() bool {
	return p == ProposalIndividual || p == ProposalCollective
}

// Project 监督项目提案
type Project struct {
	Model
	Title                 string        `gorm:"type:varchar(255);not null" json:"title"`
	Description           string        `gorm:"type:text" json:"description"`
	ProfessorID           uint          `gorm:"not null;index" json:"professor_id"` // 负责教师
	DepartmentID          uint          `gorm:"index" json:"department_id"`
	Year                  int           `gorm:"not null;index:idx_project_term" json:"year"`
	Term                  Term          `gorm:"type:varchar(20);not null;index:idx_project_term" json:"term"`
	Type                  ProposalType  `gorm:"type:varchar(20);not null" json:"type"`
	RequestedScholarships int           `gorm:"not null;default:0" json:"requested_scholarships"`
	RequestedVolunteers   int           `gorm:"not null;default:0" json:"requested_volunteers"`
	AllocatedScholarships int           `gorm:"not null;default:0" json:"allocated_scholarships"` // 管理员分配的奖学金名额
	WeeklyHours           int           `json:"weekly_hours"`
	Weeks                 int           `json:"weeks"`
	TargetAudience        string        `gorm:"type:varchar(255)" json:"target_audience"`
	Status                ProjectStatus `gorm:"type:varchar(40);not null;index" json:"status"`
	ProfessorSignature    string        `gorm:"type:mediumtext" json:"-"` // base64 签名图片
	ProfessorSignedAt     *time.Time    `json:"professor_signed_at"`
	AdminSignature        string        `gorm:"type:mediumtext" json:"-"`
	AdminSignedAt         *time.Time    `json:"admin_signed_at"`
	AdminFeedback         string        `gorm:"type:text" json:"admin_feedback"`
	SignedDocument        string        `gorm:"type:varchar(255)" json:"signed_document"` // 对象存储中的签名 PDF

	Disciplines []ProjectDiscipline `json:"disciplines,omitempty"`
}

type ProjectDiscipline struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	ProjectID    uint `gorm:"not null;uniqueIndex:idx_project_discipline" json:"project_id"`
	DisciplineID uint `gorm:"not null;uniqueIndex:idx_project_discipline;index" json:"discipline_id"`
}

func (p *Project) DisciplineIDs() []uint {
	ids := make([]uint, 0, len(p.Disciplines))
	for _, d := range p.Disciplines {
		ids = append(ids, d.DisciplineID)
	}
	return ids
}
