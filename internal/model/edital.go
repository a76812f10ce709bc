package model

import "time"

type EditalType string

const (
	EditalInternal EditalType = "INTERNAL" // 院系内部公告，需系主任签名
	EditalExternal EditalType = "EXTERNAL"
)

func (t EditalType) Valid() bool {
	return t == EditalInternal || t == EditalExternal
}

type Edital struct {
	Model
	Type             EditalType `gorm:"type:varchar(20);not null" json:"type"`
	Number           string     `gorm:"type:varchar(50);not null;uniqueIndex" json:"number"`
	Title            string     `gorm:"type:varchar(255)" json:"title"`
	Description      string     `gorm:"type:text" json:"description"`
	ScholarshipValue float64    `json:"scholarship_value"`
	ExamDates        []string   `gorm:"serializer:json" json:"exam_dates"`
	ResultDate       *time.Time `json:"result_date"`
	Published        bool       `gorm:"not null;default:false" json:"published"`
	PublishedAt      *time.Time `json:"published_at"`
	SignedFile       string     `gorm:"type:varchar(255)" json:"signed_file"` // 对象存储中的签字文件
	ChiefSignature   string     `gorm:"type:mediumtext" json:"-"`
	ChiefSignedAt    *time.Time `json:"chief_signed_at"`
	ChiefName        string     `gorm:"type:varchar(255)" json:"chief_name"`
	ChiefEmail       string     `gorm:"type:varchar(255)" json:"chief_email"`
	ChiefSignedFile  string     `gorm:"type:varchar(255)" json:"chief_signed_file"`
	CreatedBy        uint       `json:"created_by"`
	PeriodID         uint       `gorm:"not null;uniqueIndex" json:"period_id"`
}

type TokenStatus string

const (
	TokenPending TokenStatus = "PENDING"
	TokenUsed    TokenStatus = "USED"
	TokenExpired TokenStatus = "EXPIRED"
)

// SignatureToken 系主任免登录签名用的一次性令牌
type SignatureToken struct {
	Model
	EditalID    uint        `gorm:"not null;index" json:"edital_id"`
	Token       string      `gorm:"type:varchar(128);not null;uniqueIndex" json:"-"`
	Email       string      `gorm:"type:varchar(255);not null" json:"email"`
	Name        string      `gorm:"type:varchar(255)" json:"name"`
	ExpiresAt   time.Time   `gorm:"not null" json:"expires_at"`
	Status      TokenStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	UsedAt      *time.Time  `json:"used_at"`
	RequestedBy uint        `json:"requested_by"`
}

// Expired 状态为 EXPIRED 或已过有效期
func (t *SignatureToken) Expired(now time.Time) bool {
	return t.Status == TokenExpired || !now.Before(t.ExpiresAt)
}
