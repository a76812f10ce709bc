package model

// Role 用户角色
type Role string

const (
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleProfessor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	Model
	Email string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Role  Role   `gorm:"type:varchar(20);not null" json:"role"`
}

type Department struct {
	Model
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Acronym string `gorm:"type:varchar(20)" json:"acronym"`
}

type Professor struct {
	Model
	UserID       uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Email        string `gorm:"type:varchar(255)" json:"email"`
	DepartmentID uint   `gorm:"index" json:"department_id"`
}

type Student struct {
	Model
	UserID     uint     `gorm:"uniqueIndex;not null" json:"user_id"`
	Enrollment string   `gorm:"type:varchar(20);not null" json:"enrollment"` // 学号（matrícula）
	Name       string   `gorm:"type:varchar(255);not null" json:"name"`
	Email      string   `gorm:"type:varchar(255)" json:"email"`
	CR         *float64 `json:"cr"` // 学业系数
}
