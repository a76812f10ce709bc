package model

type Discipline struct {
	Model
	Code         string `gorm:"type:varchar(20);not null;index" json:"code"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Class        string `gorm:"type:varchar(10)" json:"class"`
	DepartmentID uint   `gorm:"index" json:"department_id"`
}

// DisciplineEquivalence 无向等价关系，A、B 顺序无意义
type DisciplineEquivalence struct {
	Model
	DisciplineAID uint `gorm:"not null;uniqueIndex:idx_equivalence_pair" json:"discipline_a_id"`
	DisciplineBID uint `gorm:"not null;uniqueIndex:idx_equivalence_pair;index" json:"discipline_b_id"`
}

type StudentGrade struct {
	Model
	StudentID    uint    `gorm:"not null;uniqueIndex:idx_student_discipline" json:"student_id"`
	DisciplineID uint    `gorm:"not null;uniqueIndex:idx_student_discipline" json:"discipline_id"`
	Grade        float64 `gorm:"not null" json:"grade"`
}
