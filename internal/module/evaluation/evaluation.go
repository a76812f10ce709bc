// Package evaluation 计算候选人总评分，并解析学生在某门课程上的成绩
package evaluation

import (
	"context"
	"fmt"
	"math"

	"monitoria-system/internal/global/response"
	"monitoria-system/internal/model"

	"gorm.io/gorm"
)

const (
	MinGrade = 0.0
	MaxGrade = 10.0

	weightDiscipline = 5
	weightExam       = 3
	weightCR         = 2
)

// ComputeFinalGrade (课程成绩×5 + 选拔考试×3 + 学业系数×2) / 10，保留两位小数，第三位四舍五入
// 不做范围校验，调用方先用 ValidateGrade
func ComputeFinalGrade(disciplineGrade, examGrade, cr float64) float64 {
	v := (disciplineGrade*weightDiscipline + examGrade*weightExam + cr*weightCR) / 10
	return roundHalfUp(v, 2)
}

// roundHalfUp 加上极小量抵消二进制浮点误差，使 1.005 这类值按十进制语义进位
func roundHalfUp(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(v*p+0.5+1e-9) / p
}

func ValidateGrade(name string, v float64) error {
	if math.IsNaN(v) || v < MinGrade || v > MaxGrade {
		return response.ErrValidation.WithTips(fmt.Sprintf("%s 必须在 %.0f 到 %.0f 之间", name, MinGrade, MaxGrade))
	}
	return nil
}

// ResolveDisciplineGrade 先查直接成绩；没有时查一跳等价课程（A≡B 双向），返回找到的第一个成绩
// 不做传递闭包：A≡B、B≡C 时不会用 C 的成绩
func ResolveDisciplineGrade(ctx context.Context, db *gorm.DB, studentID, disciplineID uint) (*float64, error) {
	db = db.WithContext(ctx)

	var direct []model.StudentGrade
	if err := db.Where("student_id = ? AND discipline_id = ?", studentID, disciplineID).
		Limit(1).Find(&direct).Error; err != nil {
		return nil, err
	}
	if len(direct) > 0 {
		return &direct[0].Grade, nil
	}

	equivalents, err := Equivalents(ctx, db, disciplineID)
	if err != nil || len(equivalents) == 0 {
		return nil, err
	}

	var grades []model.StudentGrade
	if err := db.Where("student_id = ? AND discipline_id IN ?", studentID, equivalents).
		Find(&grades).Error; err != nil {
		return nil, err
	}
	byDiscipline := make(map[uint]float64, len(grades))
	for _, g := range grades {
		byDiscipline[g.DisciplineID] = g.Grade
	}
	for _, id := range equivalents {
		if g, ok := byDiscipline[id]; ok {
			return &g, nil
		}
	}
	return nil, nil
}

// Equivalents 与 disciplineID 直接等价的课程，按等价关系登记顺序
func Equivalents(ctx context.Context, db *gorm.DB, disciplineID uint) ([]uint, error) {
	var edges []model.DisciplineEquivalence
	if err := db.WithContext(ctx).
		Where("discipline_a_id = ? OR discipline_b_id = ?", disciplineID, disciplineID).
		Order("id").Find(&edges).Error; err != nil {
		return nil, err
	}
	seen := make(map[uint]bool, len(edges))
	out := make([]uint, 0, len(edges))
	for _, e := range edges {
		other := e.DisciplineAID
		if other == disciplineID {
			other = e.DisciplineBID
		}
		if other == disciplineID || seen[other] {
			continue
		}
		seen[other] = true
		out = append(out, other)
	}
	return out, nil
}
