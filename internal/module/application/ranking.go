package application

import (
	"sort"
	"time"

	"monitoria-system/internal/model"
)

// SortByRank 总评分降序，未评分的排最后；同分按提交时间升序，先提交者在前
func SortByRank(apps []model.Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		a, b := apps[i], apps[j]
		switch {
		case a.FinalGrade == nil && b.FinalGrade != nil:
			return false
		case a.FinalGrade != nil && b.FinalGrade == nil:
			return true
		case a.FinalGrade != nil && *a.FinalGrade != *b.FinalGrade:
			return *a.FinalGrade > *b.FinalGrade
		}
		if !a.SubmittedAt().Equal(b.SubmittedAt()) {
			return a.SubmittedAt().Before(b.SubmittedAt())
		}
		return a.ID < b.ID
	})
}

// RankingRow 排名导出的一行
type RankingRow struct {
	Position        int       `json:"position" excel:"Posição"`
	ApplicationID   uint      `json:"application_id" excel:"Inscrição"`
	Enrollment      string    `json:"enrollment" excel:"Matrícula"`
	StudentName     string    `json:"student_name" excel:"Aluno"`
	SlotType        string    `json:"slot_type" excel:"Vaga"`
	Status          string    `json:"status" excel:"Status"`
	DisciplineGrade *float64  `json:"discipline_grade" excel:"Nota Disciplina"`
	ExamGrade       *float64  `json:"exam_grade" excel:"Nota Seleção"`
	CR              *float64  `json:"cr" excel:"CR"`
	FinalGrade      *float64  `json:"final_grade" excel:"Nota Final"`
	SubmittedAt     time.Time `json:"submitted_at" excel:"Inscrito em"`
}

func rankingRows(apps []model.Application) []RankingRow {
	rows := make([]RankingRow, 0, len(apps))
	for i, app := range apps {
		row := RankingRow{
			Position:        i + 1,
			ApplicationID:   app.ID,
			SlotType:        string(app.SlotType),
			Status:          string(app.Status),
			DisciplineGrade: app.DisciplineGrade,
			ExamGrade:       app.ExamGrade,
			CR:              app.CR,
			FinalGrade:      app.FinalGrade,
			SubmittedAt:     app.SubmittedAt(),
		}
		if app.Student != nil {
			row.Enrollment = app.Student.Enrollment
			row.StudentName = app.Student.Name
		}
		rows = append(rows, row)
	}
	return rows
}
