package application

import (
	"fmt"

	"monitoria-system/internal/global/response"
	"monitoria-system/internal/model"

	"gorm.io/gorm"
)

// ensureSingleScholarship 同一学生在同一学年学期最多持有一个已接受的奖学金岗位，不论来自哪个项目
// 调用方必须已在同一事务中锁定该学生记录，检查与随后的状态写入才是原子的
func ensureSingleScholarship(tx *gorm.DB, studentID uint, year int, term model.Term, excludeID uint) error {
	var n int64
	err := tx.Model(&model.Application{}).
		Joins("JOIN project ON project.id = application.project_id").
		Where("application.student_id = ? AND application.status = ?", studentID, model.ApplicationAcceptedScholarship).
		Where("project.year = ? AND project.term = ?", year, term).
		Where("application.id <> ?", excludeID).
		Count(&n).Error
	if err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	if n > 0 {
		return response.ErrBadRequest.WithTips("本学期已接受过一个奖学金岗位")
	}
	return nil
}

// occupied 统计项目中已占用名额的报名数，已录取和已接受都计入，excludeID 为 0 时不排除
func occupied(tx *gorm.DB, projectID uint, statuses []model.ApplicationStatus, excludeID uint) (int, error) {
	var n int64
	err := tx.Model(&model.Application{}).
		Where("project_id = ? AND status IN ? AND id <> ?", projectID, statuses, excludeID).
		Count(&n).Error
	if err != nil {
		return 0, response.ErrDatabase.WithOrigin(err)
	}
	return int(n), nil
}

var (
	scholarshipHeld = []model.ApplicationStatus{model.ApplicationSelectedScholarship, model.ApplicationAcceptedScholarship}
	volunteerHeld   = []model.ApplicationStatus{model.ApplicationSelectedVolunteer, model.ApplicationAcceptedVolunteer}
)

// ensureQuota 之前录取的人数加上本次名单不能超过项目名额，调用方须已锁定项目记录
func ensureQuota(tx *gorm.DB, p *model.Project, scholarship, volunteer int) error {
	held, err := occupied(tx, p.ID, scholarshipHeld, 0)
	if err != nil {
		return err
	}
	if held+scholarship > p.AllocatedScholarships {
		return response.ErrValidation.WithTips(fmt.Sprintf("奖学金录取人数超过名额 %d，已占用 %d", p.AllocatedScholarships, held))
	}
	if held, err = occupied(tx, p.ID, volunteerHeld, 0); err != nil {
		return err
	}
	if held+volunteer > p.RequestedVolunteers {
		return response.ErrValidation.WithTips(fmt.Sprintf("志愿者录取人数超过名额 %d，已占用 %d", p.RequestedVolunteers, held))
	}
	return nil
}
