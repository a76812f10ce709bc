package actor

import "monitoria-system/internal/model"

type Operation string

const (
	ProjectCreate          Operation = "project.create"
	ProjectUpdate          Operation = "project.update"
	ProjectSubmit          Operation = "project.submit"
	ProjectSignProfessor   Operation = "project.sign_professor"
	ProjectApprove         Operation = "project.approve"
	ProjectReject          Operation = "project.reject"
	ProjectSignAdmin       Operation = "project.sign_admin"
	ProjectAllocate        Operation = "project.allocate_scholarships"
	ProjectDelete          Operation = "project.delete"
	ProjectView            Operation = "project.view"
	PeriodManage           Operation = "period.manage"
	ApplicationCreate      Operation = "application.create"
	ApplicationEvaluate    Operation = "application.evaluate"
	ApplicationSelect      Operation = "application.select"
	ApplicationDecide      Operation = "application.decide"
	ApplicationRanking     Operation = "application.ranking"
	ApplicationView        Operation = "application.view"
	EditalManage           Operation = "edital.manage"
	EditalRequestSignature Operation = "edital.request_signature"
)

var (
	student   = model.RoleStudent
	professor = model.RoleProfessor
	admin     = model.RoleAdmin
)

// allowed 操作 -> 允许的角色；归属校验（本人的项目、本人的报名）在各业务中完成
var allowed = map[Operation]map[model.Role]bool{
	ProjectCreate:          {professor: true, admin: true},
	ProjectUpdate:          {professor: true, admin: true},
	ProjectSubmit:          {professor: true, admin: true},
	ProjectSignProfessor:   {professor: true},
	ProjectApprove:         {admin: true},
	ProjectReject:          {admin: true},
	ProjectSignAdmin:       {admin: true},
	ProjectAllocate:        {admin: true},
	ProjectDelete:          {professor: true, admin: true},
	ProjectView:            {student: true, professor: true, admin: true},
	PeriodManage:           {admin: true},
	ApplicationCreate:      {student: true},
	ApplicationEvaluate:    {professor: true},
	ApplicationSelect:      {professor: true},
	ApplicationDecide:      {student: true},
	ApplicationRanking:     {professor: true, admin: true},
	ApplicationView:        {student: true, professor: true, admin: true},
	EditalManage:           {admin: true},
	EditalRequestSignature: {admin: true},
}
