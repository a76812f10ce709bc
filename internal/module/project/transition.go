package project

import (
	"slices"

	"monitoria-system/internal/model"
)

type action string

const (
	actSubmit        action = "submit"
	actSignProfessor action = "sign_professor"
	actApprove       action = "approve"
	actReject        action = "reject"
	actSignAdmin     action = "sign_admin"
	actOwnerEdit     action = "owner_edit"
	actOwnerDelete   action = "owner_delete"
	actAllocate      action = "allocate"
)

// sources 每个动作允许的源状态
var sources = map[action][]model.ProjectStatus{
	actSubmit:        {model.ProjectDraft, model.ProjectPendingProfessorSignature},
	actSignProfessor: {model.ProjectDraft, model.ProjectPendingProfessorSignature},
	actApprove:       {model.ProjectSubmitted},
	actReject:        {model.ProjectSubmitted},
	actSignAdmin:     {model.ProjectSubmitted},
	actOwnerEdit:     {model.ProjectDraft, model.ProjectPendingProfessorSignature},
	actOwnerDelete:   {model.ProjectDraft},
	actAllocate:      {model.ProjectApproved},
}

func allowedFrom(act action, status model.ProjectStatus) bool {
	return slices.Contains(sources[act], status)
}

// terminal 管理员也不能再修改的状态
func terminal(status model.ProjectStatus) bool {
	return status == model.ProjectApproved || status == model.ProjectRejected
}
