package workflow

import (
	"github.com/RuchiketJadhav/sammati-approval/internal/model"
)

// 操作名常量，错误消息和授权表共用
const (
	opCreate            = "create"
	opUpdate            = "update"
	opDelete            = "delete"
	opApprove           = "approve"
	opReject            = "reject"
	opRequestRevision   = "request_revision"
	opAssignApprovers   = "assign_approvers"
	opApproverApprove   = "approver_approve"
	opApproverReject    = "approver_reject"
	opAssignRegistrar   = "assign_registrar"
	opRegistrarApprove  = "registrar_approve"
	opRegistrarReject   = "registrar_reject"
	opRegistrarRevision = "registrar_revision"
	opResubmit          = "resubmit"
	opAddComment        = "add_comment"
)

// opRule 一个操作在授权表中的行：允许的角色和要求的当前状态。
// 角色为空表示任意登录用户，状态为空表示任意状态。
// 审批人名单成员、当前处理人、创建人这类按提案实例的检查不进表，由各操作自行补充
type opRule struct {
	roles    []model.UserRole
	statuses []model.ProposalStatus
}

// authzTable 角色 × 状态 × 操作的统一授权表，所有流转都先查这张表，
// 避免每个操作各自散落一份角色判断
var authzTable = map[string]opRule{
	opApprove: {
		roles:    []model.UserRole{model.RoleSuperior, model.RoleAdmin},
		statuses: []model.ProposalStatus{model.StatusPendingSuperior, model.StatusPendingAdmin},
	},
	opReject: {
		roles:    []model.UserRole{model.RoleSuperior, model.RoleAdmin},
		statuses: []model.ProposalStatus{model.StatusPendingSuperior, model.StatusPendingAdmin},
	},
	opRequestRevision: {
		roles:    []model.UserRole{model.RoleSuperior, model.RoleAdmin},
		statuses: []model.ProposalStatus{model.StatusPendingSuperior, model.StatusPendingAdmin},
	},
	// 修改周期后管理员直接重新指定名单，不必再走一遍上级/管理员审批
	opAssignApprovers: {
		roles:    []model.UserRole{model.RoleAdmin},
		statuses: []model.ProposalStatus{model.StatusPendingApprovers, model.StatusNeedsRevision},
	},
	opApproverApprove: {
		roles:    []model.UserRole{model.RoleApprover},
		statuses: []model.ProposalStatus{model.StatusPendingApprovers},
	},
	opApproverReject: {
		roles:    []model.UserRole{model.RoleApprover},
		statuses: []model.ProposalStatus{model.StatusPendingApprovers},
	},
	opAssignRegistrar: {
		roles:    []model.UserRole{model.RoleAdmin},
		statuses: []model.ProposalStatus{model.StatusPendingApprovers},
	},
	opRegistrarApprove: {
		roles:    []model.UserRole{model.RoleRegistrar},
		statuses: []model.ProposalStatus{model.StatusPendingRegistrar},
	},
	opRegistrarReject: {
		roles:    []model.UserRole{model.RoleRegistrar},
		statuses: []model.ProposalStatus{model.StatusPendingRegistrar},
	},
	opRegistrarRevision: {
		roles:    []model.UserRole{model.RoleRegistrar},
		statuses: []model.ProposalStatus{model.StatusPendingRegistrar},
	},
	opResubmit: {
		statuses: []model.ProposalStatus{model.StatusRejected, model.StatusNeedsRevision},
	},
	opAddComment: {},
}

// authorize 统一前置检查：先查角色，再查状态。
// 检查顺序固定，角色错误优先于状态错误返回
func authorize(op string, actor *model.User, p *model.Proposal) error {
	rule, ok := authzTable[op]
	if !ok {
		return authorizationError(op, p.ID, "unknown operation")
	}

	if len(rule.roles) > 0 {
		allowed := false
		for _, r := range rule.roles {
			if actor.Role == r {
				allowed = true
				break
			}
		}
		if !allowed {
			return authorizationError(op, p.ID, "role %s is not allowed to perform this operation", actor.Role)
		}
	}

	if len(rule.statuses) > 0 {
		matched := false
		for _, s := range rule.statuses {
			if p.Status == s {
				matched = true
				break
			}
		}
		if !matched {
			return stateError(op, p.ID, "proposal is in status %s, expected one of %v", p.Status, rule.statuses)
		}
	}

	return nil
}
