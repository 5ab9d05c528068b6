package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/RuchiketJadhav/sammati-approval/internal/model"
	"github.com/RuchiketJadhav/sammati-approval/internal/repository"
	"github.com/RuchiketJadhav/sammati-approval/pkg/distributed"
	"github.com/RuchiketJadhav/sammati-approval/pkg/logger"
	"github.com/RuchiketJadhav/sammati-approval/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service 提案流转引擎。每个操作都是"加锁 → 读取 → 校验 → 变更 → 落库"
// 的原子单元，校验失败时不写任何数据
type Service struct {
	proposals *repository.ProposalRepository
	users     *repository.UserRepository
	locker    *distributed.ProposalLocker
}

func NewService(proposals *repository.ProposalRepository, users *repository.UserRepository, locker *distributed.ProposalLocker) *Service {
	return &Service{
		proposals: proposals,
		users:     users,
		locker:    locker,
	}
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func (s *Service) findActor(op, actorID string) (*model.User, error) {
	actor, err := s.users.FindUserByID(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError(op, "", "user %s not found", actorID)
		}
		return nil, err
	}
	return actor, nil
}

// mutate 对单个提案执行一次串行化的流转。fn 返回要追加的流程评论（可为nil），
// fn 报错时提案不落库
func (s *Service) mutate(ctx context.Context, op, actorID, proposalID string,
	fn func(actor *model.User, p *model.Proposal) (*model.Comment, error)) (*model.Proposal, error) {

	actor, err := s.findActor(op, actorID)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Lock(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	defer release()

	proposal, err := s.proposals.FindProposalByID(proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError(op, proposalID, "proposal not found")
		}
		return nil, err
	}

	prevStatus := proposal.Status
	comment, err := fn(actor, proposal)
	if err != nil {
		metrics.WorkflowTransitionsTotal.WithLabelValues(op, "denied").Inc()
		return nil, err
	}

	if err := s.proposals.SaveProposal(proposal); err != nil {
		return nil, err
	}
	metrics.WorkflowTransitionsTotal.WithLabelValues(op, "applied").Inc()
	if proposal.Status != prevStatus &&
		(proposal.Status == model.StatusApproved || proposal.Status == model.StatusRejected) {
		metrics.ProposalsFinalizedTotal.WithLabelValues(string(proposal.Status)).Inc()
	}

	if comment != nil {
		if err := s.proposals.AddComment(comment); err != nil {
			return nil, err
		}
		proposal.Comments = append(proposal.Comments, *comment)
	}

	logger.Infof("Proposal %s: %s by %s (%s), status=%s", proposal.ID, op, actor.Username, actor.Role, proposal.Status)
	return proposal, nil
}

func displayName(u *model.User) string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

func appendStep(p *model.Proposal, actor *model.User, status model.StepStatus, comment string) {
	p.ApprovalSteps = append(p.ApprovalSteps, model.ApprovalStep{
		UserID:    actor.ID,
		UserName:  displayName(actor),
		UserRole:  actor.Role,
		Status:    status,
		Timestamp: nowMillis(),
		Comment:   comment,
	})
}

func workflowComment(proposalID string, actor *model.User, prefix, reason string) *model.Comment {
	return &model.Comment{
		ID:         uuid.New().String(),
		ProposalID: proposalID,
		UserID:     actor.ID,
		UserName:   displayName(actor),
		UserAvatar: actor.Avatar,
		Text:       prefix + reason,
		Timestamp:  nowMillis(),
	}
}

// hasAllApproversResponded 会签完成判定：名单里每个人在审批历史中都必须有一条
// 已响应（approved/rejected/resubmit）的步骤。审批历史是权威依据，
// pending_approvers 只是缓存，不参与该判定
func hasAllApproversResponded(p *model.Proposal) bool {
	if len(p.Approvers) == 0 {
		return false
	}
	for _, id := range p.Approvers {
		idx := p.StepIndexFor(id)
		if idx < 0 || !p.ApprovalSteps[idx].Status.Responded() {
			return false
		}
	}
	return true
}

// Create 创建提案并直接提交给直属上级
func (s *Service) Create(ctx context.Context, actorID string, req *model.CreateProposalRequest) (*model.Proposal, error) {
	actor, err := s.findActor(opCreate, actorID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, validationError(opCreate, "", "title is required")
	}

	assignee, err := s.users.FindUserByID(req.AssignedTo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError(opCreate, "", "assignee %s not found", req.AssignedTo)
		}
		return nil, err
	}

	proposalType := req.Type
	if proposalType == "" {
		proposalType = model.TypeOther
	}

	proposal := &model.Proposal{
		ID:               uuid.New().String(),
		Title:            req.Title,
		Description:      req.Description,
		Type:             proposalType,
		Budget:           req.Budget,
		Timeline:         req.Timeline,
		Justification:    req.Justification,
		Department:       req.Department,
		FieldValues:      datatypes.JSONMap(req.FieldValues),
		CreatedBy:        actor.ID,
		CreatedByName:    displayName(actor),
		AssignedTo:       assignee.ID,
		AssignedToName:   displayName(assignee),
		Status:           model.StatusPendingSuperior,
		Approvers:        model.StringArray{},
		PendingApprovers: model.StringArray{},
		ApprovalSteps:    model.ApprovalStepList{},
	}

	if err := s.proposals.CreateProposal(proposal); err != nil {
		return nil, err
	}
	metrics.WorkflowTransitionsTotal.WithLabelValues(opCreate, "applied").Inc()

	logger.Infof("Proposal %s created by %s, assigned to %s", proposal.ID, actor.Username, assignee.Username)
	return proposal, nil
}

// Update 编辑提案内容。创建人只能在流转早期阶段编辑，管理员随时可以
func (s *Service) Update(ctx context.Context, actorID, proposalID string, req *model.UpdateProposalRequest) (*model.Proposal, error) {
	return s.mutate(ctx, opUpdate, actorID, proposalID, func(actor *model.User, p *model.Proposal) (*model.Comment, error) {
		isAdmin := actor.Role == model.RoleAdmin
		if !isAdmin && actor.ID != p.CreatedBy {
			return nil, authorizationError(opUpdate, p.ID, "only the creator or an admin can edit a proposal")
		}
		if !isAdmin {
			switch p.Status {
			case model.StatusDraft, model.StatusRejected, model.StatusPendingSuperior, model.StatusNeedsRevision:
			default:
				return nil, stateError(opUpdate, p.ID, "proposal in status %s cannot be edited", p.Status)
			}
		}

		if req.Title != "" {
			p.Title = req.Title
		}
		if req.Description != "" {
			p.Description = req.Description
		}
		if req.Type != "" {
			p.Type = req.Type
		}
		if req.Budget != "" {
			p.Budget = req.Budget
		}
		if req.Timeline != "" {
			p.Timeline = req.Timeline
		}
		if req.Justification != "" {
			p.Justification = req.Justification
		}
		if req.Department != "" {
			p.Department = req.Department
		}
		if req.FieldValues != nil {
			p.FieldValues = datatypes.JSONMap(req.FieldValues)
		}
		if req.AssignedTo != "" && req.AssignedTo != p.AssignedTo {
			assignee, err := s.users.FindUserByID(req.AssignedTo)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, notFoundError(opUpdate, p.ID, "assignee %s not found", req.AssignedTo)
				}
				return nil, err
			}
			p.AssignedTo = assignee.ID
			p.AssignedToName = displayName(assignee)
		}
		return nil, nil
	})
}

// Delete 删除提案。已批准的提案是审批结论，不允许删除
func (s *Service) Delete(ctx context.Context, actorID, proposalID string) error {
	actor, err := s.findActor(opDelete, actorID)
	if err != nil {
		return err
	}

	release, err := s.locker.Lock(ctx, proposalID)
	if err != nil {
		return err
	}
	defer release()

	proposal, err := s.proposals.FindProposalByID(proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError(opDelete, proposalID, "proposal not found")
		}
		return err
	}

	if actor.Role != model.RoleAdmin && actor.ID != proposal.CreatedBy {
		return authorizationError(opDelete, proposalID, "only the creator or an admin can delete a proposal")
	}
	if proposal.Status == model.StatusApproved {
		return stateError(opDelete, proposalID, "approved proposals cannot be deleted")
	}

	if err := s.proposals.DeleteProposal(proposalID); err != nil {
		return err
	}
	metrics.WorkflowTransitionsTotal.WithLabelValues(opDelete, "applied").Inc()
	logger.Infof("Proposal %s deleted by %s", proposalID, actor.Username)
	return nil
}

// Approve 上级/管理员批准。按当前状态分派到对应阶段
func (s *Service) Approve(ctx context.Context, actorID, proposalID, comment string) (*model.Proposal, error) {
	return s.mutate(ctx, opApprove, actorID, proposalID, func(actor *model.User, p *model.Proposal) (*model.Comment, error) {
		if err := authorize(opApprove, actor, p); err != nil {
			return nil, err
		}

		switch p.Status {
		case model.StatusPendingSuperior:
			if actor.Role != model.RoleSuperior {
				return nil, authorizationError(opApprove, p.ID, "only a superior can approve at this stage")
			}
			if actor.ID != p.AssignedTo {
				return nil, authorizationError(opApprove, p.ID, "proposal is assigned to another reviewer")
			}

			// 上级批准后转交给管理员
			admins, err := s.users.FindUsersByRole(model.RoleAdmin)
			if err != nil {
				return nil, err
			}
			if len(admins) == 0 {
				return nil, notFoundError(opApprove, p.ID, "no admin user available for the next stage")
			}

			appendStep(p, actor, model.StepApproved, comment)
			p.ApprovedBySuperior = true
			p.Status = model.StatusPendingAdmin
			p.AssignedTo = admins[0].ID
			p.AssignedToName = displayName(&admins[0])

		case model.StatusPendingAdmin:
			if actor.Role != model.RoleAdmin {
				return nil, authorizationError(opApprove, p.ID, "only an admin can approve at this stage")
			}

			// 管理员批准后进入会签阶段，等待指定审批人名单
			appendStep(p, actor, model.StepApproved, comment)
			p.ApprovedByAdmin = true
			p.Status = model.StatusPendingApprovers
			p.Approvers = model.StringArray{}
			p.PendingApprovers = model.StringArray{}
			p.ApproversAssigned = false
			p.NeedsReassignment = false
		}
		return nil, nil
	})
}

// Reject 上级/管理员拒绝。普通拒绝可以重新提交
func (s *Service) Reject(ctx context.Context, actorID, proposalID, reason string) (*model.Proposal, error) {
	return s.mutate(ctx, opReject, actorID, proposalID, func(actor *model.User, p *model.Proposal) (*model.Comment, error) {
		if err := authorize(opReject, actor, p); err != nil {
			return nil, err
		}
		if strings.TrimSpace(reason) == "" {
			return nil, validationError(opReject, p.ID, "rejection reason is required")
		}

		switch p.Status {
		case model.StatusPendingSuperior:
			if actor.Role != model.RoleSuperior {
				return nil, authorizationError(opReject, p.ID, "only a superior can reject at this stage")
			}
			if actor.ID != p.AssignedTo {
				return nil, authorizationError(opReject, p.ID, "proposal is assigned to another reviewer")
			}
		case model.StatusPendingAdmin:
			if actor.Role != model.RoleAdmin {
				return nil, authorizationError(opReject, p.ID, "only an admin can reject at this stage")
			}
		}

		appendStep(p, actor, model.StepRejected, reason)
		p.Status = model.StatusRejected
		p.RejectedBy = actor.ID
		p.RejectedByName = displayName(actor)
		p.RejectionReason = reason
		return workflowComment(p.ID, actor, model.CommentPrefixRejected, reason), nil
	})
}

// RequestRevision 上级/管理员退回修改
func (s *Service) RequestRevision(ctx context.Context, actorID, proposalID, reason string) (*model.Proposal, error) {
	return s.mutate(ctx, opRequestRevision, actorID, proposalID, func(actor *model.User, p *model.Proposal) (*model.Comment, error) {
		if err := authorize(opRequestRevision, actor, p); err != nil {
			return nil, err
		}
		if strings.TrimSpace(reason) == "" {
			return nil, validationError(opRequestRevision, p.ID, "revision reason is required")
		}

		switch p.Status {
		case model.StatusPendingSuperior:
			if actor.Role != model.RoleSuperior {
				return nil, authorizationError(opRequestRevision, p.ID, "only a superior can request revision at this stage")
			}
			if actor.ID != p.AssignedTo {
				return nil, authorizationError(opRequestRevision, p.ID, "proposal is assigned to another reviewer")
			}
		case model.StatusPendingAdmin:
			if actor.Role != model.RoleAdmin {
				return nil, authorizationError(opRequestRevision, p.ID, "only an admin can request revision at this stage")
			}
		}

		appendStep(p, actor, model.StepResubmit, reason)
		p.Status = model.StatusNeedsRevision
		p.NeedsReassignment = true
		p.RejectionReason = reason
		return workflowComment(p.ID, actor, model.CommentPrefixRevision, reason), nil
	})
}

// AssignApprovers 管理员指定本轮会签名单。修改周期之后必须给出非空名单
func (s *Service) AssignApprovers(ctx context.Context, actorID, proposalID string, approverIDs []string) (*model.Proposal, error) {
	return s.mutate(ctx, opAssignApprovers, actorID, proposalID, func(actor *model.User, p *model.Proposal) (*model.Comment, error) {
		if err := authorize(opAssignApprovers, actor, p); err != nil {
			return nil, err
		}
		if p.Status == model.StatusNeedsRevision && !p.NeedsReassignment {
			return nil, stateError(opAssignApprovers, p.ID, "proposal is awaiting resubmission by its creator")
		}

		// 去重，保持入参顺序
		seen := make(map[string]bool)
		ids := make([]string, 0, len(approverIDs))
		for _, id := range approverIDs {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}

		if p.NeedsReassignment && len(ids) == 0 {
			return nil, validationError(opAssignApprovers, p.ID, "a non-empty approver roster is required after a revision cycle")
		}

		approvers := make([]*model.User, 0, len(ids))
		for _, id := range ids {
			u, err := s.users.FindUserByID(id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, notFoundError(opAssignApprovers, p.ID, "approver %s not found", id)
				}
				return nil, err
			}
			if u.Role != model.RoleApprover {
				return nil, validationError(opAssignApprovers, p.ID, "user %s does not hold the approver role", id)
			}
			approvers = append(approvers, u)
		}

		// 清掉新名单成员在上一轮留下的旧会签步骤，再为每人追加一条 pending。
		// 只清会签角色的步骤，上级/管理员的历史决定不能被覆盖
		filtered := p.ApprovalSteps[:0:0]
		for _, step := range p.ApprovalSteps {
			if step.UserRole == model.RoleApprover && seen[step.UserID] {
				continue
			}
			filtered = append(filtered, step)
		}
		p.ApprovalSteps = filtered
		for _, u := range approvers {
			p.ApprovalSteps = append(p.ApprovalSteps, model.ApprovalStep{
				UserID:   u.ID,
				UserName: displayName(u),
				UserRole: u.Role,
				Status:   model.StepPending,
			})
		}

		p.Approvers = model.StringArray(ids)
		p.PendingApprovers = model.StringArray(append([]string(nil), ids...))
		p.ApproversAssigned = true
		p.NeedsReassignment = false
		p.Status = model.StatusPendingApprovers
		return nil, nil
	})
}

// respondAsApprover 会签响应的公共路径。单个审批人的拒绝不会立刻否决提案，
// 始终等齐全部响应后再交给登记员裁定
func (s *Service) respondAsApprover(ctx context.Context, op, actorID, proposalID string, status model.StepStatus, reason string) (*model.Proposal, error) {
	return s.mutate(ctx, op, actorID, proposalID, func(actor *model.User, p *model.Proposal) (*model.Comment, error) {
		if err := authorize(op, actor, p); err != nil {
			return nil, err
		}
		if !p.Approvers.Contains(actor.ID) {
			return nil, authorizationError(op, p.ID, "user %s is not in the approver roster", actor.ID)
		}

		idx := p.StepIndexFor(actor.ID)
		if idx < 0 {
			return nil, stateError(op, p.ID, "no pending step found for approver %s", actor.ID)
		}
		if p.ApprovalSteps[idx].Status != model.StepPending {
			return nil, stateError(op, p.ID, "approver %s has already responded (%s)", actor.ID, p.ApprovalSteps[idx].Status)
		}

		p.ApprovalSteps[idx].Status = status
		p.ApprovalSteps[idx].Timestamp = nowMillis()
		p.ApprovalSteps[idx].Comment = reason

		// 维护缓存名单，会签完成判定只看审批历史
		remaining := p.PendingApprovers[:0:0]
		for _, id := range p.PendingApprovers {
			if id != actor.ID {
				remaining = append(remaining, id)
			}
		}
		p.PendingApprovers = model.StringArray(remaining)

		if hasAllApproversResponded(p) {
			p.Status = model.StatusPendingRegistrar
		}

		if status == model.StepRejected {
			return workflowComment(p.ID, actor, model.CommentPrefixRejected, reason), nil
		}
		return nil, nil
	})
}

// ApproveAsApprover 审批人批准
func (s *Service) ApproveAsApprover(ctx context.Context, actorID, proposalID, comment string) (*model.Proposal, error) {
	return s.respondAsApprover(ctx, opApproverApprove, actorID, proposalID, model.StepApproved, comment)
}

// RejectAsApprover 审批人拒绝，需要给出理由
func (s *Service) RejectAsApprover(ctx context.Context, actorID, proposalID, reason string) (*model.Proposal, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, validationError(opApproverReject, proposalID, "rejection reason is required")
	}
	return s.respondAsApprover(ctx, opApproverReject, actorID, proposalID, model.StepRejected, reason)
}

// AssignToRegistrar 管理员把会签完成的提案移交登记员。
// 还有审批人未响应时失败，名单不变
func (s *Service) AssignToRegistrar(ctx context.Context, actorID, proposalID string) (*model.Proposal, error) {
	return s.mutate(ctx, opAssignRegistrar, actorID, proposalID, func(actor *model.User, p *model.Proposal) (*model.Comment, error) {
		if err := authorize(opAssignRegistrar, actor, p); err != nil {
			return nil, err
		}
		if !p.ApproversAssigned || len(p.Approvers) == 0 {
			return nil, stateError(opAssignRegistrar, p.ID, "no approver roster has been assigned")
		}
		if !hasAllApproversResponded(p) {
			return nil, stateError(opAssignRegistrar, p.ID, "approvers have not all responded yet")
		}

		p.AssignedToRegistrar = true
		p.Status = model.StatusPendingRegistrar
		return nil, nil
	})
}

// ApproveAsRegistrar 登记员终审批准，提案进入终态
func (s *Service) ApproveAsRegistrar(ctx context.Context, actorID, proposalID, comment string) (*model.Proposal, error) {
	return s.mutate(ctx, opRegistrarApprove, actorID, proposalID, func(actor *model.User, p *model.Proposal) (*model.Comment, error) {
		if err := authorize(opRegistrarApprove, actor, p); err != nil {
			return nil, err
		}
		appendStep(p, actor, model.StepApproved, comment)
		p.Status = model.StatusApproved
		return nil, nil
	})
}

// RejectAsRegistrar 登记员拒绝。这是永久性拒绝，之后不允许重新提交
func (s *Service) RejectAsRegistrar(ctx context.Context, actorID, proposalID, reason string) (*model.Proposal, error) {
	return s.mutate(ctx, opRegistrarReject, actorID, proposalID, func(actor *model.User, p *model.Proposal) (*model.Comment, error) {
		if err := authorize(opRegistrarReject, actor, p); err != nil {
			return nil, err
		}
		if strings.TrimSpace(reason) == "" {
			return nil, validationError(opRegistrarReject, p.ID, "rejection reason is required")
		}

		appendStep(p, actor, model.StepRejected, reason)
		p.Status = model.StatusRejected
		p.RejectedBy = actor.ID
		p.RejectedByName = displayName(actor)
		p.RejectionReason = reason
		p.RejectedByRegistrar = true
		return workflowComment(p.ID, actor, model.CommentPrefixRejected, reason), nil
	})
}

// RequestRevisionAsRegistrar 登记员退回修改，下一轮必须重新指定审批人名单
func (s *Service) RequestRevisionAsRegistrar(ctx context.Context, actorID, proposalID, reason string) (*model.Proposal, error) {
	return s.mutate(ctx, opRegistrarRevision, actorID, proposalID, func(actor *model.User, p *model.Proposal) (*model.Comment, error) {
		if err := authorize(opRegistrarRevision, actor, p); err != nil {
			return nil, err
		}
		if strings.TrimSpace(reason) == "" {
			return nil, validationError(opRegistrarRevision, p.ID, "revision reason is required")
		}

		appendStep(p, actor, model.StepResubmit, reason)
		p.Status = model.StatusNeedsRevision
		p.NeedsReassignment = true
		p.RejectionReason = reason
		return workflowComment(p.ID, actor, model.CommentPrefixRegistrarRevision, reason), nil
	})
}

// Resubmit 创建人重新提交被拒绝或被退回的提案，流转从上级阶段重新开始。
// 登记员拒绝过的提案永久不可重新提交
func (s *Service) Resubmit(ctx context.Context, actorID, proposalID string) (*model.Proposal, error) {
	return s.mutate(ctx, opResubmit, actorID, proposalID, func(actor *model.User, p *model.Proposal) (*model.Comment, error) {
		if err := authorize(opResubmit, actor, p); err != nil {
			return nil, err
		}
		if actor.ID != p.CreatedBy {
			return nil, authorizationError(opResubmit, p.ID, "only the creator can resubmit a proposal")
		}
		if p.RejectedByRegistrar {
			return nil, stateError(opResubmit, p.ID, "proposal was rejected by the registrar and cannot be resubmitted")
		}

		assignee, err := s.resubmitAssignee(p)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		p.Status = model.StatusPendingSuperior
		p.AssignedTo = assignee.ID
		p.AssignedToName = displayName(assignee)
		p.RejectedBy = ""
		p.RejectedByName = ""
		p.RejectionReason = ""
		p.ApprovedBySuperior = false
		p.ApprovedByAdmin = false
		p.ApproversAssigned = false
		p.NeedsReassignment = false
		p.AssignedToRegistrar = false
		p.Approvers = model.StringArray{}
		p.PendingApprovers = model.StringArray{}
		p.Resubmitted = true
		p.ResubmittedAt = &now
		return nil, nil
	})
}

// resubmitAssignee 重新提交后的第一级处理人：当前处理人仍是上级角色时沿用，
// 否则（提案已经走到后段被退回）从目录里重新找一个上级
func (s *Service) resubmitAssignee(p *model.Proposal) (*model.User, error) {
	if p.AssignedTo != "" {
		u, err := s.users.FindUserByID(p.AssignedTo)
		if err == nil && u.Role == model.RoleSuperior {
			return u, nil
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	superiors, err := s.users.FindUsersByRole(model.RoleSuperior)
	if err != nil {
		return nil, err
	}
	if len(superiors) == 0 {
		return nil, notFoundError(opResubmit, p.ID, "no superior user available")
	}
	return &superiors[0], nil
}

// AddComment 任意登录用户追加讨论评论
func (s *Service) AddComment(ctx context.Context, actorID, proposalID, text string) (*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, validationError(opAddComment, proposalID, "comment text is required")
	}

	var created *model.Comment
	_, err := s.mutate(ctx, opAddComment, actorID, proposalID, func(actor *model.User, p *model.Proposal) (*model.Comment, error) {
		created = &model.Comment{
			ID:         uuid.New().String(),
			ProposalID: p.ID,
			UserID:     actor.ID,
			UserName:   displayName(actor),
			UserAvatar: actor.Avatar,
			Text:       text,
			Timestamp:  nowMillis(),
		}
		return created, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetProposal 查询单个提案
func (s *Service) GetProposal(ctx context.Context, proposalID string) (*model.Proposal, error) {
	proposal, err := s.proposals.FindProposalByID(proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("get", proposalID, "proposal not found")
		}
		return nil, err
	}
	return proposal, nil
}

// ListProposals 按视角查询提案列表。
// mine: 我创建的；assigned: 需要我处理的；all: 全部（管理员和登记员可见）
func (s *Service) ListProposals(ctx context.Context, actorID, filter string) ([]model.Proposal, error) {
	actor, err := s.findActor("list", actorID)
	if err != nil {
		return nil, err
	}

	switch filter {
	case "", "mine":
		return s.proposals.FindProposalsByCreator(actor.ID)
	case "assigned":
		candidates, err := s.proposals.FindAssignmentCandidates(actor.ID)
		if err != nil {
			return nil, err
		}
		result := make([]model.Proposal, 0, len(candidates))
		for _, p := range candidates {
			if needsAttentionOf(&p, actor) {
				result = append(result, p)
			}
		}
		return result, nil
	case "all":
		if actor.Role != model.RoleAdmin && actor.Role != model.RoleRegistrar {
			return nil, authorizationError("list", "", "role %s cannot view all proposals", actor.Role)
		}
		return s.proposals.FindAllProposals()
	default:
		return nil, validationError("list", "", "unknown filter %q (expected mine, assigned or all)", filter)
	}
}

// needsAttentionOf 提案当前是否等待该用户处理。已批准的提案一律不算
func needsAttentionOf(p *model.Proposal, actor *model.User) bool {
	if p.Status == model.StatusApproved {
		return false
	}
	if p.AssignedTo == actor.ID {
		return true
	}
	switch p.Status {
	case model.StatusPendingAdmin:
		return actor.Role == model.RoleAdmin
	case model.StatusPendingApprovers:
		return p.PendingApprovers.Contains(actor.ID)
	case model.StatusPendingRegistrar:
		return actor.Role == model.RoleRegistrar
	}
	return false
}
