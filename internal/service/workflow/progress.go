package workflow

import (
	"context"

	"github.com/RuchiketJadhav/sammati-approval/internal/model"
)

// Progress 从审批历史投影出的只读进度视图
type Progress struct {
	ProposalID       string               `json:"proposal_id"`
	Status           model.ProposalStatus `json:"status"`
	Percent          int                  `json:"percent"`
	TotalSteps       int                  `json:"total_steps"`
	CompletedSteps   int                  `json:"completed_steps"`
	PendingApprovers model.StringArray    `json:"pending_approvers"`
}

// GetProgress 计算提案的审批进度。
// 只有 approved/rejected 算完成，pending 和 resubmit 不算；没有步骤时为 0
func (s *Service) GetProgress(ctx context.Context, proposalID string) (*Progress, error) {
	proposal, err := s.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	total := len(proposal.ApprovalSteps)
	completed := 0
	for _, step := range proposal.ApprovalSteps {
		if step.Status == model.StepApproved || step.Status == model.StepRejected {
			completed++
		}
	}

	percent := 0
	if total > 0 {
		percent = completed * 100 / total
	}

	return &Progress{
		ProposalID:       proposal.ID,
		Status:           proposal.Status,
		Percent:          percent,
		TotalSteps:       total,
		CompletedSteps:   completed,
		PendingApprovers: pendingView(proposal),
	}, nil
}

// GetPendingApprovers 当前轮次尚未响应的审批人
func (s *Service) GetPendingApprovers(ctx context.Context, proposalID string) (model.StringArray, error) {
	proposal, err := s.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	return pendingView(proposal), nil
}

func pendingView(p *model.Proposal) model.StringArray {
	if p.PendingApprovers == nil {
		return model.StringArray{}
	}
	return p.PendingApprovers
}
