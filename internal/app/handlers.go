package app

import (
	"github.com/RuchiketJadhav/sammati-approval/internal/api/handler"
)

// Handlers 包含所有 Handler 实例
type Handlers struct {
	Auth         *handler.AuthHandler
	Proposal     *handler.ProposalHandler
	Approval     *handler.ApprovalHandler
	ProposalType *handler.ProposalTypeHandler
}

// InitializeHandlers 初始化所有 Handler
func InitializeHandlers(repos *Repositories, services *Services) *Handlers {
	return &Handlers{
		Auth:         handler.NewAuthHandler(services.Auth),
		Proposal:     handler.NewProposalHandler(services.Workflow),
		Approval:     handler.NewApprovalHandler(services.Workflow),
		ProposalType: handler.NewProposalTypeHandler(repos.ProposalType),
	}
}
