package app

import (
	"github.com/RuchiketJadhav/sammati-approval/internal/repository"
	"github.com/RuchiketJadhav/sammati-approval/pkg/database"
)

// Repositories 包含所有 Repository 实例
type Repositories struct {
	User         *repository.UserRepository
	Proposal     *repository.ProposalRepository
	ProposalType *repository.ProposalTypeRepository
}

// InitializeRepositories 初始化所有 Repository
func InitializeRepositories() *Repositories {
	return &Repositories{
		User:         repository.NewUserRepository(database.DB),
		Proposal:     repository.NewProposalRepository(database.DB),
		ProposalType: repository.NewProposalTypeRepository(database.DB),
	}
}
