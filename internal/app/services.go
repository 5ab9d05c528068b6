package app

import (
	"time"

	"github.com/RuchiketJadhav/sammati-approval/internal/service/auth"
	"github.com/RuchiketJadhav/sammati-approval/internal/service/workflow"
	"github.com/RuchiketJadhav/sammati-approval/pkg/config"
	"github.com/RuchiketJadhav/sammati-approval/pkg/distributed"
	pkgredis "github.com/RuchiketJadhav/sammati-approval/pkg/redis"
)

// Services 包含所有 Service 实例
type Services struct {
	Auth     *auth.AuthService
	Workflow *workflow.Service
}

// InitializeServices 初始化所有 Service
func InitializeServices(repos *Repositories, cfg *config.Config) *Services {
	// Redis 不可用时 GetClient 返回 nil，锁退化为进程内互斥
	locker := distributed.NewProposalLocker(pkgredis.GetClient(), 30*time.Second)

	return &Services{
		Auth:     auth.NewAuthService(repos.User, cfg.Security.JWTSecret, cfg.Security.TokenTTL),
		Workflow: workflow.NewService(repos.Proposal, repos.User, locker),
	}
}
