package router

import (
	"net/http"

	"github.com/RuchiketJadhav/sammati-approval/internal/api/handler"
	"github.com/RuchiketJadhav/sammati-approval/internal/api/middleware"
	"github.com/RuchiketJadhav/sammati-approval/internal/service/auth"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup 配置所有路由
func Setup(
	authHandler *handler.AuthHandler,
	proposalHandler *handler.ProposalHandler,
	approvalHandler *handler.ApprovalHandler,
	typeHandler *handler.ProposalTypeHandler,
	authService *auth.AuthService,
	mode string,
) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}

	r := gin.New()

	// 使用自定义的 recovery 中间件（打印详细错误信息）
	r.Use(middleware.RecoveryMiddleware())
	// 使用 Gin 的 Logger 中间件（记录请求日志）
	r.Use(gin.Logger())

	// 中间件
	r.Use(middleware.CORS())
	r.Use(middleware.MetricsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 公开API（不需要认证）
	api := r.Group("/api")
	{
		// 认证相关（公开）
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	// 需要认证的API
	authenticated := api.Group("")
	authenticated.Use(middleware.AuthMiddleware(authService))
	{
		// 用户相关
		authenticated.GET("/auth/me", authHandler.GetCurrentUser)

		// 用户列表（指派审批人时按角色筛选）
		authenticated.GET("/users", authHandler.ListUsers)

		// Proposals (提案管理)
		proposals := authenticated.Group("/proposals")
		{
			proposals.GET("", proposalHandler.ListProposals) // ?filter=mine|assigned|all
			proposals.POST("", proposalHandler.CreateProposal)
			proposals.GET("/:id", proposalHandler.GetProposal)
			proposals.PUT("/:id", proposalHandler.UpdateProposal)
			proposals.DELETE("/:id", proposalHandler.DeleteProposal)
			proposals.GET("/:id/progress", proposalHandler.GetProgress)                  // 审批进度
			proposals.GET("/:id/pending-approvers", proposalHandler.GetPendingApprovers) // 待响应审批人
			proposals.POST("/:id/comments", proposalHandler.AddComment)

			// 上级/管理员审批动作
			proposals.POST("/:id/approve", approvalHandler.Approve)
			proposals.POST("/:id/reject", approvalHandler.Reject)
			proposals.POST("/:id/revision", approvalHandler.RequestRevision)
			proposals.POST("/:id/resubmit", approvalHandler.Resubmit)

			// 审批人环节
			proposals.POST("/:id/approvers", middleware.AdminMiddleware(), approvalHandler.AssignApprovers) // 指派审批人
			proposals.POST("/:id/approvers/approve", approvalHandler.ApproveAsApprover)
			proposals.POST("/:id/approvers/reject", approvalHandler.RejectAsApprover)

			// 登记员环节
			proposals.POST("/:id/registrar/assign", middleware.AdminMiddleware(), approvalHandler.AssignToRegistrar)
			proposals.POST("/:id/registrar/approve", approvalHandler.ApproveAsRegistrar)
			proposals.POST("/:id/registrar/reject", approvalHandler.RejectAsRegistrar)
			proposals.POST("/:id/registrar/revision", approvalHandler.RequestRevisionAsRegistrar)
		}

		// Proposal Types (提案类型管理)
		// 创建提案时按类型取字段定义
		authenticated.GET("/proposal-fields", typeHandler.GetFieldsByQuery) // ?type=

		types := authenticated.Group("/proposal-types")
		{
			types.GET("", typeHandler.ListTypes)
			types.GET("/:id", typeHandler.GetType)
			types.GET("/:id/fields", typeHandler.GetTypeFields) // 获取类型的表单字段
			types.POST("", middleware.AdminMiddleware(), typeHandler.CreateType)
			types.PUT("/:id", middleware.AdminMiddleware(), typeHandler.UpdateType)
			types.DELETE("/:id", middleware.AdminMiddleware(), typeHandler.DeleteType)
		}
	}

	return r
}
