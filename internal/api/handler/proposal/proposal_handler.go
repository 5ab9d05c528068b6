package proposal

import (
	"net/http"

	"github.com/RuchiketJadhav/sammati-approval/internal/model"
	"github.com/RuchiketJadhav/sammati-approval/internal/service/workflow"
	"github.com/gin-gonic/gin"
)

type ProposalHandler struct {
	workflowService *workflow.Service
}

func NewProposalHandler(workflowService *workflow.Service) *ProposalHandler {
	return &ProposalHandler{workflowService: workflowService}
}

// handleWorkflowError 把流转错误映射到对应的 HTTP 状态码
func handleWorkflowError(c *gin.Context, err error, context string) {
	model.HandleError(c, workflow.HTTPStatus(err), err, context)
}

// ListProposals 查询提案列表
// filter=mine: 我创建的；assigned: 需要我处理的；all: 全部（管理员/登记员）
func (h *ProposalHandler) ListProposals(c *gin.Context) {
	userID := c.GetString("user_id")
	filter := c.DefaultQuery("filter", "mine")

	proposals, err := h.workflowService.ListProposals(c.Request.Context(), userID, filter)
	if err != nil {
		handleWorkflowError(c, err, "查询提案列表失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(model.ProposalsResponse{
		Proposals: proposals,
		Total:     len(proposals),
	}))
}

// GetProposal 查询单个提案
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	proposal, err := h.workflowService.GetProposal(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleWorkflowError(c, err, "查询提案失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(proposal))
}

// CreateProposal 创建提案
func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	var req model.CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	userID := c.GetString("user_id")
	proposal, err := h.workflowService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleWorkflowError(c, err, "创建提案失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(proposal))
}

// UpdateProposal 编辑提案
func (h *ProposalHandler) UpdateProposal(c *gin.Context) {
	var req model.UpdateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	userID := c.GetString("user_id")
	proposal, err := h.workflowService.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		handleWorkflowError(c, err, "更新提案失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(proposal))
}

// DeleteProposal 删除提案
func (h *ProposalHandler) DeleteProposal(c *gin.Context) {
	userID := c.GetString("user_id")
	if err := h.workflowService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleWorkflowError(c, err, "删除提案失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(nil))
}

// GetProgress 查询审批进度
func (h *ProposalHandler) GetProgress(c *gin.Context) {
	progress, err := h.workflowService.GetProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleWorkflowError(c, err, "查询审批进度失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(progress))
}

// GetPendingApprovers 查询未响应的审批人
func (h *ProposalHandler) GetPendingApprovers(c *gin.Context) {
	pending, err := h.workflowService.GetPendingApprovers(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleWorkflowError(c, err, "查询待审批人失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(pending))
}

// AddComment 添加评论
func (h *ProposalHandler) AddComment(c *gin.Context) {
	var req model.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	userID := c.GetString("user_id")
	comment, err := h.workflowService.AddComment(c.Request.Context(), userID, c.Param("id"), req.Text)
	if err != nil {
		handleWorkflowError(c, err, "添加评论失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(comment))
}
