package proposal

import (
	"net/http"

	"github.com/RuchiketJadhav/sammati-approval/internal/model"
	"github.com/RuchiketJadhav/sammati-approval/internal/service/workflow"
	"github.com/gin-gonic/gin"
)

// ApprovalHandler 提案流转接口：审批、拒绝、退回、会签、终审、重新提交
type ApprovalHandler struct {
	workflowService *workflow.Service
}

func NewApprovalHandler(workflowService *workflow.Service) *ApprovalHandler {
	return &ApprovalHandler{workflowService: workflowService}
}

// Approve 上级/管理员批准，阶段由提案当前状态决定
func (h *ApprovalHandler) Approve(c *gin.Context) {
	var req model.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	userID := c.GetString("user_id")
	proposal, err := h.workflowService.Approve(c.Request.Context(), userID, c.Param("id"), req.Comment)
	if err != nil {
		handleWorkflowError(c, err, "批准提案失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(proposal))
}

// Reject 上级/管理员拒绝
func (h *ApprovalHandler) Reject(c *gin.Context) {
	var req model.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	userID := c.GetString("user_id")
	proposal, err := h.workflowService.Reject(c.Request.Context(), userID, c.Param("id"), req.Reason)
	if err != nil {
		handleWorkflowError(c, err, "拒绝提案失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(proposal))
}

// RequestRevision 上级/管理员退回修改
func (h *ApprovalHandler) RequestRevision(c *gin.Context) {
	var req model.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	userID := c.GetString("user_id")
	proposal, err := h.workflowService.RequestRevision(c.Request.Context(), userID, c.Param("id"), req.Reason)
	if err != nil {
		handleWorkflowError(c, err, "退回修改失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(proposal))
}

// AssignApprovers 管理员指定会签名单
func (h *ApprovalHandler) AssignApprovers(c *gin.Context) {
	var req model.AssignApproversRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	userID := c.GetString("user_id")
	proposal, err := h.workflowService.AssignApprovers(c.Request.Context(), userID, c.Param("id"), req.ApproverIDs)
	if err != nil {
		handleWorkflowError(c, err, "指定审批人失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(proposal))
}

// ApproveAsApprover 审批人批准
func (h *ApprovalHandler) ApproveAsApprover(c *gin.Context) {
	var req model.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	userID := c.GetString("user_id")
	proposal, err := h.workflowService.ApproveAsApprover(c.Request.Context(), userID, c.Param("id"), req.Comment)
	if err != nil {
		handleWorkflowError(c, err, "会签批准失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(proposal))
}

// RejectAsApprover 审批人拒绝
func (h *ApprovalHandler) RejectAsApprover(c *gin.Context) {
	var req model.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	userID := c.GetString("user_id")
	proposal, err := h.workflowService.RejectAsApprover(c.Request.Context(), userID, c.Param("id"), req.Reason)
	if err != nil {
		handleWorkflowError(c, err, "会签拒绝失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(proposal))
}

// AssignToRegistrar 管理员把会签完成的提案移交登记员
func (h *ApprovalHandler) AssignToRegistrar(c *gin.Context) {
	userID := c.GetString("user_id")
	proposal, err := h.workflowService.AssignToRegistrar(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleWorkflowError(c, err, "移交登记员失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(proposal))
}

// ApproveAsRegistrar 登记员终审批准
func (h *ApprovalHandler) ApproveAsRegistrar(c *gin.Context) {
	var req model.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	userID := c.GetString("user_id")
	proposal, err := h.workflowService.ApproveAsRegistrar(c.Request.Context(), userID, c.Param("id"), req.Comment)
	if err != nil {
		handleWorkflowError(c, err, "终审批准失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(proposal))
}

// RejectAsRegistrar 登记员拒绝（永久，不可重新提交）
func (h *ApprovalHandler) RejectAsRegistrar(c *gin.Context) {
	var req model.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	userID := c.GetString("user_id")
	proposal, err := h.workflowService.RejectAsRegistrar(c.Request.Context(), userID, c.Param("id"), req.Reason)
	if err != nil {
		handleWorkflowError(c, err, "终审拒绝失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(proposal))
}

// RequestRevisionAsRegistrar 登记员退回修改
func (h *ApprovalHandler) RequestRevisionAsRegistrar(c *gin.Context) {
	var req model.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	userID := c.GetString("user_id")
	proposal, err := h.workflowService.RequestRevisionAsRegistrar(c.Request.Context(), userID, c.Param("id"), req.Reason)
	if err != nil {
		handleWorkflowError(c, err, "登记员退回失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(proposal))
}

// Resubmit 创建人重新提交
func (h *ApprovalHandler) Resubmit(c *gin.Context) {
	userID := c.GetString("user_id")
	proposal, err := h.workflowService.Resubmit(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleWorkflowError(c, err, "重新提交失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(proposal))
}
