package auth

import (
	"errors"
	"net/http"

	"github.com/RuchiketJadhav/sammati-approval/internal/model"
	"github.com/RuchiketJadhav/sammati-approval/internal/service/auth"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	authService *auth.AuthService
}

func NewAuthHandler(authService *auth.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login 用户登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		model.HandleError(c, http.StatusUnauthorized, err, "登录失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(resp))
}

// Register 用户注册
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "注册失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(user))
}

// GetCurrentUser 查询当前登录用户
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID := c.GetString("user_id")

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			model.HandleError(c, http.StatusNotFound, err, "用户不存在")
			return
		}
		model.HandleError(c, http.StatusInternalServerError, err, "查询用户失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(user))
}

// ListUsers 查询用户列表，支持按角色过滤（选择上级/审批人时使用）
func (h *AuthHandler) ListUsers(c *gin.Context) {
	role := c.Query("role")

	var (
		users []model.User
		err   error
	)
	if role != "" {
		users, err = h.authService.GetUsersByRole(model.UserRole(role))
	} else {
		users, err = h.authService.GetAllUsers()
	}
	if err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "查询用户列表失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(users))
}
