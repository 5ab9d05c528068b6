package model

import "time"

// UserRole 用户角色
type UserRole string

const (
	RoleUser      UserRole = "USER"      // 普通用户，可创建提案
	RoleSuperior  UserRole = "SUPERIOR"  // 直属上级，第一级审批
	RoleAdmin     UserRole = "ADMIN"     // 管理员，第二级审批并指定审批人组
	RoleApprover  UserRole = "APPROVER"  // 审批人，参与会签
	RoleRegistrar UserRole = "REGISTRAR" // 登记员，终审
)

// Valid 检查角色是否为已定义的枚举值
func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleSuperior, RoleAdmin, RoleApprover, RoleRegistrar:
		return true
	}
	return false
}

// User 用户
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username  string    `json:"username" gorm:"type:varchar(50);uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"type:varchar(100);not null"`
	Email     string    `json:"email" gorm:"type:varchar(100)"`
	FullName  string    `json:"full_name" gorm:"type:varchar(100)"`
	Avatar    string    `json:"avatar,omitempty" gorm:"type:varchar(255)"`
	Role      UserRole  `json:"role" gorm:"type:varchar(20);default:USER;index"`
	Status    int       `json:"status" gorm:"default:1"` // 1: 正常, 0: 禁用
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string   `json:"username" binding:"required"`
	Password string   `json:"password" binding:"required,min=6"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Role     UserRole `json:"role"`
}
