package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ProposalStatus 提案状态
type ProposalStatus string

const (
	StatusDraft            ProposalStatus = "DRAFT"             // 草稿
	StatusPendingSuperior  ProposalStatus = "PENDING_SUPERIOR"  // 待直属上级审批
	StatusPendingAdmin     ProposalStatus = "PENDING_ADMIN"     // 待管理员审批
	StatusPendingApprovers ProposalStatus = "PENDING_APPROVERS" // 待审批人组会签
	StatusPendingRegistrar ProposalStatus = "PENDING_REGISTRAR" // 待登记员终审
	StatusNeedsRevision    ProposalStatus = "NEEDS_REVISION"    // 需要修改
	StatusApproved         ProposalStatus = "APPROVED"          // 已批准（终态）
	StatusRejected         ProposalStatus = "REJECTED"          // 已拒绝
)

// Valid 检查状态是否为已定义的枚举值
func (s ProposalStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPendingSuperior, StatusPendingAdmin,
		StatusPendingApprovers, StatusPendingRegistrar,
		StatusNeedsRevision, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ProposalType 内置提案类型（type 字段也可以是自定义类型ID）
const (
	TypeBudget    = "BUDGET"
	TypeEquipment = "EQUIPMENT"
	TypeHiring    = "HIRING"
	TypeOther     = "OTHER"
)

// StepStatus 审批步骤状态
type StepStatus string

const (
	StepPending  StepStatus = "pending"  // 等待响应
	StepApproved StepStatus = "approved" // 已批准
	StepRejected StepStatus = "rejected" // 已拒绝
	StepResubmit StepStatus = "resubmit" // 要求重新提交
)

// Responded 步骤是否已给出最终响应（pending 不算）
func (s StepStatus) Responded() bool {
	return s == StepApproved || s == StepRejected || s == StepResubmit
}

// 工单流程自动生成评论的前缀约定，前端据此区分流程评论和普通讨论，
// 属于对外契约，不能改动
const (
	CommentPrefixRejected          = "Rejected: "
	CommentPrefixRevision          = "Revision requested: "
	CommentPrefixRegistrarRevision = "Revision requested by Registrar: "
)

// StringArray 字符串数组类型，以 JSON 数组存储
type StringArray []string

// Scan 实现 sql.Scanner 接口
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = []string{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// Value 实现 driver.Valuer 接口
func (s StringArray) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Contains 判断是否包含指定元素
func (s StringArray) Contains(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// ApprovalStep 一条审批记录：某个审批角色对提案的一次响应。
// 用户名和角色在写入时快照，之后不再重新查询
type ApprovalStep struct {
	UserID    string     `json:"user_id"`
	UserName  string     `json:"user_name"`
	UserRole  UserRole   `json:"user_role"`
	Status    StepStatus `json:"status"`
	Timestamp int64      `json:"timestamp,omitempty"` // 毫秒时间戳，pending 时为 0
	Comment   string     `json:"comment,omitempty"`
}

// ApprovalStepList 审批步骤序列，以 JSON 数组存储，只追加
type ApprovalStepList []ApprovalStep

// Scan 实现 sql.Scanner 接口
func (l *ApprovalStepList) Scan(value interface{}) error {
	if value == nil {
		*l = ApprovalStepList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// Value 实现 driver.Valuer 接口
func (l ApprovalStepList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Proposal 提案
type Proposal struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string `json:"title" gorm:"type:varchar(200);not null"`
	Description string `json:"description" gorm:"type:text"`
	Type        string `json:"type" gorm:"type:varchar(50);default:OTHER;index"` // 内置类型或自定义类型ID

	// 固定表单字段（旧版表单）
	Budget        string `json:"budget,omitempty" gorm:"type:varchar(100)"`
	Timeline      string `json:"timeline,omitempty" gorm:"type:varchar(200)"`
	Justification string `json:"justification,omitempty" gorm:"type:text"`
	Department    string `json:"department,omitempty" gorm:"type:varchar(100)"`

	// 自定义类型的动态表单值，引擎不感知具体结构
	FieldValues datatypes.JSONMap `json:"field_values,omitempty" gorm:"type:json"`

	// 申请人信息（名称在创建时快照，之后不再重新查询）
	CreatedBy     string `json:"created_by" gorm:"type:varchar(36);not null;index"`
	CreatedByName string `json:"created_by_name" gorm:"type:varchar(100)"`

	// 当前处理人，随 Superior → Admin 阶段推进而变更
	AssignedTo     string `json:"assigned_to" gorm:"type:varchar(36);index"`
	AssignedToName string `json:"assigned_to_name" gorm:"type:varchar(100)"`

	Status ProposalStatus `json:"status" gorm:"type:varchar(30);default:PENDING_SUPERIOR;index"`

	// 会签状态：approvers 是本轮固定名单，pending_approvers 是其中尚未响应的子集
	Approvers           StringArray `json:"approvers" gorm:"type:json"`
	PendingApprovers    StringArray `json:"pending_approvers" gorm:"type:json"`
	ApproversAssigned   bool        `json:"approvers_assigned" gorm:"default:false"`
	NeedsReassignment   bool        `json:"needs_reassignment" gorm:"default:false"` // 修改周期后必须重新指定审批人
	AssignedToRegistrar bool        `json:"assigned_to_registrar" gorm:"default:false"`

	// 审批历史，只追加，是权威审计记录
	ApprovalSteps ApprovalStepList `json:"approval_steps" gorm:"type:json"`

	ApprovedBySuperior bool `json:"approved_by_superior" gorm:"default:false"`
	ApprovedByAdmin    bool `json:"approved_by_admin" gorm:"default:false"`

	// 拒绝/修改记录
	RejectedBy          string `json:"rejected_by,omitempty" gorm:"type:varchar(36)"`
	RejectedByName      string `json:"rejected_by_name,omitempty" gorm:"type:varchar(100)"`
	RejectionReason     string `json:"rejection_reason,omitempty" gorm:"type:text"`
	RejectedByRegistrar bool   `json:"rejected_by_registrar" gorm:"default:false"` // 登记员拒绝后永久禁止重新提交

	Resubmitted   bool       `json:"resubmitted" gorm:"default:false"`
	ResubmittedAt *time.Time `json:"resubmitted_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Comments []Comment `json:"comments" gorm:"foreignKey:ProposalID;references:ID"`
}

// TableName 指定表名
func (Proposal) TableName() string {
	return "proposals"
}

// StepIndexFor 返回指定用户在审批历史中最后一条步骤的下标，找不到返回 -1。
// 重新指派会清掉旧轮次的步骤，所以同一用户正常只有一条
func (p *Proposal) StepIndexFor(userID string) int {
	for i := len(p.ApprovalSteps) - 1; i >= 0; i-- {
		if p.ApprovalSteps[i].UserID == userID {
			return i
		}
	}
	return -1
}

// Comment 提案评论，创建后不可变更
type Comment struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProposalID string    `json:"proposal_id" gorm:"type:varchar(36);not null;index"`
	UserID     string    `json:"user_id" gorm:"type:varchar(36);not null"`
	UserName   string    `json:"user_name" gorm:"type:varchar(100)"`
	UserAvatar string    `json:"user_avatar,omitempty" gorm:"type:varchar(255)"`
	Text       string    `json:"text" gorm:"type:text;not null"`
	Timestamp  int64     `json:"timestamp"` // 毫秒时间戳
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (Comment) TableName() string {
	return "proposal_comments"
}

// CreateProposalRequest 创建提案请求
type CreateProposalRequest struct {
	Title         string                 `json:"title" binding:"required"`
	Description   string                 `json:"description"`
	Type          string                 `json:"type"`
	AssignedTo    string                 `json:"assigned_to" binding:"required"` // 直属上级ID
	Budget        string                 `json:"budget"`
	Timeline      string                 `json:"timeline"`
	Justification string                 `json:"justification"`
	Department    string                 `json:"department"`
	FieldValues   map[string]interface{} `json:"field_values"`
}

// UpdateProposalRequest 编辑提案请求，零值字段不更新
type UpdateProposalRequest struct {
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	Type          string                 `json:"type"`
	AssignedTo    string                 `json:"assigned_to"`
	Budget        string                 `json:"budget"`
	Timeline      string                 `json:"timeline"`
	Justification string                 `json:"justification"`
	Department    string                 `json:"department"`
	FieldValues   map[string]interface{} `json:"field_values"`
}

// DecisionRequest 批准类操作的请求体，评论可选
type DecisionRequest struct {
	Comment string `json:"comment"`
}

// RejectRequest 拒绝/要求修改类操作的请求体，原因必填（引擎校验）
type RejectRequest struct {
	Reason string `json:"reason"`
}

// AssignApproversRequest 指定审批人名单请求
type AssignApproversRequest struct {
	ApproverIDs []string `json:"approver_ids"`
}

// AddCommentRequest 添加评论请求
type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}
