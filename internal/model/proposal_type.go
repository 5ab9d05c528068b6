package model

import "time"

// FieldType 自定义表单字段类型
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldSelect   FieldType = "select"
)

// ProposalField 提案类型的表单字段定义
type ProposalField struct {
	ID          string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TypeID      string      `json:"type_id" gorm:"type:varchar(36);not null;index"`
	Name        string      `json:"name" gorm:"type:varchar(50);not null"` // 字段键名
	Label       string      `json:"label" gorm:"type:varchar(100)"`
	Type        FieldType   `json:"type" gorm:"type:varchar(20);default:text"`
	Required    bool        `json:"required" gorm:"default:false"`
	Description string      `json:"description,omitempty" gorm:"type:varchar(255)"`
	Options     StringArray `json:"options,omitempty" gorm:"type:json"` // select 类型的可选值
	SortOrder   int         `json:"sort_order" gorm:"default:0"`
}

// TableName 指定表名
func (ProposalField) TableName() string {
	return "proposal_fields"
}

// CustomProposalType 自定义提案类型
type CustomProposalType struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string          `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	Description string          `json:"description" gorm:"type:varchar(255)"`
	CreatedBy   string          `json:"created_by" gorm:"type:varchar(36)"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	Fields      []ProposalField `json:"fields" gorm:"foreignKey:TypeID;references:ID"`
}

// TableName 指定表名
func (CustomProposalType) TableName() string {
	return "proposal_types"
}

// CreateProposalTypeRequest 创建自定义提案类型请求
type CreateProposalTypeRequest struct {
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description"`
	Fields      []ProposalFieldInput `json:"fields"`
}

// UpdateProposalTypeRequest 更新自定义提案类型请求
type UpdateProposalTypeRequest struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Fields      []ProposalFieldInput `json:"fields"`
}

// ProposalFieldInput 字段定义入参
type ProposalFieldInput struct {
	Name        string    `json:"name" binding:"required"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Description string    `json:"description"`
	Options     []string  `json:"options"`
}
