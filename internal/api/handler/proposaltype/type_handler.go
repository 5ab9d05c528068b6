package proposaltype

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/RuchiketJadhav/sammati-approval/internal/model"
	"github.com/RuchiketJadhav/sammati-approval/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 内置提案类型的表单字段，不落库，随代码发布
var builtinFields = map[string][]model.ProposalField{
	model.TypeBudget: {
		{ID: "budget-amount", Name: "budget", Label: "Budget Amount", Type: model.FieldNumber,
			Required: true, Description: "Specify the exact budget amount needed"},
		{ID: "budget-timeline", Name: "timeline", Label: "Timeline", Type: model.FieldText,
			Description: "When do you need this approved by?"},
	},
	model.TypeEquipment: {
		{ID: "equipment-cost", Name: "budget", Label: "Estimated Cost", Type: model.FieldNumber,
			Required: true, Description: "The approximate cost of the requested equipment"},
		{ID: "equipment-justification", Name: "justification", Label: "Business Justification", Type: model.FieldTextarea,
			Required: true, Description: "Provide clear reasons why this equipment is needed"},
		{ID: "equipment-timeline", Name: "timeline", Label: "Timeline", Type: model.FieldText,
			Description: "When do you need this approved by?"},
	},
	model.TypeHiring: {
		{ID: "hiring-department", Name: "department", Label: "Department", Type: model.FieldText,
			Required: true, Description: "The department where the new position will be located"},
		{ID: "hiring-justification", Name: "justification", Label: "Hiring Justification", Type: model.FieldTextarea,
			Required: true, Description: "Provide clear reasons why this position needs to be filled"},
		{ID: "hiring-timeline", Name: "timeline", Label: "Timeline", Type: model.FieldText,
			Description: "When do you need this position filled by?"},
	},
	model.TypeOther: {},
}

type ProposalTypeHandler struct {
	repo *repository.ProposalTypeRepository
}

func NewProposalTypeHandler(repo *repository.ProposalTypeRepository) *ProposalTypeHandler {
	return &ProposalTypeHandler{repo: repo}
}

// ListTypes 查询全部自定义提案类型
func (h *ProposalTypeHandler) ListTypes(c *gin.Context) {
	types, err := h.repo.FindAllTypes()
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "查询提案类型失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(types))
}

// GetType 查询单个自定义提案类型
func (h *ProposalTypeHandler) GetType(c *gin.Context) {
	t, err := h.repo.FindTypeByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			model.HandleError(c, http.StatusNotFound, err, "提案类型不存在")
			return
		}
		model.HandleError(c, http.StatusInternalServerError, err, "查询提案类型失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(t))
}

// GetFieldsByQuery 按 ?type= 查询表单字段，前端创建提案时使用
func (h *ProposalTypeHandler) GetFieldsByQuery(c *gin.Context) {
	typeID := c.Query("type")
	if typeID == "" {
		model.HandleError(c, http.StatusBadRequest, fmt.Errorf("缺少 type 参数"))
		return
	}
	h.lookupFields(c, typeID)
}

// GetTypeFields 查询指定类型的表单字段，内置类型和自定义类型都支持
func (h *ProposalTypeHandler) GetTypeFields(c *gin.Context) {
	h.lookupFields(c, c.Param("id"))
}

func (h *ProposalTypeHandler) lookupFields(c *gin.Context, typeID string) {
	if fields, ok := builtinFields[typeID]; ok {
		c.JSON(http.StatusOK, model.Success(fields))
		return
	}

	t, err := h.repo.FindTypeByID(typeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			model.HandleError(c, http.StatusNotFound, err, "提案类型不存在")
			return
		}
		model.HandleError(c, http.StatusInternalServerError, err, "查询提案类型失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(t.Fields))
}

// CreateType 创建自定义提案类型
func (h *ProposalTypeHandler) CreateType(c *gin.Context) {
	var req model.CreateProposalTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	if _, err := h.repo.FindTypeByName(req.Name); err == nil {
		model.HandleError(c, http.StatusBadRequest, fmt.Errorf("类型名称已存在: %s", req.Name))
		return
	}

	t := &model.CustomProposalType{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   c.GetString("user_id"),
		Fields:      buildFields("", req.Fields),
	}
	for i := range t.Fields {
		t.Fields[i].TypeID = t.ID
	}

	if err := h.repo.CreateType(t); err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "创建提案类型失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(t))
}

// UpdateType 更新自定义提案类型，字段整体替换
func (h *ProposalTypeHandler) UpdateType(c *gin.Context) {
	var req model.UpdateProposalTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	t, err := h.repo.FindTypeByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			model.HandleError(c, http.StatusNotFound, err, "提案类型不存在")
			return
		}
		model.HandleError(c, http.StatusInternalServerError, err, "查询提案类型失败")
		return
	}

	if req.Name != "" {
		t.Name = req.Name
	}
	if req.Description != "" {
		t.Description = req.Description
	}
	if req.Fields != nil {
		t.Fields = buildFields(t.ID, req.Fields)
	}

	if err := h.repo.UpdateType(t); err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "更新提案类型失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(t))
}

// DeleteType 删除自定义提案类型，仍被提案引用时不允许删除
func (h *ProposalTypeHandler) DeleteType(c *gin.Context) {
	typeID := c.Param("id")

	count, err := h.repo.CountProposalsOfType(typeID)
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "查询类型引用失败")
		return
	}
	if count > 0 {
		model.HandleError(c, http.StatusConflict,
			fmt.Errorf("还有 %d 个提案在使用该类型，不能删除", count))
		return
	}

	if err := h.repo.DeleteType(typeID); err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "删除提案类型失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(nil))
}

func buildFields(typeID string, inputs []model.ProposalFieldInput) []model.ProposalField {
	fields := make([]model.ProposalField, 0, len(inputs))
	for i, in := range inputs {
		fieldType := in.Type
		if fieldType == "" {
			fieldType = model.FieldText
		}
		fields = append(fields, model.ProposalField{
			ID:          uuid.New().String(),
			TypeID:      typeID,
			Name:        in.Name,
			Label:       in.Label,
			Type:        fieldType,
			Required:    in.Required,
			Description: in.Description,
			Options:     model.StringArray(in.Options),
			SortOrder:   i,
		})
	}
	return fields
}
