package repository

import (
	"github.com/RuchiketJadhav/sammati-approval/internal/model"
	"gorm.io/gorm"
)

type ProposalTypeRepository struct {
	db *gorm.DB
}

func NewProposalTypeRepository(db *gorm.DB) *ProposalTypeRepository {
	return &ProposalTypeRepository{db: db}
}

func (r *ProposalTypeRepository) CreateType(t *model.CustomProposalType) error {
	return r.db.Create(t).Error
}

func (r *ProposalTypeRepository) FindTypeByID(id string) (*model.CustomProposalType, error) {
	var t model.CustomProposalType
	err := r.db.Preload("Fields", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).Where("id = ?", id).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ProposalTypeRepository) FindTypeByName(name string) (*model.CustomProposalType, error) {
	var types []model.CustomProposalType
	result := r.db.Where("name = ?", name).Find(&types)
	if result.Error != nil {
		return nil, result.Error
	}
	if len(types) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &types[0], nil
}

func (r *ProposalTypeRepository) FindAllTypes() ([]model.CustomProposalType, error) {
	var types []model.CustomProposalType
	err := r.db.Preload("Fields", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).Order("created_at ASC").Find(&types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

// UpdateType 更新类型并整体替换字段定义
func (r *ProposalTypeRepository) UpdateType(t *model.CustomProposalType) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("type_id = ?", t.ID).Delete(&model.ProposalField{}).Error; err != nil {
			return err
		}
		return tx.Save(t).Error
	})
}

// DeleteType 删除类型及其字段定义
func (r *ProposalTypeRepository) DeleteType(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("type_id = ?", id).Delete(&model.ProposalField{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.CustomProposalType{}).Error
	})
}

// CountProposalsOfType 统计使用指定类型的提案数量，用于删除前校验
func (r *ProposalTypeRepository) CountProposalsOfType(typeID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Proposal{}).Where("type = ?", typeID).Count(&count).Error
	return count, err
}
