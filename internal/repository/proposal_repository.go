package repository

import (
	"github.com/RuchiketJadhav/sammati-approval/internal/model"
	"gorm.io/gorm"
)

type ProposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

func (r *ProposalRepository) CreateProposal(proposal *model.Proposal) error {
	return r.db.Create(proposal).Error
}

func (r *ProposalRepository) FindProposalByID(id string) (*model.Proposal, error) {
	var proposal model.Proposal
	err := r.db.Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Order("timestamp ASC")
	}).Where("id = ?", id).First(&proposal).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *ProposalRepository) FindAllProposals() ([]model.Proposal, error) {
	var proposals []model.Proposal
	err := r.db.Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Order("timestamp ASC")
	}).Order("created_at DESC").Find(&proposals).Error
	if err != nil {
		return nil, err
	}
	return proposals, nil
}

func (r *ProposalRepository) FindProposalsByCreator(userID string) ([]model.Proposal, error) {
	var proposals []model.Proposal
	err := r.db.Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Order("timestamp ASC")
	}).Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&proposals).Error
	if err != nil {
		return nil, err
	}
	return proposals, nil
}

// FindAssignmentCandidates 查询可能需要指定用户处理的提案：当前处理人是该用户，
// 或处于按角色分派的阶段（管理员/会签/登记员）。会签名单是 JSON 列，
// 成员判断和角色判断由服务层在内存里完成。
// 已批准的提案不再需要任何人处理，直接排除
func (r *ProposalRepository) FindAssignmentCandidates(userID string) ([]model.Proposal, error) {
	var proposals []model.Proposal
	err := r.db.Where("status <> ?", model.StatusApproved).
		Where("assigned_to = ? OR status IN ?", userID, []model.ProposalStatus{
			model.StatusPendingAdmin,
			model.StatusPendingApprovers,
			model.StatusPendingRegistrar,
		}).
		Order("created_at DESC").
		Find(&proposals).Error
	if err != nil {
		return nil, err
	}
	return proposals, nil
}

// SaveProposal 整行保存，提案的状态流转靠单行写入保证原子性
func (r *ProposalRepository) SaveProposal(proposal *model.Proposal) error {
	return r.db.Omit("Comments").Save(proposal).Error
}

// DeleteProposal 删除提案及其评论
func (r *ProposalRepository) DeleteProposal(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("proposal_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Proposal{}).Error
	})
}

func (r *ProposalRepository) AddComment(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

func (r *ProposalRepository) FindComments(proposalID string) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.Where("proposal_id = ?", proposalID).
		Order("timestamp ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
