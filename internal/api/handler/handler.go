// Package handler 提供统一的 handler 导出
// 所有 handler 按功能模块分类到子目录中
package handler

import (
	authHandler "github.com/RuchiketJadhav/sammati-approval/internal/api/handler/auth"
	proposalHandler "github.com/RuchiketJadhav/sammati-approval/internal/api/handler/proposal"
	typeHandler "github.com/RuchiketJadhav/sammati-approval/internal/api/handler/proposaltype"
)

// Auth handlers
type AuthHandler = authHandler.AuthHandler

var NewAuthHandler = authHandler.NewAuthHandler

// Proposal handlers
type ProposalHandler = proposalHandler.ProposalHandler
type ApprovalHandler = proposalHandler.ApprovalHandler

var NewProposalHandler = proposalHandler.NewProposalHandler
var NewApprovalHandler = proposalHandler.NewApprovalHandler

// Proposal type handlers
type ProposalTypeHandler = typeHandler.ProposalTypeHandler

var NewProposalTypeHandler = typeHandler.NewProposalTypeHandler
