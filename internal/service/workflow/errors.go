package workflow

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind 流转失败的归类，决定 HTTP 状态码和前端提示方式
type ErrorKind string

const (
	KindAuthorization ErrorKind = "authorization" // 角色不允许执行该操作
	KindState         ErrorKind = "state"         // 提案不在要求的状态
	KindNotFound      ErrorKind = "not_found"     // 提案或用户不存在
	KindValidation    ErrorKind = "validation"    // 入参缺失或非法
)

// Error 流转前置条件失败。失败的流转不落库，提案保持原状
type Error struct {
	Kind       ErrorKind
	Op         string // 操作名，如 "approve", "assign_approvers"
	ProposalID string
	Message    string
}

func (e *Error) Error() string {
	if e.ProposalID == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: proposal %s: %s", e.Op, e.ProposalID, e.Message)
}

func authorizationError(op, proposalID, format string, args ...interface{}) *Error {
	return &Error{Kind: KindAuthorization, Op: op, ProposalID: proposalID, Message: fmt.Sprintf(format, args...)}
}

func stateError(op, proposalID, format string, args ...interface{}) *Error {
	return &Error{Kind: KindState, Op: op, ProposalID: proposalID, Message: fmt.Sprintf(format, args...)}
}

func notFoundError(op, proposalID, format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Op: op, ProposalID: proposalID, Message: fmt.Sprintf(format, args...)}
}

func validationError(op, proposalID, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Op: op, ProposalID: proposalID, Message: fmt.Sprintf(format, args...)}
}

// KindOf 返回错误的归类，非流转错误返回空串
func KindOf(err error) ErrorKind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	return ""
}

// IsAuthorization 角色不允许
func IsAuthorization(err error) bool { return KindOf(err) == KindAuthorization }

// IsState 状态不匹配
func IsState(err error) bool { return KindOf(err) == KindState }

// IsNotFound 目标不存在
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsValidation 入参非法
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// HTTPStatus 把流转错误映射到 HTTP 状态码
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindAuthorization:
		return http.StatusForbidden
	case KindState:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
