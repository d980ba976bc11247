// Package service 实现业务用例：认证、角色权限、内容工作流、审核、推荐、标签、统计与审计.
//
// 服务从 context 中取得存储客户端（见 pkg/context），核心打分逻辑委托给 pkg/rbac、
// pkg/moderation、pkg/recommend 与 pkg/tagging，本包只负责取数、持久化与副作用.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/sloopymg1/ghana-creative-platform/pkg/configs"
	ctxPkg "github.com/sloopymg1/ghana-creative-platform/pkg/context"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage/db"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage/kv"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage/mq"
	"github.com/sloopymg1/ghana-creative-platform/pkg/rule"
)

var (
	// ErrNotFound 资源不存在或已删除.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials 邮箱或密码错误.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountDisabled 账户被暂停或封禁.
	ErrAccountDisabled = errors.New("account is suspended or banned")
	// ErrEmailTaken 邮箱已注册.
	ErrEmailTaken = errors.New("email already registered")
	// ErrValidation 输入不合法.
	ErrValidation = errors.New("validation failed")
	// ErrConflict 当前状态不允许该操作.
	ErrConflict = errors.New("operation not allowed in current state")
)

// ValidationError 字段级校验错误，errors.Is(err, ErrValidation) 为 true.
type ValidationError struct {
	Fields rule.ValidationErrors
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}

	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, f+" "+msg)
	}

	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// fieldError 构造单字段校验错误.
func fieldError(field, msg string) error {
	return &ValidationError{Fields: rule.ValidationErrors{field: msg}}
}

// validate 按 rule 标签校验请求体.
func validate(req any) error {
	err := rule.ValidateStruct(req)
	if err == nil {
		return nil
	}

	if fields := rule.Errors(err); fields != nil {
		return &ValidationError{Fields: fields}
	}

	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// notFound 将 gorm 的记录不存在转换为 ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}

	return err
}

// base 各服务共享的存储客户端.
type base struct {
	dbClient *db.Client
	kvClient *kv.Client
	mqClient *mq.Client
	cfg      *configs.AppConfig
}

func newBase(c context.Context) base {
	return base{
		dbClient: ctxPkg.GetDBClient(c),
		kvClient: ctxPkg.GetKVClient(c),
		mqClient: ctxPkg.GetMQClient(c),
		cfg:      configs.GetConfig(),
	}
}

// db 返回绑定了 ctx 的会话.
func (b base) db(ctx context.Context) *gorm.DB {
	return b.dbClient.GetDB().WithContext(ctx)
}
