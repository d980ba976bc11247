// Package model 定义持久化到关系数据库的实体.
package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// All 返回需要迁移的全部模型.
func All() []any {
	return []any{
		&Permission{},
		&Role{},
		&User{},
		&ArtistProfile{},
		&Content{},
		&AuditLog{},
	}
}

// AutoMigrate 迁移全部表结构（含多对多关联表）.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}

// newID 生成字符串主键.
func newID() string {
	return uuid.NewString()
}

// ensureID 在创建前为空主键补 UUID.
func ensureID(id *string) {
	if *id == "" {
		*id = newID()
	}
}
