package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const maxSlugLen = 200

// slugify 音译为 ASCII 后生成小写连字符 slug，结果为空时使用 fallback.
func slugify(s, fallback string) string {
	out := slug.Make(s)
	if len(out) > maxSlugLen {
		out = strings.TrimRight(out[:maxSlugLen], "-")
	}

	if out == "" {
		out = fallback
	}

	return out
}

// uniqueSlug 在 model 对应的表中查重（含软删除行），已占用时追加毫秒时间戳.
func uniqueSlug(db *gorm.DB, model any, s, fallback string) (string, error) {
	out := slugify(s, fallback)

	var n int64
	if err := db.Unscoped().Model(model).Where("slug = ?", out).Count(&n).Error; err != nil {
		return "", err
	}

	if n > 0 {
		out += "-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	}

	return out, nil
}
