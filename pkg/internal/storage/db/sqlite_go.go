//go:build !no_sqlite && !cgo

package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/sloopymg1/ghana-creative-platform/pkg/configs"
)

// sqliteDSN modernc 驱动以 _pragma=name(value) 设置 PRAGMA.
func sqliteDSN(dsn string) string {
	return withDSNParams(dsn, fmt.Sprintf("_pragma=busy_timeout(%d)", sqliteBusyTimeoutMS))
}

func init() {
	RegisterDialectorFactory(configs.SQLite, func(dsn string) gorm.Dialector {
		return sqlite.Open(sqliteDSN(dsn))
	})
}
