//go:build !no_sqlite && cgo

package db

import (
	"strconv"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sloopymg1/ghana-creative-platform/pkg/configs"
)

// sqliteDSN mattn/go-sqlite3 以下划线参数设置 PRAGMA.
func sqliteDSN(dsn string) string {
	return withDSNParams(dsn, "_busy_timeout="+strconv.Itoa(sqliteBusyTimeoutMS))
}

func init() {
	RegisterDialectorFactory(configs.SQLite, func(dsn string) gorm.Dialector {
		return sqlite.Open(sqliteDSN(dsn))
	})
}
