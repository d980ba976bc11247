package db

import "strings"

// sqliteBusyTimeoutMS 并发写入时等待锁的毫秒数，浏览计数与审计日志会并发写同一文件.
const sqliteBusyTimeoutMS = 5000

// withDSNParams 在 DSN 上追加查询参数，已存在同名参数时保持原值.
func withDSNParams(dsn string, params ...string) string {
	for _, p := range params {
		name, _, _ := strings.Cut(p, "=")
		if strings.Contains(dsn, "?"+name+"=") || strings.Contains(dsn, "&"+name+"=") {
			continue
		}

		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}

		dsn += sep + p
	}

	return dsn
}
