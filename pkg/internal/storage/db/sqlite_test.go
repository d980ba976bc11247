//go:build !no_sqlite

package db

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sloopymg1/ghana-creative-platform/pkg/configs"
)

func TestWithDSNParams(t *testing.T) {
	tests := []struct {
		name, dsn, want string
	}{
		{name: "无参数", dsn: "file:gcp.db", want: "file:gcp.db?_busy_timeout=5000"},
		{name: "已有参数", dsn: "file::memory:?cache=shared", want: "file::memory:?cache=shared&_busy_timeout=5000"},
		{name: "保留原值", dsn: "file:gcp.db?_busy_timeout=100", want: "file:gcp.db?_busy_timeout=100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, withDSNParams(tt.dsn, "_busy_timeout=5000"))
		})
	}
}

func TestSQLiteDialectorRegistered(t *testing.T) {
	assert.Contains(t, sqliteDSN("file:gcp.db"), "busy_timeout")
	assert.Contains(t, GetRegisteredDBTypes(), configs.SQLite)
}
