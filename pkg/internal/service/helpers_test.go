package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sloopymg1/ghana-creative-platform/pkg/configs"
	ctxPkg "github.com/sloopymg1/ghana-creative-platform/pkg/context"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/model"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/service"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage/db"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage/kv"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage/mq"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/types"
	"github.com/sloopymg1/ghana-creative-platform/pkg/rbac"
)

const testPassword = "Akwaaba#2024"

// env 单个测试使用的独立数据库与缓存.
type env struct {
	ctx context.Context
	mgr *storage.Manager
}

// newEnv 加载默认配置，打开独立的内存 SQLite，迁移表结构并写入默认角色.
func newEnv(t *testing.T) *env {
	t.Helper()

	require.NoError(t, configs.InitConfig(t.TempDir()))

	cfg := configs.GetConfig()
	cfg.Auth.BcryptCost = bcrypt.MinCost
	cfg.Metrics.Enabled = false

	ctx := context.Background()

	client, err := db.Open(ctx, sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"))
	require.NoError(t, err)

	sqlDB, err := client.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, model.AutoMigrate(client.GetDB()))

	kvClient, err := kv.NewKVClient(ctx, &cfg.KV)
	require.NoError(t, err)

	mgr := &storage.Manager{DB: client, KV: kvClient}
	t.Cleanup(func() { _ = mgr.Close() })

	ctx = ctxPkg.WithStorageManager(ctx, mgr)
	require.NoError(t, service.NewRBACService(ctx).Seed(ctx))

	return &env{ctx: ctx, mgr: mgr}
}

// withMQ 接入进程内消息队列并订阅 topic；之后创建的服务才会发布事件.
func (e *env) withMQ(t *testing.T, topic string) <-chan *message.Message {
	t.Helper()

	if e.mgr.MQ == nil {
		client, err := mq.New(e.ctx, &configs.MQConfig{Type: configs.MQTypeMemory})
		require.NoError(t, err)

		e.mgr.MQ = client
	}

	ctx, cancel := context.WithCancel(e.ctx)
	t.Cleanup(cancel)

	ch, err := e.mgr.MQ.Subscribe(ctx, topic)
	require.NoError(t, err)

	return ch
}

// receive 等待一条消息并确认.
func receive(t *testing.T, ch <-chan *message.Message) *message.Message {
	t.Helper()

	select {
	case msg := <-ch:
		msg.Ack()
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		return nil
	}
}

func (e *env) db() *gorm.DB { return e.mgr.DB.GetDB() }

// register 注册一个用户并可选地授予内置角色，返回其主体.
func (e *env) register(t *testing.T, email string, roles ...string) *rbac.Subject {
	t.Helper()

	u, err := service.NewAuthService(e.ctx).Register(e.ctx, types.RegisterRequest{
		Email:     email,
		Password:  testPassword,
		FirstName: "Kofi",
		LastName:  "Mensah",
		UserType:  string(model.UserTypeArtist),
	})
	require.NoError(t, err)

	rs := service.NewRBACService(e.ctx)
	for _, r := range roles {
		_, err := rs.AssignRole(e.ctx, service.SystemActor, u.ID, r)
		require.NoError(t, err)
	}

	sub, err := rs.Subject(e.ctx, u.ID)
	require.NoError(t, err)

	return sub
}

// grant 构造持有指定权限的主体（不落库），用于直接验证权限分支.
func grant(userID string, perms ...string) *rbac.Subject {
	return &rbac.Subject{UserID: userID, Roles: []rbac.Role{{Name: "custom", Permissions: perms}}}
}
