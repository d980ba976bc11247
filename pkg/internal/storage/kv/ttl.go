package kv

import (
	"bytes"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

// NATS KV 与 groupcache 没有条目级过期，值在写入时包一层带截止时间的信封.
var envelopePrefix = []byte("gcp.kv/1:")

type envelope struct {
	Value     []byte `json:"v"`
	ExpiresAt int64  `json:"x"` // unix 毫秒
}

// seal ttl 不为正时返回 value 的副本，否则返回带截止时间的信封.
func seal(value []byte, ttl time.Duration, now time.Time) ([]byte, error) {
	if ttl <= 0 {
		return bytes.Clone(value), nil
	}

	b, err := sonic.Marshal(envelope{Value: value, ExpiresAt: now.Add(ttl).UnixMilli()})
	if err != nil {
		return nil, fmt.Errorf("seal kv value: %w", err)
	}

	return append(bytes.Clone(envelopePrefix), b...), nil
}

// open 拆开信封；未封装的值原样返回，已过期时 expired 为 true 且 value 为 nil.
func open(raw []byte, now time.Time) (value []byte, expired bool, err error) {
	body, ok := bytes.CutPrefix(raw, envelopePrefix)
	if !ok {
		return raw, false, nil
	}

	var env envelope
	if err := sonic.Unmarshal(body, &env); err != nil {
		return nil, false, fmt.Errorf("open kv value: %w", err)
	}

	if now.UnixMilli() >= env.ExpiresAt {
		return nil, true, nil
	}

	return env.Value, false, nil
}
