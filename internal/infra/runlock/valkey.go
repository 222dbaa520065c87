package runlock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/dailyreport/internal/domain/dailyreport"
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = valkey.NewLuaScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ValkeyLock is a lease shared by every process pointed at the same Valkey.
// The TTL bounds how long a crashed holder can block later runs.
type ValkeyLock struct {
	client valkey.Client
	key    string
	ttl    time.Duration
}

// NewValkeyLock constructs the lock.
func NewValkeyLock(client valkey.Client, key string, ttl time.Duration) *ValkeyLock {
	if key == "" {
		key = "dailyreport:lock"
	}
	return &ValkeyLock{client: client, key: key, ttl: ttl}
}

// Acquire implements dailyreport.RunLock.
func (l *ValkeyLock) Acquire(ctx context.Context) (func(context.Context) error, error) {
	token := uuid.NewString()
	cmd := l.client.B().Set().Key(l.key).Value(token).Nx().PxMilliseconds(l.ttl.Milliseconds()).Build()
	if err := l.client.Do(ctx, cmd).Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, dailyreport.ErrLockHeld
		}
		return nil, fmt.Errorf("acquire valkey lock: %w", err)
	}
	return func(ctx context.Context) error {
		if err := releaseScript.Exec(ctx, l.client, []string{l.key}, []string{token}).Error(); err != nil {
			return fmt.Errorf("release valkey lock: %w", err)
		}
		return nil
	}, nil
}

var _ dailyreport.RunLock = (*ValkeyLock)(nil)
