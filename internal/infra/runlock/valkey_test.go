package runlock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"
	"github.com/valkey-io/valkey-go/mock"
	"go.uber.org/mock/gomock"

	"github.com/yanqian/dailyreport/internal/domain/dailyreport"
)

func TestValkeyLockHeldByAnotherProcess(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)

	var sent []string
	client.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, cmd valkey.Completed) valkey.ValkeyResult {
		sent = cmd.Commands()
		return mock.Result(mock.ValkeyNil())
	})

	lock := NewValkeyLock(client, "dailyreport:lock", time.Minute)
	release, err := lock.Acquire(context.Background())
	require.ErrorIs(t, err, dailyreport.ErrLockHeld)
	require.Nil(t, release)
	require.Equal(t, []string{"SET", "dailyreport:lock"}, sent[:2])
	require.Equal(t, []string{"NX", "PX", "60000"}, sent[3:])
}

func TestValkeyLockAcquireAndRelease(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)

	var sent [][]string
	client.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, cmd valkey.Completed) valkey.ValkeyResult {
		sent = append(sent, cmd.Commands())
		if cmd.Commands()[0] == "SET" {
			return mock.Result(mock.ValkeyString("OK"))
		}
		return mock.Result(mock.ValkeyInt64(1))
	}).Times(2)

	lock := NewValkeyLock(client, "", 30*time.Second)
	release, err := lock.Acquire(context.Background())
	require.NoError(t, err)
	require.NotNil(t, release)
	require.NoError(t, release(context.Background()))

	require.Len(t, sent, 2)
	acquire, freed := sent[0], sent[1]
	require.Equal(t, "dailyreport:lock", acquire[1])
	token := acquire[2]
	require.NotEmpty(t, token)
	require.Equal(t, []string{"NX", "PX", "30000"}, acquire[3:])

	// The release script is keyed on the lock and guarded by this run's token.
	require.Contains(t, []string{"EVALSHA", "EVAL"}, freed[0])
	require.Equal(t, []string{"1", "dailyreport:lock", token}, freed[2:])
}

func TestValkeyLockBackendErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)

	client.EXPECT().Do(gomock.Any(), gomock.Any()).Return(mock.ErrorResult(errors.New("connection refused")))

	_, err := NewValkeyLock(client, "dailyreport:lock", time.Minute).Acquire(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, dailyreport.ErrLockHeld)
	require.Contains(t, err.Error(), "acquire valkey lock")
}

func TestValkeyLockReleaseError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)

	gomock.InOrder(
		client.EXPECT().Do(gomock.Any(), gomock.Any()).Return(mock.Result(mock.ValkeyString("OK"))),
		client.EXPECT().Do(gomock.Any(), gomock.Any()).Return(mock.ErrorResult(errors.New("i/o timeout"))),
	)

	release, err := NewValkeyLock(client, "dailyreport:lock", time.Minute).Acquire(context.Background())
	require.NoError(t, err)
	err = release(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "release valkey lock")
}
