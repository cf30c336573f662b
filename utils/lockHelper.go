package utils

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/rentdesk/rentroll_backend/config"
)

var localLockMu sync.Mutex

// OwnerLock serializes a mutation for one resource key. With redis configured
// it is a cross-process lock; without it (dev, tests) it degrades to a
// process-local mutex, which is enough for the single-instance case. The
// returned release func must always be called.
func OwnerLock(ctx context.Context, lockType string, resourceKey string, moduleName string, functionName string) (func(), error) {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		localLockMu.Lock()
		return localLockMu.Unlock, nil
	}

	lockKey := fmt.Sprintf("%s:%s", lockType, resourceKey)
	lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 20),
	})
	if err == redislock.ErrNotObtained {
		config.LogError(logger, moduleName, functionName, "Could not obtain lock", lockKey, err)
		return nil, errors.New("could not obtain lock for " + lockType)
	} else if err != nil {
		config.LogError(logger, moduleName, functionName, "Error obtaining lock", lockKey, err)
		return nil, err
	}

	return func() { _ = lock.Release(ctx) }, nil
}
