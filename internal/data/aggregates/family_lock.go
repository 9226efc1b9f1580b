package aggregates

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/yungbote/coachdesk-backend/internal/platform/logger"
)

// FamilyLocker serializes mutations that touch the same base course.
// Writes against different base courses never wait on each other.
type FamilyLocker interface {
	Lock(ctx context.Context, baseID uuid.UUID) (unlock func(), err error)
}

// defaultFamilyLocker is shared by every aggregate built without an explicit Locker so
// the graph and the binder serialize against each other within one process.
var defaultFamilyLocker = NewLocalFamilyLocker(0)

type familyLockEntry struct {
	ch   chan struct{}
	refs int
}

type localFamilyLocker struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*familyLockEntry
	wait    time.Duration
}

// NewLocalFamilyLocker returns an in-process keyed mutex. wait bounds how long Lock blocks
// before reporting a conflict; zero means wait until ctx is done.
func NewLocalFamilyLocker(wait time.Duration) FamilyLocker {
	return &localFamilyLocker{entries: map[uuid.UUID]*familyLockEntry{}, wait: wait}
}

func (l *localFamilyLocker) Lock(ctx context.Context, baseID uuid.UUID) (func(), error) {
	l.mu.Lock()
	e := l.entries[baseID]
	if e == nil {
		e = &familyLockEntry{ch: make(chan struct{}, 1)}
		l.entries[baseID] = e
	}
	e.refs++
	l.mu.Unlock()

	var timeout <-chan time.Time
	if l.wait > 0 {
		t := time.NewTimer(l.wait)
		defer t.Stop()
		timeout = t.C
	}
	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(baseID, e)
		return nil, ctx.Err()
	case <-timeout:
		l.release(baseID, e)
		return nil, ConflictError("course is being modified by another request; try again")
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.release(baseID, e)
		})
	}, nil
}

func (l *localFamilyLocker) release(baseID uuid.UUID, e *familyLockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, baseID)
	}
}

// releaseScript deletes the lock key only while it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type RedisFamilyLockerConfig struct {
	Prefix string
	TTL    time.Duration
	Wait   time.Duration
	Poll   time.Duration
}

type redisFamilyLocker struct {
	log   *logger.Logger
	rdb   goredis.Cmdable
	local FamilyLocker
	cfg   RedisFamilyLockerConfig
}

// NewRedisFamilyLocker returns a lock shared by every process pointed at the same Redis.
// Callers in one process queue on a local lock first so only one of them polls Redis.
func NewRedisFamilyLocker(rdb goredis.Cmdable, log *logger.Logger, cfg RedisFamilyLockerConfig) FamilyLocker {
	if cfg.Prefix == "" {
		cfg.Prefix = "coachdesk:family-lock:"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Second
	}
	if cfg.Wait <= 0 {
		cfg.Wait = 5 * time.Second
	}
	if cfg.Poll <= 0 {
		cfg.Poll = 25 * time.Millisecond
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("component", "RedisFamilyLocker")
	return &redisFamilyLocker{
		log:   log,
		rdb:   rdb,
		local: NewLocalFamilyLocker(cfg.Wait),
		cfg:   cfg,
	}
}

func (l *redisFamilyLocker) Lock(ctx context.Context, baseID uuid.UUID) (func(), error) {
	unlockLocal, err := l.local.Lock(ctx, baseID)
	if err != nil {
		return nil, err
	}
	key := l.cfg.Prefix + baseID.String()
	token := uuid.NewString()
	deadline := time.Now().Add(l.cfg.Wait)
	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.cfg.TTL).Result()
		if err != nil {
			unlockLocal()
			return nil, err
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			unlockLocal()
			return nil, ConflictError("course is being modified by another request; try again")
		}
		select {
		case <-ctx.Done():
			unlockLocal()
			return nil, ctx.Err()
		case <-time.After(l.cfg.Poll):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			defer unlockLocal()
			// the caller's ctx may already be cancelled; the key must still be released
			rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			err := releaseScript.Run(rctx, l.rdb, []string{key}, token).Err()
			if err != nil && !errors.Is(err, goredis.Nil) {
				l.log.Warn("family lock release failed", "base_id", baseID.String(), "error", err)
			}
		})
	}, nil
}
