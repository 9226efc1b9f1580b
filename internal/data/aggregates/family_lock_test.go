package aggregates

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	domainagg "github.com/yungbote/coachdesk-backend/internal/domain/aggregates"
)

func TestLocalFamilyLockerSerializesSameFamily(t *testing.T) {
	l := NewLocalFamilyLocker(0)
	baseID := uuid.New()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), baseID)
			if err != nil {
				t.Errorf("Lock: %v", err)
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	if maxInside != 1 {
		t.Fatalf("expected at most one holder, saw %d", maxInside)
	}
	if n := len(l.(*localFamilyLocker).entries); n != 0 {
		t.Fatalf("lock entries should be released, got %d", n)
	}
}

func TestLocalFamilyLockerIndependentFamilies(t *testing.T) {
	l := NewLocalFamilyLocker(0)
	unlockA, err := l.Lock(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("lock A: %v", err)
	}
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	unlockB, err := l.Lock(ctx, uuid.New())
	if err != nil {
		t.Fatalf("a different family must not wait: %v", err)
	}
	unlockB()
}

func TestLocalFamilyLockerWaitBound(t *testing.T) {
	l := NewLocalFamilyLocker(20 * time.Millisecond)
	baseID := uuid.New()
	unlock, err := l.Lock(context.Background(), baseID)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	defer unlock()

	_, err = l.Lock(context.Background(), baseID)
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict after wait bound, got %v", err)
	}
}

func TestLocalFamilyLockerHonoursContext(t *testing.T) {
	l := NewLocalFamilyLocker(0)
	baseID := uuid.New()
	unlock, err := l.Lock(context.Background(), baseID)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Lock(ctx, baseID); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	unlock()
	unlock() // second call is a no-op

	again, err := l.Lock(context.Background(), baseID)
	if err != nil {
		t.Fatalf("Lock after release: %v", err)
	}
	again()
}

func TestRedisFamilyLocker(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis lock tests")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	defer rdb.Close()

	cfg := RedisFamilyLockerConfig{Prefix: "test:family-lock:" + uuid.NewString() + ":", TTL: time.Second, Wait: 50 * time.Millisecond}
	a := NewRedisFamilyLocker(rdb, nil, cfg)
	b := NewRedisFamilyLocker(rdb, nil, cfg)
	baseID := uuid.New()
	ctx := context.Background()

	unlock, err := a.Lock(ctx, baseID)
	if err != nil {
		t.Fatalf("Lock a: %v", err)
	}
	if _, err := b.Lock(ctx, baseID); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("second process should be refused, got %v", err)
	}
	unlock()

	unlockB, err := b.Lock(ctx, baseID)
	if err != nil {
		t.Fatalf("Lock b after release: %v", err)
	}
	unlockB()
	if n, _ := rdb.Exists(ctx, cfg.Prefix+baseID.String()).Result(); n != 0 {
		t.Fatalf("lock key should be deleted on release")
	}
}
