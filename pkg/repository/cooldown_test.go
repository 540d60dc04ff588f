package repository

import (
	"sync"
	"testing"
	"time"

	"GERadar/pkg/model"
)

func TestAcquireConditionalWrite(t *testing.T) {
	r := NewCooldownRepository()
	now := time.Now()
	until := now.Add(time.Hour)

	ok, err := r.Acquire("u1", 1, model.AlertTypeVolumeDump, until, now)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}

	// 窗口未到期，占用失败
	ok, err = r.Acquire("u1", 1, model.AlertTypeVolumeDump, until.Add(time.Hour), now.Add(time.Minute))
	if err != nil {
		t.Fatalf("second acquire errored: %v", err)
	}
	if ok {
		t.Fatal("acquire within an active window must fail")
	}

	// 到期后可重新占用
	later := until.Add(time.Second)
	ok, err = r.Acquire("u1", 1, model.AlertTypeVolumeDump, later.Add(time.Hour), later)
	if err != nil || !ok {
		t.Fatalf("acquire after expiry: ok=%v err=%v", ok, err)
	}
}

func TestAcquireConcurrentSingleWinner(t *testing.T) {
	r := NewCooldownRepository()
	now := time.Now()

	const n = 64
	var wg sync.WaitGroup
	wins := make(chan bool, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := r.Acquire("u1", 1, model.AlertTypeAbnormal, now.Add(time.Hour), now)
			if err != nil {
				t.Errorf("acquire errored: %v", err)
				return
			}
			wins <- ok
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for ok := range wins {
		if ok {
			winners++
		}
	}
	if winners != 1 {
		t.Errorf("expected exactly one winner, got %d", winners)
	}
}

func TestDeleteExpired(t *testing.T) {
	r := NewCooldownRepository()
	now := time.Now()

	r.Acquire("u1", 1, model.AlertTypeVolumeDump, now.Add(-time.Minute), now.Add(-time.Hour))
	r.Acquire("u2", 2, model.AlertTypePriceDrop, now.Add(time.Hour), now)

	removed, err := r.DeleteExpired(now)
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := r.CooldownUntil("u1", 1, model.AlertTypeVolumeDump); err == nil {
		t.Error("expired row should be gone")
	}
	if _, err := r.CooldownUntil("u2", 2, model.AlertTypePriceDrop); err != nil {
		t.Error("active row should remain")
	}
}

func TestWhaleCache(t *testing.T) {
	c := NewWhaleCache()
	if c.Get() != nil {
		t.Fatal("fresh cache should be empty")
	}

	result := &model.WhaleScanResult{TotalAnalyzed: 42}
	c.Set(result)
	got := c.Get()
	if got == nil || got.TotalAnalyzed != 42 {
		t.Errorf("unexpected cached result: %+v", got)
	}
}
