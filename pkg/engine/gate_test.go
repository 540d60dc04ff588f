package engine

import (
	"sync"
	"testing"
	"time"

	"GERadar/pkg/model"
	"GERadar/pkg/repository"
)

func testIntent() model.AlertIntent {
	return model.AlertIntent{
		UserID: "user-1",
		ItemID: 4151,
		Type:   model.AlertTypeVolumeDump,
	}
}

func TestGateFirstSubmitAccepted(t *testing.T) {
	alertChan := make(chan model.AlertIntent, 10)
	gate := NewCooldownGate(repository.NewCooldownRepository(), time.Hour, alertChan)

	accepted, err := gate.Submit(testIntent())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !accepted {
		t.Fatal("first submit should be accepted")
	}

	select {
	case got := <-alertChan:
		if got.UserID != "user-1" || got.ItemID != 4151 {
			t.Errorf("unexpected intent on channel: %+v", got)
		}
	default:
		t.Fatal("accepted intent should be on the alert channel")
	}
}

func TestGateSuppressesWithinCooldown(t *testing.T) {
	alertChan := make(chan model.AlertIntent, 10)
	gate := NewCooldownGate(repository.NewCooldownRepository(), time.Hour, alertChan)

	if accepted, _ := gate.Submit(testIntent()); !accepted {
		t.Fatal("first submit should be accepted")
	}

	// 冷却期内重复提交被静默抑制，不是错误
	accepted, err := gate.Submit(testIntent())
	if err != nil {
		t.Fatalf("suppressed submit returned error: %v", err)
	}
	if accepted {
		t.Fatal("second submit within cooldown should be suppressed")
	}

	<-alertChan
	select {
	case got := <-alertChan:
		t.Errorf("suppressed intent leaked to the channel: %+v", got)
	default:
	}
}

func TestGateDifferentKeysIndependent(t *testing.T) {
	alertChan := make(chan model.AlertIntent, 10)
	gate := NewCooldownGate(repository.NewCooldownRepository(), time.Hour, alertChan)

	if accepted, _ := gate.Submit(testIntent()); !accepted {
		t.Fatal("first submit should be accepted")
	}

	// 同用户同物品不同告警类型是独立冷却键
	other := testIntent()
	other.Type = model.AlertTypePriceDrop
	if accepted, _ := gate.Submit(other); !accepted {
		t.Error("different alert type should not share the cooldown window")
	}

	// 不同用户同物品同类型亦然
	otherUser := testIntent()
	otherUser.UserID = "user-2"
	if accepted, _ := gate.Submit(otherUser); !accepted {
		t.Error("different user should not share the cooldown window")
	}
}

func TestGateAcceptsAfterExpiry(t *testing.T) {
	store := repository.NewCooldownRepository()
	alertChan := make(chan model.AlertIntent, 10)
	gate := NewCooldownGate(store, time.Millisecond, alertChan)

	if accepted, _ := gate.Submit(testIntent()); !accepted {
		t.Fatal("first submit should be accepted")
	}
	firstUntil, err := store.CooldownUntil("user-1", 4151, model.AlertTypeVolumeDump)
	if err != nil {
		t.Fatalf("cooldown row missing: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	// 到期后的提交重新占用窗口并刷新截止时间
	accepted, err := gate.Submit(testIntent())
	if err != nil {
		t.Fatalf("submit after expiry failed: %v", err)
	}
	if !accepted {
		t.Fatal("submit after expiry should be accepted")
	}
	secondUntil, err := store.CooldownUntil("user-1", 4151, model.AlertTypeVolumeDump)
	if err != nil {
		t.Fatalf("cooldown row missing after refresh: %v", err)
	}
	if !secondUntil.After(firstUntil) {
		t.Errorf("cooldown window not refreshed: first=%v second=%v", firstUntil, secondUntil)
	}
}

func TestGateConcurrentSubmitsSingleWinner(t *testing.T) {
	alertChan := make(chan model.AlertIntent, 100)
	gate := NewCooldownGate(repository.NewCooldownRepository(), time.Hour, alertChan)

	const n = 32
	var wg sync.WaitGroup
	results := make(chan bool, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			accepted, err := gate.Submit(testIntent())
			if err != nil {
				t.Errorf("submit failed: %v", err)
				return
			}
			results <- accepted
		}()
	}
	wg.Wait()
	close(results)

	acceptedCount := 0
	for accepted := range results {
		if accepted {
			acceptedCount++
		}
	}
	if acceptedCount != 1 {
		t.Errorf("expected exactly 1 accepted submit out of %d, got %d", n, acceptedCount)
	}
	if len(alertChan) != 1 {
		t.Errorf("expected exactly 1 intent on the channel, got %d", len(alertChan))
	}
}

func TestGateSweepRemovesExpiredOnly(t *testing.T) {
	store := repository.NewCooldownRepository()
	alertChan := make(chan model.AlertIntent, 10)
	gate := NewCooldownGate(store, time.Hour, alertChan)

	// 一条长冷却，一条立即过期
	if _, err := store.Acquire("user-9", 1, model.AlertTypeAbnormal, time.Now().Add(-time.Minute), time.Now()); err != nil {
		t.Fatalf("seed expired row failed: %v", err)
	}
	if accepted, _ := gate.Submit(testIntent()); !accepted {
		t.Fatal("submit should be accepted")
	}

	gate.Sweep()

	if _, err := store.CooldownUntil("user-9", 1, model.AlertTypeAbnormal); err == nil {
		t.Error("expired row should have been swept")
	}
	if _, err := store.CooldownUntil("user-1", 4151, model.AlertTypeVolumeDump); err != nil {
		t.Error("active row should survive the sweep")
	}
}
