package distributed

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestLockSerializesSameProposal(t *testing.T) {
	pl := NewProposalLocker(nil, 0)

	const workers = 16
	var (
		wg      sync.WaitGroup
		counter int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := pl.Lock(context.Background(), "p1")
			if err != nil {
				t.Errorf("lock: %v", err)
				return
			}
			// 临界区内非原子自增，若锁失效race检测会报告
			counter++
			release()
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Fatalf("counter = %d, want %d", counter, workers)
	}
}

func TestLockDifferentProposalsDoNotBlock(t *testing.T) {
	pl := NewProposalLocker(nil, 0)

	releaseA, err := pl.Lock(context.Background(), "a")
	if err != nil {
		t.Fatalf("lock a: %v", err)
	}
	defer releaseA()

	done := make(chan struct{})
	go func() {
		releaseB, err := pl.Lock(context.Background(), "b")
		if err != nil {
			t.Errorf("lock b: %v", err)
			return
		}
		releaseB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on different proposal blocked")
	}
}

func TestLockEntryCleanup(t *testing.T) {
	pl := NewProposalLocker(nil, 0)

	release, err := pl.Lock(context.Background(), "gone")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	release()

	pl.mu.Lock()
	defer pl.mu.Unlock()
	if _, ok := pl.local["gone"]; ok {
		t.Fatal("entry not removed after release")
	}
}
