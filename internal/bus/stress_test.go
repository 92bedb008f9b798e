package bus

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestBusStressConcurrentPublish(t *testing.T) {
	b := New()
	defer b.Close()
	sub, err := b.Subscribe(4096, TopicTaskUpdated)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	const workers = 8
	const perWorker = 200
	total := workers * perWorker

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				b.Publish(TaskUpdated{Date: "2026-02-09", TaskID: fmt.Sprintf("w%d-%d", w, i), Action: ActionUpdated})
			}
		}()
	}
	wg.Wait()

	seen := make(map[string]struct{}, total)
	deadline := time.After(5 * time.Second)
	for len(seen) < total {
		select {
		case <-deadline:
			t.Fatalf("timeout waiting events: received=%d total=%d dropped=%d", len(seen), total, b.Dropped())
		case ev := <-sub.C():
			seen[ev.Payload.(TaskUpdated).TaskID] = struct{}{}
		}
	}
	if b.Dropped() != 0 {
		t.Fatalf("expected zero drops with a large buffer, got=%d", b.Dropped())
	}
}
