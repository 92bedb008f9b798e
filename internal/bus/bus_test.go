package bus

import (
	"testing"
	"time"
)

func TestSubscriberReceivesOnlyItsTopics(t *testing.T) {
	b := New()
	defer b.Close()

	tasks, err := b.Subscribe(4, TopicTaskUpdated)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	all, err := b.Subscribe(4)
	if err != nil {
		t.Fatalf("subscribe all: %v", err)
	}

	b.Publish(FileOperation{Operation: "Saved", Details: "report.xlsx"})
	b.Publish(TaskUpdated{Date: "2026-02-09", TaskID: "task-1", Action: ActionCreated})

	ev := waitEvent(t, tasks.C(), time.Second)
	payload, ok := ev.Payload.(TaskUpdated)
	if !ok || ev.Topic != TopicTaskUpdated || payload.TaskID != "task-1" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	select {
	case extra := <-tasks.C():
		t.Fatalf("unexpected extra event: %+v", extra)
	default:
	}

	first := waitEvent(t, all.C(), time.Second)
	second := waitEvent(t, all.C(), time.Second)
	if first.Topic != TopicFileOperation || second.Topic != TopicTaskUpdated {
		t.Fatalf("unexpected order: %s then %s", first.Topic, second.Topic)
	}
}

func TestPublishDropsWhenSubscriberIsSlow(t *testing.T) {
	b := New()
	defer b.Close()
	sub, err := b.Subscribe(1, TopicTimerChanged)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	for i := 0; i < 10; i++ {
		b.Publish(TimerChanged{})
	}
	if b.Dropped() != 9 {
		t.Fatalf("expected 9 dropped events, got %d", b.Dropped())
	}
	waitEvent(t, sub.C(), time.Second)
}

func TestCloseEndsSubscriptions(t *testing.T) {
	b := New()
	sub, err := b.Subscribe(1)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	sub.Close()
	sub.Close()
	if _, ok := <-sub.C(); ok {
		t.Fatal("expected closed channel after unsubscribe")
	}

	other, _ := b.Subscribe(1)
	b.Close()
	b.Close()
	if _, ok := <-other.C(); ok {
		t.Fatal("expected closed channel after bus close")
	}
	if _, err := b.Subscribe(1); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	b.Publish(TaskUpdated{})
}

func waitEvent(t *testing.T, ch <-chan Event, timeout time.Duration) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for event")
		return Event{}
	}
}
