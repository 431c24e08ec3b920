package events

import (
	"sync"
	"testing"
	"time"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan SessionStateChangedEvent, 1)

	unsub := bus.Subscribe(func(e SessionStateChangedEvent) {
		received <- e
	})
	defer unsub()

	event := SessionStateChangedEvent{
		State:     "active",
		Previous:  "starting",
		Timestamp: "2025-01-27T10:30:00Z",
	}
	bus.Publish(event)

	got := <-received
	if got.State != event.State {
		t.Errorf("Expected state %s, got %s", event.State, got.State)
	}
}

func TestBus_MultipleSubscribers(_ *testing.T) {
	bus := New()
	received1 := make(chan CaptureExitEvent, 1)
	received2 := make(chan CaptureExitEvent, 1)

	unsub1 := bus.Subscribe(func(e CaptureExitEvent) {
		received1 <- e
	})
	defer unsub1()

	unsub2 := bus.Subscribe(func(e CaptureExitEvent) {
		received2 <- e
	})
	defer unsub2()

	bus.Publish(CaptureExitEvent{PID: 4321, ExitCode: 1})

	<-received1
	<-received2
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()
	received := make(chan CaptureExitEvent, 1)

	unsub := bus.Subscribe(func(e CaptureExitEvent) {
		received <- e
	})

	bus.Publish(CaptureExitEvent{PID: 1})
	<-received

	unsub()

	bus.Publish(CaptureExitEvent{PID: 2})
	select {
	case <-received:
		t.Fatal("Should not have received event after unsubscribe")
	case <-time.After(10 * time.Millisecond):
		// Expected - no event
	}
}

func TestBus_TypeSafety(t *testing.T) {
	bus := New()

	stateReceived := make(chan bool, 1)
	exitReceived := make(chan bool, 1)

	unsub1 := bus.Subscribe(func(_ SessionStateChangedEvent) {
		stateReceived <- true
	})
	defer unsub1()

	unsub2 := bus.Subscribe(func(_ CaptureExitEvent) {
		exitReceived <- true
	})
	defer unsub2()

	bus.Publish(SessionStateChangedEvent{State: "starting"})
	<-stateReceived

	select {
	case <-exitReceived:
		t.Fatal("Exit subscriber should NOT have received SessionStateChangedEvent")
	case <-time.After(10 * time.Millisecond):
		// Expected
	}
}

func TestBus_ThreadSafety(_ *testing.T) {
	bus := New()
	var wg sync.WaitGroup
	numGoroutines := 10
	eventsPerGoroutine := 100
	expected := numGoroutines * eventsPerGoroutine

	receivedCh := make(chan bool, expected)

	unsub := bus.Subscribe(func(_ LogEntryEvent) {
		receivedCh <- true
	})
	defer unsub()

	for range numGoroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range eventsPerGoroutine {
				bus.Publish(LogEntryEvent{
					Level:     "info",
					Message:   "test",
					Timestamp: time.Now().Format(time.RFC3339),
				})
			}
		}()
	}

	wg.Wait()

	for range expected {
		<-receivedCh
	}
}

func TestSubscribeToChannel(t *testing.T) {
	bus := New()
	ch := make(chan any, 10)

	unsub := SubscribeToChannel[SessionStateChangedEvent](bus, ch)
	defer unsub()

	bus.Publish(SessionStateChangedEvent{State: "idle", Previous: "stopping"})

	received := <-ch
	stateEvent, ok := received.(SessionStateChangedEvent)
	if !ok {
		t.Fatalf("Expected SessionStateChangedEvent, got %T", received)
	}
	if stateEvent.State != "idle" {
		t.Errorf("Expected state idle, got %s", stateEvent.State)
	}
}

func TestSubscribeToChannel_NonBlocking(_ *testing.T) {
	bus := New()
	ch := make(chan any) // No buffer

	unsub := SubscribeToChannel[CaptureExitEvent](bus, ch)
	defer unsub()

	done := make(chan bool, 1)
	go func() {
		bus.Publish(CaptureExitEvent{PID: 1})
		done <- true
	}()

	<-done // Should complete without blocking
}
