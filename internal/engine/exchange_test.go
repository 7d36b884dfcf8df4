package engine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestExchangePublishFetch(t *testing.T) {
	var x Exchange

	if _, fresh, events := x.Fetch(); fresh || len(events) != 0 {
		t.Fatalf("empty exchange: fresh=%v events=%d", fresh, len(events))
	}

	want := GameData{
		CameraPos:    mgl32.Vec3{1, 2, 3},
		CameraTarget: mgl32.Vec3{4, 5, 6},
		Level:        "valley",
	}
	x.Publish(want)

	got, fresh, _ := x.Fetch()
	if !fresh {
		t.Fatal("published snapshot not reported fresh")
	}
	if got != want {
		t.Errorf("Fetch = %+v, want %+v", got, want)
	}

	// A second fetch sees the same data but stale.
	got, fresh, _ = x.Fetch()
	if fresh {
		t.Error("refetch reported fresh without a new Publish")
	}
	if got != want {
		t.Errorf("stale refetch = %+v, want %+v", got, want)
	}
}

func TestExchangePublishReplacesPending(t *testing.T) {
	var x Exchange
	x.Publish(GameData{Level: "first"})
	x.Publish(GameData{Level: "second"})

	got, fresh, _ := x.Fetch()
	if !fresh || got.Level != "second" {
		t.Errorf("got %q fresh=%v, want newest snapshot", got.Level, fresh)
	}
}

func TestExchangeEventsDeliveredExactlyOnce(t *testing.T) {
	var x Exchange
	x.Post(Event{Kind: EventToggleDebug})
	x.Post(Event{Kind: EventLevelChange, Payload: "maps/ridge.ini"})

	_, _, events := x.Fetch()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Kind != EventToggleDebug || events[1].Payload != "maps/ridge.ini" {
		t.Errorf("events = %+v", events)
	}

	if _, _, again := x.Fetch(); len(again) != 0 {
		t.Errorf("second fetch redelivered %d events", len(again))
	}
}

func TestExchangeConcurrentProducerConsumer(t *testing.T) {
	var x Exchange
	const posts = 1000

	producerDone := make(chan struct{})
	go func() {
		defer close(producerDone)
		for i := 0; i < posts; i++ {
			x.Post(Event{Kind: EventToggleDebug})
			x.Publish(GameData{Level: "busy"})
		}
	}()

	received := 0
	for {
		_, _, events := x.Fetch()
		received += len(events)
		select {
		case <-producerDone:
			// One final drain after the producer stopped.
			_, _, events := x.Fetch()
			received += len(events)
			if received != posts {
				t.Errorf("received %d events, want %d (no loss, no duplication)", received, posts)
			}
			return
		default:
		}
	}
}
