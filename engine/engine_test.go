package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/engine/gfx"
)

func TestStepRunsPostedWorkThenUpdateThenRender(t *testing.T) {
	rec := gfx.NewRecorder(64, 64)
	e := NewEngine(WithDevice(rec))
	var order []string
	e.SetUpdateCallback(func(dt float64) { order = append(order, "update") })
	e.SetRenderCallback(func(dt float64) error {
		order = append(order, "render")
		return nil
	})

	if !e.Post(func() { order = append(order, "posted") }) {
		t.Fatal("Post refused before quit")
	}
	if !e.Step(0.016) {
		t.Fatal("Step reported quit")
	}
	want := []string{"posted", "update", "render"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
	if rec.Frames != 1 {
		t.Fatalf("frames = %d, want 1", rec.Frames)
	}
}

func TestWorkPostedWhileDrainingWaitsForNextFrame(t *testing.T) {
	e := NewEngine()
	ran := 0
	e.Post(func() {
		e.Post(func() { ran++ })
	})
	e.Step(0)
	if ran != 0 {
		t.Fatal("nested post ran in the same frame")
	}
	e.Step(0)
	if ran != 1 {
		t.Fatalf("nested post ran %d times", ran)
	}
}

func TestPostAfterQuitIsRefused(t *testing.T) {
	e := NewEngine()
	e.Quit()
	e.Quit()
	if e.Post(func() {}) {
		t.Fatal("Post accepted after quit")
	}
	if e.Step(0) {
		t.Fatal("Step ran after quit")
	}
	select {
	case <-e.Done():
	case <-time.After(time.Second):
		t.Fatal("Done not closed")
	}
}

func TestBlockedPostReleasedByQuit(t *testing.T) {
	e := NewEngine(WithQueueSize(1))
	e.Post(func() {})
	result := make(chan bool)
	go func() { result <- e.Post(func() {}) }()
	e.Quit()
	select {
	case ok := <-result:
		if ok {
			t.Fatal("blocked Post succeeded after quit")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Post still blocked after quit")
	}
}

func TestPostOrCancelReleasedByCancel(t *testing.T) {
	e := NewEngine(WithQueueSize(1))
	e.Post(func() {})
	cancel := make(chan struct{})
	result := make(chan bool)
	go func() { result <- e.PostOrCancel(func() {}, cancel) }()
	close(cancel)
	select {
	case ok := <-result:
		if ok {
			t.Fatal("PostOrCancel queued work after cancel")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("PostOrCancel still blocked after cancel")
	}
	if !e.Step(0) {
		t.Fatal("engine quit after a cancelled post")
	}
}

func TestRenderPanicQuits(t *testing.T) {
	e := NewEngine(WithDevice(gfx.NewRecorder(8, 8)))
	e.SetRenderCallback(func(float64) error { panic("boom") })
	if e.Step(0) {
		t.Fatal("engine kept running after a render panic")
	}
}

func TestRenderErrorKeepsRunning(t *testing.T) {
	rec := gfx.NewRecorder(8, 8)
	e := NewEngine(WithDevice(rec))
	e.SetRenderCallback(func(float64) error { return errors.New("missing texture") })
	if !e.Step(0) || !e.Step(0) {
		t.Fatal("engine quit on a render error")
	}
	if rec.Frames != 2 {
		t.Fatalf("frames = %d, want 2", rec.Frames)
	}
}

func TestRunWithoutWindow(t *testing.T) {
	if err := NewEngine().Run(); err == nil {
		t.Fatal("Run succeeded without a window")
	}
}

func TestFrameDuration(t *testing.T) {
	if d := frameDuration(0); d != 0 {
		t.Fatalf("uncapped duration = %v", d)
	}
	if d := frameDuration(50); d != 20*time.Millisecond {
		t.Fatalf("50 fps duration = %v", d)
	}
}
