package animation

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func newTestClock(loop bool, anims ...Animation) Clock {
	c := NewClock(WithLoop(loop))
	c.SetAnimations(anims)
	return c
}

func TestClockLoopWrapsCursor(t *testing.T) {
	// 50 ticks at 25 tps is 2 seconds.
	c := newTestClock(true, NewClip("Walk", 50, 25))
	if err := c.SetActiveAnimation(0); err != nil {
		t.Fatalf("SetActiveAnimation: %v", err)
	}
	if err := c.SetPlaying(true); err != nil {
		t.Fatalf("SetPlaying: %v", err)
	}
	c.Advance(2.5)
	if got := c.Cursor(); math.Abs(got-0.5) > eps {
		t.Fatalf("Cursor = %v, want 0.5", got)
	}
	if c.IsAtEnd() {
		t.Fatal("looping clock reported end")
	}
}

func TestClockHoldsAtEndWithoutLoop(t *testing.T) {
	c := newTestClock(false, NewClip("Walk", 50, 25))
	_ = c.SetActiveAnimation(0)
	_ = c.SetPlaying(true)

	c.Advance(2.5)
	if got := c.Cursor(); got != 2.0 {
		t.Fatalf("Cursor = %v, want 2.0", got)
	}
	if !c.IsAtEnd() {
		t.Fatal("IsAtEnd = false, want true")
	}

	c.Advance(1.0)
	if got := c.Cursor(); got != 2.0 {
		t.Fatalf("Cursor after further advance = %v, want 2.0", got)
	}
	if !c.IsPlaying() {
		t.Fatal("holding at the end must keep the clock playing")
	}
}

func TestClockAdvanceStaysInRange(t *testing.T) {
	c := newTestClock(true, NewClip("Run", 30, 30))
	_ = c.SetActiveAnimation(0)
	for _, d := range []float64{0.3, 0.7, 1.0, 0.999999999, 3.25, 1e-12} {
		c.Advance(d)
		if cur := c.Cursor(); cur < 0 || cur >= c.Duration() {
			t.Fatalf("Advance(%v): cursor %v outside [0, %v)", d, cur, c.Duration())
		}
	}
}

func TestClockFallsBackToDefaultTickRate(t *testing.T) {
	c := NewClock(WithDefaultTicksPerSecond(10))
	c.SetAnimations([]Animation{NewClip("Idle", 40, 0), NewClip("Tiny", 40, 1e-11)})

	for i := 0; i < 2; i++ {
		_ = c.SetActiveAnimation(i)
		if got := c.Duration(); got != 4.0 {
			t.Errorf("animation %d: Duration = %v, want 4.0", i, got)
		}
	}
}

func TestClockBindPoseHasZeroDuration(t *testing.T) {
	c := newTestClock(true, NewClip("Walk", 50, 25))
	_ = c.SetActiveAnimation(0)
	_ = c.SetPlaying(true)
	c.Advance(0.75)

	if err := c.SetActiveAnimation(NoAnimation); err != nil {
		t.Fatalf("SetActiveAnimation(NoAnimation): %v", err)
	}
	if c.Duration() != 0 || c.Cursor() != 0 {
		t.Fatalf("duration %v cursor %v, want 0 0", c.Duration(), c.Cursor())
	}
	if c.IsPlaying() {
		t.Fatal("selecting the bind pose must stop playback")
	}
	if c.EffectiveSpeed() != 0 {
		t.Fatalf("EffectiveSpeed = %v, want 0", c.EffectiveSpeed())
	}
	c.Advance(1)
	if c.Cursor() != 0 {
		t.Fatalf("Cursor = %v after advance with no animation", c.Cursor())
	}
}

func TestClockSelectResetsCursor(t *testing.T) {
	c := newTestClock(true, NewClip("A", 50, 25), NewClip("B", 100, 25))
	_ = c.SetActiveAnimation(0)
	c.SetCursor(1.2)
	_ = c.SetActiveAnimation(1)
	if c.Cursor() != 0 {
		t.Fatalf("Cursor = %v, want 0", c.Cursor())
	}
	if err := c.SetActiveAnimation(2); err == nil {
		t.Fatal("out of range index accepted")
	}
	if c.ActiveAnimation() != 1 {
		t.Fatalf("ActiveAnimation = %d after failed select, want 1", c.ActiveAnimation())
	}
}

func TestClockSpeedSnapsToOne(t *testing.T) {
	c := NewClock()
	c.SetPlaybackSpeed(1.00000005)
	if c.PlaybackSpeed() != 1.0 {
		t.Fatalf("PlaybackSpeed = %v, want exactly 1", c.PlaybackSpeed())
	}
	c.SetPlaybackSpeed(1.001)
	if c.PlaybackSpeed() != 1.001 {
		t.Fatalf("PlaybackSpeed = %v, want 1.001", c.PlaybackSpeed())
	}
}

func TestClockZeroSpeedWhilePlayingPanics(t *testing.T) {
	c := newTestClock(true, NewClip("Walk", 50, 25))
	_ = c.SetActiveAnimation(0)
	_ = c.SetPlaying(true)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	c.SetPlaybackSpeed(0)
}

func TestClockZeroSpeedWhileStoppedIsRecorded(t *testing.T) {
	c := NewClock()
	c.SetPlaybackSpeed(0)
	if c.PlaybackSpeed() != 0 {
		t.Fatalf("PlaybackSpeed = %v, want 0", c.PlaybackSpeed())
	}
}

func TestClockPlayWithoutAnimation(t *testing.T) {
	c := NewClock()
	err := c.SetPlaying(true)
	var noAnim *NoActiveAnimationError
	if !errors.As(err, &noAnim) {
		t.Fatalf("SetPlaying error = %v, want NoActiveAnimationError", err)
	}
	if c.IsPlaying() {
		t.Fatal("clock started without an animation")
	}
}

func TestLabels(t *testing.T) {
	got := Labels([]Animation{NewClip("Walk", 50, 25), NewClip("Idle", 30, 0)}, 10)
	want := []string{"None (Bind Pose)", "Walk (2.000s)", "Idle (3.000s)"}
	if len(got) != len(want) {
		t.Fatalf("Labels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Labels[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseGotoTime(t *testing.T) {
	cases := []struct {
		text    string
		want    float64
		wantErr bool
	}{
		{"1.5", 1.5, false},
		{"  0 ", 0, false},
		{"2", 2, false},
		{"-1", 0, true},
		{"2.01", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"NaN", 0, true},
		{"-Inf", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseGotoTime(tc.text, 2.0)
		if tc.wantErr {
			var invalid *InvalidTimeError
			if !errors.As(err, &invalid) {
				t.Errorf("ParseGotoTime(%q) error = %v, want InvalidTimeError", tc.text, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseGotoTime(%q) = %v, %v; want %v", tc.text, got, err, tc.want)
		}
	}
}
