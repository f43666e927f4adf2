package main

import (
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine/compositor"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/viewport"
)

func TestFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "effective.toml")

	base := config.Default()
	base.Layout = "two"
	base.ShowFPS = true
	in := filepath.Join(dir, "base.yaml")
	if err := config.Save(base, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cmd := newRootCommand()
	cmd.SetArgs([]string{"--config", in, "--layout", "four", "--msaa", "3", "--write-config", out})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	got, err := config.Load(out)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ViewMode() != viewport.ViewModeFour || got.Render.Multisampling != 3 {
		t.Fatalf("flags not applied: %+v", got)
	}
	if !got.ShowFPS {
		t.Fatal("unset flag overrode the config file")
	}
}

func TestInvalidFlagRejected(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"--msaa", "9", "--write-config", filepath.Join(t.TempDir(), "x.yaml")})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	if err := cmd.Execute(); err == nil {
		t.Fatal("Execute accepted multisampling level 9")
	}
}

func TestHeadlessDemo(t *testing.T) {
	cfg := config.Default()
	cfg.Layout = "four"
	cfg.HUD.FadeInSeconds = 0
	if err := runHeadless(cfg, scene.DemoName, 5); err != nil {
		t.Fatalf("runHeadless: %v", err)
	}
}

func TestInfoDemo(t *testing.T) {
	if err := runInfo(scene.DemoName); err != nil {
		t.Fatalf("runInfo: %v", err)
	}
	if err := runInfo(filepath.Join(t.TempDir(), "missing.glb")); err == nil {
		t.Fatal("runInfo succeeded on a missing file")
	}
}

func TestWindowTitle(t *testing.T) {
	s, err := scene.Open(scene.DemoName, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	tests := []struct {
		tab  compositor.TabState
		want string
	}{
		{compositor.TabState{}, "Oxy"},
		{compositor.TabState{Status: compositor.TabLoading}, "Oxy - loading"},
		{compositor.TabState{Status: compositor.TabFailed, ErrorMessage: "x"}, "Oxy"},
		{compositor.TabState{Status: compositor.TabLoaded, Scene: s}, "Oxy - demo"},
	}
	for _, tt := range tests {
		if got := windowTitle("Oxy", tt.tab); got != tt.want {
			t.Errorf("windowTitle(%v) = %q, want %q", tt.tab.Status, got, tt.want)
		}
	}
}
