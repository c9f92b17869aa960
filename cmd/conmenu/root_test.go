package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/conmenu/internal/app"
	"github.com/dshills/conmenu/internal/capability"
	"github.com/dshills/conmenu/internal/renderer/backend"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLogLevelValidation(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"warn", false},
		{"error", false},
		{"loud", true},
	}

	stubProbe(t, capability.ProbeInput{}, 0, 0, false)
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			_, err := execute(t, "probe", "--log-level", tt.level)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "invalid log level") {
				t.Errorf("error = %q", err.Error())
			}
		})
	}
}

func stubProbe(t *testing.T, in capability.ProbeInput, w, h int, ok bool) {
	t.Helper()
	old := probeEnv
	probeEnv = func() (capability.ProbeInput, int, int, bool) { return in, w, h, ok }
	t.Cleanup(func() { probeEnv = old })
}

func TestProbeCommand(t *testing.T) {
	tests := []struct {
		name  string
		in    capability.ProbeInput
		ok    bool
		args  []string
		wants []string
	}{
		{
			name:  "modern terminal",
			in:    capability.ProbeInput{IsTerminal: true, Term: "xterm-256color", Colors: -1},
			ok:    true,
			args:  []string{"probe"},
			wants: []string{"mode: modern", "terminal: true", "viewport: 100 x 40"},
		},
		{
			name:  "forced legacy",
			in:    capability.ProbeInput{IsTerminal: true, Term: "xterm-256color", Colors: -1},
			ok:    true,
			args:  []string{"probe", "--legacy"},
			wants: []string{"mode: legacy"},
		},
		{
			name:  "detached",
			in:    capability.ProbeInput{Colors: -1},
			args:  []string{"probe"},
			wants: []string{"mode: legacy", "terminal: false", "viewport: unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubProbe(t, tt.in, 100, 40, tt.ok)
			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("execute failed: %v", err)
			}
			for _, want := range tt.wants {
				if !strings.Contains(out, want) {
					t.Errorf("output %q missing %q", out, want)
				}
			}
		})
	}
}

func TestScriptCommand(t *testing.T) {
	b := backend.NewNullBackend(80, 24)
	var exits []int
	old := appOptions
	appOptions = func(opts app.Options) app.Options {
		opts.Backend = b
		opts.Probe = func(int) capability.Mode { return capability.ModeModern }
		opts.Exit = func(code int) { exits = append(exits, code) }
		opts.Stderr = &bytes.Buffer{}
		return opts
	}
	t.Cleanup(func() { appOptions = old })

	dir := t.TempDir()
	path := filepath.Join(dir, "menu.lua")
	src := `
local m = menu.create_menu()
m:add(menu.create_item("Only"))
assert(menu.enable_menu(m))
`
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	if _, err := execute(t, "script", path); err != nil {
		t.Fatalf("script failed: %v", err)
	}
	if !b.IsShutdown() {
		t.Error("backend should be shut down after the script")
	}

	if _, err := execute(t, "script", filepath.Join(dir, "missing.lua")); err == nil {
		t.Error("missing script should fail")
	}
	if _, err := execute(t, "script"); err == nil {
		t.Error("script without a file should fail")
	}
	if len(exits) != 0 {
		t.Errorf("exits = %v, want none", exits)
	}
}
