package loader

import "testing"

func TestEnvLoaderLoad(t *testing.T) {
	t.Setenv("CONMENU_LOG_LEVEL", "debug")
	t.Setenv("CONMENU_MOUSE", "yes")
	t.Setenv("CONMENU_LEGACY", "off")
	t.Setenv("CONMENU_SETTINGS_CENTER_X", "0.25")
	t.Setenv("CONMENU_SETTINGS_FOOTER", "false")
	t.Setenv("CONMENU_BOGUS", "x")

	config, err := NewEnvLoader(EnvPrefix).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		path string
		want any
	}{
		{"logging.level", "debug"},
		{"settings.mouse", true},
		{"settings.force_legacy", false},
		{"settings.center_x", 0.25},
		{"settings.footer", false},
	}
	for _, tt := range tests {
		got, ok := GetPath(config, tt.path)
		if !ok || got != tt.want {
			t.Errorf("%s = %v (%T), want %v", tt.path, got, got, tt.want)
		}
	}
	if _, ok := config["bogus"]; ok {
		t.Error("variable without a key part should be ignored")
	}
}

func TestEnvLoaderCustomEnviron(t *testing.T) {
	l := NewEnvLoaderWithMapping("APP_", nil)
	l.environ = func() []string {
		return []string{"APP_A_B=1", "OTHER_X_Y=2", "APP_BROKEN"}
	}
	l.AddMapping("APP_LEVEL", "logging.level")

	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, _ := GetPath(config, "a.b"); v != int64(1) {
		t.Errorf("a.b = %v (%T), want 1", v, v)
	}
	if _, ok := config["other"]; ok {
		t.Error("unprefixed variable loaded")
	}
}

func TestEnvToPath(t *testing.T) {
	l := NewEnvLoader(EnvPrefix)
	tests := []struct {
		env  string
		want string
	}{
		{"CONMENU_SETTINGS_MOUSE", "settings.mouse"},
		{"CONMENU_SETTINGS_DOUBLE_WIDTH", "settings.double_width"},
		{"CONMENU_LOGGING_FILE", "logging.file"},
		{"CONMENU_X", ""},
	}
	for _, tt := range tests {
		if got := l.envToPath(tt.env); got != tt.want {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestEnvParseValue(t *testing.T) {
	l := NewEnvLoader(EnvPrefix)
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"true", true},
		{"ON", true},
		{"no", false},
		{"42", int64(42)},
		{"-1.5", -1.5},
		{"#ff0000", "#ff0000"},
		{"1.2.3", "1.2.3"},
	}
	for _, tt := range tests {
		if got := l.parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}
}
