package debug

import (
	"log/slog"
	"testing"
)

func TestParseCategories(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]bool
	}{
		{"empty", "", map[string]bool{}},
		{"single", "provider", map[string]bool{"provider": true}},
		{"multiple", "provider,engine", map[string]bool{"provider": true, "engine": true}},
		{"all", "all", map[string]bool{"all": true}},
		{"with spaces", " provider , engine ", map[string]bool{"provider": true, "engine": true}},
		{"uppercase normalized", "PROVIDER,Engine", map[string]bool{"provider": true, "engine": true}},
		{"empty segments", "provider,,engine", map[string]bool{"provider": true, "engine": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseCategories(tt.input)
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("got[%q] = %v, want %v", k, got[k], v)
				}
			}
			if len(got) != len(tt.want) {
				t.Errorf("len(got) = %d, want %d", len(got), len(tt.want))
			}
		})
	}
}

func TestEnabled(t *testing.T) {
	orig := categories
	defer func() { categories = orig }()

	categories = parseCategories("provider,engine")

	if !Enabled("provider") {
		t.Error("provider should be enabled")
	}
	if !Enabled("engine") {
		t.Error("engine should be enabled")
	}
	if Enabled("tools") {
		t.Error("tools should not be enabled")
	}
}

func TestEnabledAll(t *testing.T) {
	orig := categories
	defer func() { categories = orig }()

	categories = parseCategories("all")

	if !Enabled("provider") || !Enabled("anything") {
		t.Error("every category should be enabled via 'all'")
	}
}

func TestEnabledEmpty(t *testing.T) {
	orig := categories
	defer func() { categories = orig }()

	categories = parseCategories("")

	if Enabled("provider") {
		t.Error("nothing should be enabled with empty categories")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"TRACE", LevelTrace},
		{"trace", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{" debug ", slog.LevelDebug},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("Truncate short = %q", got)
	}
	if got := Truncate("hello world", 5); got != "hello..." {
		t.Errorf("Truncate long = %q", got)
	}
}
