package clock

import (
	"context"
	"testing"
	"time"
)

func fixNow(t *testing.T) {
	t.Helper()
	orig := now
	now = func() time.Time {
		return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	}
	t.Cleanup(func() { now = orig })
}

func TestGetCityTime(t *testing.T) {
	fixNow(t)

	tests := []struct {
		name     string
		city     string
		wantZone string
		wantTime string
	}{
		{"seoul", "Seoul", "Asia/Seoul", "2025-03-14 21:00:00"},
		{"case insensitive", "  NEW YORK ", "America/New_York", "2025-03-14 08:00:00"},
		{"alias", "nyc", "America/New_York", "2025-03-14 08:00:00"},
		{"unknown falls back to UTC", "Atlantis", "UTC", "2025-03-14 12:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := getCityTime(context.Background(), map[string]any{"city": tt.city})
			if err != nil {
				t.Fatalf("getCityTime: %v", err)
			}
			m := got.(map[string]any)
			if m["timeZone"] != tt.wantZone {
				t.Errorf("timeZone = %v, want %v", m["timeZone"], tt.wantZone)
			}
			if m["formatted"] != tt.wantTime {
				t.Errorf("formatted = %v, want %v", m["formatted"], tt.wantTime)
			}
			if m["city"] != tt.city {
				t.Errorf("city = %v, want %v", m["city"], tt.city)
			}
		})
	}
}

func TestGetCitiesTime(t *testing.T) {
	fixNow(t)

	got, err := getCitiesTime(context.Background(), map[string]any{
		"cities": []any{"Seoul", "London"},
	})
	if err != nil {
		t.Fatalf("getCitiesTime: %v", err)
	}

	list := got.([]any)
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	first := list[0].(map[string]any)
	if first["timeZone"] != "Asia/Seoul" {
		t.Errorf("first timeZone = %v, want Asia/Seoul", first["timeZone"])
	}
}

func TestGetNYSETime(t *testing.T) {
	fixNow(t)

	got, err := getNYSETime(context.Background(), nil)
	if err != nil {
		t.Fatalf("getNYSETime: %v", err)
	}
	m := got.(map[string]any)
	if m["timeZone"] != "America/New_York" {
		t.Errorf("timeZone = %v, want America/New_York", m["timeZone"])
	}
}

func TestDefinitions(t *testing.T) {
	defs := Definitions()
	if len(defs) != 3 {
		t.Fatalf("len(defs) = %d, want 3", len(defs))
	}
	for _, d := range defs {
		if d.Parameters == nil {
			t.Errorf("%s: nil parameters schema", d.Name)
		}
		if d.Handler == nil {
			t.Errorf("%s: nil handler", d.Name)
		}
	}
}
