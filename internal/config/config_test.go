package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DataDir != "data" || c.OutputDir != "output" || c.TopN != 10 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.OutlierThreshold != 3.0 || c.PeakMultiplier != 1.5 || len(c.PeakHours) != 6 {
		t.Fatalf("unexpected numeric defaults: %+v", c)
	}
	if c.Tariffs.Casual.UnlockFee != 5.0 || c.Tariffs.Member.PerMinute != 0.2 || c.Tariffs.Distance.PerKm != 1.5 {
		t.Fatalf("unexpected tariff defaults: %+v", c.Tariffs)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	t.Setenv("HOME", t.TempDir())
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load missing explicit file: %v", err)
	}
	for k, v := range map[string]string{
		"data_dir":                  "/srv/bike",
		"top_n":                     "5",
		"peak_hours":                "6, 7",
		"tariffs.member.per_km":     "0.25",
		"export_yaml":               "true",
		"tariffs.casual.per_minute": "0.75",
	} {
		if err := c.Set(k, v); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}
	if err := Save(c, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.DataDir != "/srv/bike" || back.TopN != 5 || !back.ExportYAML {
		t.Fatalf("round trip lost scalars: %+v", back)
	}
	if len(back.PeakHours) != 2 || back.PeakHours[0] != 6 {
		t.Fatalf("peak hours = %v", back.PeakHours)
	}
	if back.Tariffs.Member.PerKm != 0.25 || back.Tariffs.Casual.PerMinute != 0.75 {
		t.Fatalf("tariffs = %+v", back.Tariffs)
	}
	if back.Path("trips.csv") != filepath.Join("/srv/bike", "trips.csv") {
		t.Fatalf("Path = %s", back.Path("trips.csv"))
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("top_n: 7\noutput_dir: out\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CITYBIKE_OUTPUT_DIR", "env-out")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.TopN != 7 {
		t.Fatalf("file value not applied: %d", c.TopN)
	}
	if c.OutputDir != "env-out" {
		t.Fatalf("env should win over file, got %s", c.OutputDir)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("top_n: [unterminated\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}

func TestSetAndValidateRejectBadValues(t *testing.T) {
	c := &Global{TopN: 1, OutlierThreshold: 1}
	bad := map[string]string{
		"top_n":                 "0",
		"outlier_threshold":     "-2",
		"log_level":             "loud",
		"peak_hours":            "7,25",
		"tariffs.member.per_km": "-1",
		"tariffs.vip.per_km":    "1",
		"no_such_key":           "x",
		"export_xlsx":           "maybe",
	}
	for k, v := range bad {
		if err := c.Set(k, v); err == nil {
			t.Fatalf("Set(%s, %s) should fail", k, v)
		}
	}
	c.Tariffs.Casual.UnlockFee = -1
	if err := c.Validate(); err == nil {
		t.Fatalf("negative tariff should not validate")
	}
}
