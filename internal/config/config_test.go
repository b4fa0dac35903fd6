package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `scenario:
  start_date: "2022-05-06"
  end_date: "2022-06-02"
  step_size: 15
  seed: 3
  soc_min: 0.2
  eta_cp: 1
  home_private: 0.5
  work_private: 0.7
data_dir: data/probability
num_threads: 4
regions:
  - id: SR_Metro
    type: metropolitan
  - id: LR_Land
    type: rural
mqtt:
  enabled: true
  broker: localhost:1883
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(cfg.Regions) != 2 || cfg.Regions[0].ID != "SR_Metro" {
		t.Errorf("unexpected regions %+v", cfg.Regions)
	}
	if cfg.Scenario.StepSize != 15 || cfg.Scenario.Seed != 3 {
		t.Errorf("unexpected scenario %+v", cfg.Scenario)
	}
	start, _ := cfg.Scenario.Start()
	if start.Format("2006-01-02") != "2022-05-06" {
		t.Errorf("unexpected start %s", start)
	}
	if cfg.GetNumThreads() != 4 || cfg.GetDataDir() != "data/probability" {
		t.Errorf("unexpected getters: %d %s", cfg.GetNumThreads(), cfg.GetDataDir())
	}
	if cfg.MQTT.GetTopicPrefix() != "simbev" {
		t.Errorf("unexpected topic prefix %q", cfg.MQTT.GetTopicPrefix())
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should give empty config, got %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("empty config should not validate")
	}
	if cfg.GetNumThreads() != 1 || cfg.GetDataDir() != "data" {
		t.Errorf("unexpected defaults: %d %s", cfg.GetNumThreads(), cfg.GetDataDir())
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "invalid: yaml: content: [[[")); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := map[string]func(c *Config){
		"no regions":       func(c *Config) { c.Regions = nil },
		"empty region id":  func(c *Config) { c.Regions[0].ID = "" },
		"zero step":        func(c *Config) { c.Scenario.StepSize = 0 },
		"step above a day": func(c *Config) { c.Scenario.StepSize = 2000 },
		"bad date":         func(c *Config) { c.Scenario.StartDate = "06/05/2022" },
		"reversed dates":   func(c *Config) { c.Scenario.StartDate = "2022-07-01" },
		"soc above one":    func(c *Config) { c.Scenario.SocMin = 1.5 },
		"mqtt no broker":   func(c *Config) { c.MQTT.Broker = "" },
	}
	for name, mutate := range tests {
		cfg, err := Load(writeConfig(t, validYAML))
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := again.Validate(); err != nil {
		t.Errorf("saved config no longer validates: %v", err)
	}
}

func TestStepDividesDay(t *testing.T) {
	for step, want := range map[int]bool{1: true, 15: true, 60: true, 7: false, 1440: true, 0: false} {
		if got := (Scenario{StepSize: step}).StepDividesDay(); got != want {
			t.Errorf("StepDividesDay(%d) = %v", step, got)
		}
	}
}
