package config

import (
	"strings"
	"testing"
)

const sampleYAML = `
telegram:
  token: "123:abc"
  owner_user_ids: [111, 222]
  group_chat_id: -100123
  poll_timeout: "10s"
logging:
  level: "info"
  console: true
sheet:
  driver: "google"
  spreadsheet_id: "sheet-id"
  credentials_json: '{"type":"service_account"}'
  range: "Sheet1"
journal:
  driver: "file"
  path: "./journal.jsonl"
delivery:
  similarity_threshold: 0.8
scheduler:
  enabled: true
  timezone: "Africa/Lagos"
  triggers:
    - name: "morning"
      at: "08:30"
      jobs:
        - category: "nigeria"
        - category: "tech"
        - category: "international"
`

func parseSample(t *testing.T) *Config {
	t.Helper()
	cfg, err := ParseBytes("config.yaml", []byte(sampleYAML))
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	return cfg
}

func TestParseYAML(t *testing.T) {
	cfg := parseSample(t)

	if cfg.Telegram.Token != "123:abc" || cfg.Telegram.GroupChatID != -100123 {
		t.Fatalf("telegram = %+v", cfg.Telegram)
	}
	if len(cfg.Telegram.OwnerUserIDs) != 2 || cfg.Telegram.OwnerUserIDs[1] != 222 {
		t.Fatalf("owners = %v", cfg.Telegram.OwnerUserIDs)
	}
	if cfg.Sheet.Driver != "google" || cfg.Sheet.Range != "Sheet1" {
		t.Fatalf("sheet = %+v", cfg.Sheet)
	}
	if cfg.Journal == nil || cfg.Journal.Driver != "file" {
		t.Fatalf("journal = %+v", cfg.Journal)
	}
	if len(cfg.Scheduler.Triggers) != 1 || len(cfg.Scheduler.Triggers[0].Jobs) != 3 {
		t.Fatalf("triggers = %+v", cfg.Scheduler.Triggers)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	bad := strings.Replace(sampleYAML, "delivery:", "delivry:", 1)
	if _, err := ParseBytes("config.yaml", []byte(bad)); err == nil {
		t.Fatalf("misspelled section must be rejected")
	}
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing token", func(c *Config) { c.Telegram.Token = "" }},
		{"google without sheet id", func(c *Config) { c.Sheet.SpreadsheetID = "" }},
		{"google without credentials", func(c *Config) { c.Sheet.CredentialsJSON = "" }},
		{"unknown driver", func(c *Config) { c.Sheet.Driver = "excel" }},
		{"csv without path", func(c *Config) { c.Sheet.Driver = "csv"; c.Sheet.Path = "" }},
		{"threshold out of range", func(c *Config) { c.Delivery.SimilarityThreshold = 1.5 }},
		{"bad duration", func(c *Config) { c.Telegram.PollTimeout = "ten seconds" }},
		{"bad timezone", func(c *Config) { c.Scheduler.Timezone = "Mars/Olympus" }},
		{"trigger without name", func(c *Config) { c.Scheduler.Triggers[0].Name = "" }},
		{"trigger bad time", func(c *Config) { c.Scheduler.Triggers[0].At = "8:3pm" }},
		{"trigger without jobs", func(c *Config) { c.Scheduler.Triggers[0].Jobs = nil }},
		{"job without category", func(c *Config) { c.Scheduler.Triggers[0].Jobs[0].Category = "" }},
		{"job without destination", func(c *Config) {
			c.Telegram.GroupChatID = 0
			c.Scheduler.Triggers[0].Jobs[0].ChatID = 0
		}},
	}
	for _, tc := range cases {
		cfg := parseSample(t)
		tc.mutate(cfg)
		if err := Validate(cfg); err == nil {
			t.Fatalf("%s: Validate accepted an invalid config", tc.name)
		}
	}
}

func TestValidateCSVDriver(t *testing.T) {
	cfg := parseSample(t)
	cfg.Sheet = SheetConfig{Driver: "csv", Path: "./catalog.csv"}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParseHHMM(t *testing.T) {
	h, m, err := ParseHHMM("08:30")
	if err != nil || h != 8 || m != 30 {
		t.Fatalf("ParseHHMM(08:30) = %d,%d,%v", h, m, err)
	}
	if _, _, err := ParseHHMM("24:00"); err == nil {
		t.Fatalf("hour 24 accepted")
	}
	if _, _, err := ParseHHMM("12:60"); err == nil {
		t.Fatalf("minute 60 accepted")
	}
	if _, _, err := ParseHHMM("830"); err == nil {
		t.Fatalf("missing colon accepted")
	}
}

func TestParseDurationField(t *testing.T) {
	if d, err := ParseDurationField("x", ""); err != nil || d != 0 {
		t.Fatalf("empty duration = %v, %v", d, err)
	}
	if _, err := ParseDurationField("x", "-5s"); err == nil {
		t.Fatalf("negative duration accepted")
	}
	if d, err := ParseDurationOrDefault("x", "", 42); err != nil || d != 42 {
		t.Fatalf("default not applied: %v, %v", d, err)
	}
}
