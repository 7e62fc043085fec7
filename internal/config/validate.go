package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultTimezone            = "Africa/Lagos"
	DefaultSimilarityThreshold = 0.8
)

// Validate checks everything the process cannot start (or keep running)
// without. Missing credentials are fatal by design: the bot must refuse to
// initialize rather than limp along with a half-configured pipeline.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		return errors.New("telegram.token is required (or BOT_TOKEN in the environment)")
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Sheet.Driver)) {
	case "", "google":
		if strings.TrimSpace(cfg.Sheet.SpreadsheetID) == "" {
			return errors.New("sheet.spreadsheet_id is required for the google driver (or SHEET_ID in the environment)")
		}
		if strings.TrimSpace(cfg.Sheet.CredentialsJSON) == "" {
			return errors.New("sheet.credentials_json is required for the google driver (or GOOGLE_SERVICE_ACCOUNT_JSON in the environment)")
		}
	case "csv":
		if strings.TrimSpace(cfg.Sheet.Path) == "" {
			return errors.New("sheet.path is required for the csv driver")
		}
	default:
		return fmt.Errorf("sheet.driver: unknown driver %q", cfg.Sheet.Driver)
	}

	if th := cfg.Delivery.SimilarityThreshold; th < 0 || th > 1 {
		return fmt.Errorf("delivery.similarity_threshold must be within [0,1], got %v", th)
	}

	if _, err := ParseDurationField("telegram.poll_timeout", cfg.Telegram.PollTimeout); err != nil {
		return err
	}
	if _, err := ParseDurationField("scheduler.poll_interval", cfg.Scheduler.PollInterval); err != nil {
		return err
	}
	if _, err := ParseDurationField("scheduler.cooldown", cfg.Scheduler.Cooldown); err != nil {
		return err
	}

	if tz := strings.TrimSpace(cfg.Scheduler.Timezone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("scheduler.timezone: %w", err)
		}
	}
	for i, t := range cfg.Scheduler.Triggers {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("scheduler.triggers[%d]: name is required", i)
		}
		if _, _, err := ParseHHMM(t.At); err != nil {
			return fmt.Errorf("scheduler.triggers[%d] (%s): %w", i, t.Name, err)
		}
		if len(t.Jobs) == 0 {
			return fmt.Errorf("scheduler.triggers[%d] (%s): at least one job is required", i, t.Name)
		}
		for j, job := range t.Jobs {
			if strings.TrimSpace(job.Category) == "" {
				return fmt.Errorf("scheduler.triggers[%d].jobs[%d]: category is required", i, j)
			}
			if job.ChatID == 0 && cfg.Telegram.GroupChatID == 0 {
				return fmt.Errorf("scheduler.triggers[%d].jobs[%d]: chat_id is required when telegram.group_chat_id is unset", i, j)
			}
		}
	}
	return nil
}

// ParseHHMM parses a 24h "HH:MM" time of day.
func ParseHHMM(s string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time of day %q (want HH:MM)", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}
