package config

type Config struct {
	Telegram  TelegramConfig  `json:"telegram"`
	Logging   LoggingConfig   `json:"logging"`
	Sheet     SheetConfig     `json:"sheet"`
	Journal   *JournalConfig  `json:"journal,omitempty"`
	Delivery  DeliveryConfig  `json:"delivery"`
	Scheduler SchedulerConfig `json:"scheduler"`
}

type TelegramConfig struct {
	Token        string  `json:"token"`
	OwnerUserIDs []int64 `json:"owner_user_ids"`
	// GroupChatID is the default delivery destination for scheduled triggers.
	GroupChatID int64 `json:"group_chat_id"`
	// PollTimeout is a Go duration string (e.g. "10s", "2m").
	PollTimeout string `json:"poll_timeout"`
}

type LoggingConfig struct {
	Level    string          `json:"level"`
	Console  bool            `json:"console"`
	File     LoggingFile     `json:"file"`
	Telegram LoggingTelegram `json:"telegram"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type LoggingTelegram struct {
	Enabled    bool   `json:"enabled"`
	ChatID     int64  `json:"chat_id"`
	MinLevel   string `json:"min_level"`
	RatePerSec int    `json:"rate_per_sec"`
}

// SheetConfig selects and configures the catalog row store.
//
// Driver values:
//   - "google": Google Sheets (spreadsheet_id + service-account credentials)
//   - "csv": local CSV file (path), mainly for development
type SheetConfig struct {
	Driver        string `json:"driver"`
	SpreadsheetID string `json:"spreadsheet_id,omitempty"`
	// CredentialsJSON holds the service-account key. Usually left empty here
	// and supplied via the GOOGLE_SERVICE_ACCOUNT_JSON environment variable.
	CredentialsJSON string `json:"credentials_json,omitempty"`
	// Range is the sheet/tab name, e.g. "Sheet1".
	Range string `json:"range,omitempty"`
	Path  string `json:"path,omitempty"`
}

// JournalConfig controls the local delivery journal.
//
// Driver values:
//   - "sqlite": SQLite database file
//   - "file": append-only jsonl file
//
// If the whole section is omitted or driver is empty/"none", journaling is
// disabled.
type JournalConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

type DeliveryConfig struct {
	// SimilarityThreshold is the minimum category-name similarity for a row to
	// match a requested category. Zero means the default (0.8).
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty"`
	// Footer is appended to every rendered message. Empty means the built-in
	// default footer.
	Footer string `json:"footer,omitempty"`
}

// SchedulerConfig configures the daily trigger loop.
//
// All durations are Go duration strings.
type SchedulerConfig struct {
	Enabled bool `json:"enabled"`
	// Timezone is an IANA zone name. Trigger times are evaluated in this zone
	// regardless of where the process runs. Default: "Africa/Lagos".
	Timezone string `json:"timezone,omitempty"`
	// PollInterval is how often the wall clock is sampled. Default: "10s".
	PollInterval string `json:"poll_interval,omitempty"`
	// Cooldown holds a trigger after firing so consecutive polls can't observe
	// the same minute twice. Default: "61s".
	Cooldown string          `json:"cooldown,omitempty"`
	Triggers []TriggerConfig `json:"triggers"`
}

// TriggerConfig is one named daily time-of-day trigger.
type TriggerConfig struct {
	Name string `json:"name"`
	// At is the local time of day in HH:MM (24h).
	At   string      `json:"at"`
	Jobs []JobConfig `json:"jobs"`
}

// JobConfig binds a category to a destination. ChatID 0 means the default
// telegram.group_chat_id.
type JobConfig struct {
	Category string `json:"category"`
	ChatID   int64  `json:"chat_id,omitempty"`
}
