package config

import (
	"github.com/caarlos0/env"
)

// Config is the service configuration, read from environment variables
// (a .env file is loaded by the entry points before parsing).
type Config struct {
	Port       string `env:"PORT" envDefault:"8000"`
	APIBaseURL string `env:"BOUKII_API_URL" envDefault:"http://localhost:8080/api"`
	SchoolID   int64  `env:"SCHOOL_ID" envDefault:"1"`

	// Visible hour range of the board; tasks outside it are truncated.
	HourStart string `env:"TIMELINE_HOUR_START" envDefault:"08:00"`
	HourEnd   string `env:"TIMELINE_HOUR_END" envDefault:"18:00"`

	// Pixel constants of the three grids.
	DayPxPerMin     float64 `env:"TIMELINE_DAY_PX_PER_MIN" envDefault:"2"`
	WeekColumnWidth float64 `env:"TIMELINE_WEEK_COLUMN_WIDTH" envDefault:"220"`
	MonthRowHeight  float64 `env:"TIMELINE_MONTH_ROW_HEIGHT" envDefault:"24"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
