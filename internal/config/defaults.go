package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Server: ServerConfig{
			Port: 4250,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/tracker",
			},
		},
		Quotes: QuotesConfig{
			BaseURL:        "https://query1.finance.yahoo.com",
			Timeout:        "10s",
			RateLimit:      5,
			OpenInterval:   "30s",
			ClosedInterval: "5m",
			Timezone:       "America/New_York",
			Watch:          []string{},
		},
		Backfill: BackfillConfig{
			BatchSize: 10,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Outputs:    []string{"console"},
			FilePath:   "./logs/tracker.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}
