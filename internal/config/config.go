package config

import "time"

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Import   ImportConfig   `yaml:"import"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// ImportConfig holds limits for the chest import pipeline.
type ImportConfig struct {
	// MaxBatchRows caps the number of rows accepted in one preview/commit.
	MaxBatchRows int `yaml:"max_batch_rows" env:"IMPORT_MAX_BATCH_ROWS" env-default:"1000"`
	// MaxRawBytes caps the raw payload size handed to the parser.
	MaxRawBytes int `yaml:"max_raw_bytes" env:"IMPORT_MAX_RAW_BYTES" env-default:"1048576"`
	// MaxRulesPerClan caps the rule count per clan and kind.
	MaxRulesPerClan int `yaml:"max_rules_per_clan" env:"IMPORT_MAX_RULES_PER_CLAN" env-default:"500"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
