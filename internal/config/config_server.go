package config

import "time"

// ServerConfig configures the HTTP surface that drives the loop.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig configures the session-record store.
type DatabaseConfig struct {
	// Driver selects the sql.DB driver: "sqlite", "postgres".
	Driver string `yaml:"driver"`

	// DSN is the connection string. For sqlite this is a file path
	// (or ":memory:"); for postgres a standard libpq DSN.
	DSN string `yaml:"dsn"`

	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// WorkspaceConfig configures the sandboxed root all file and process
// tools resolve paths against.
type WorkspaceConfig struct {
	// Root is the absolute path tool calls are sandboxed to.
	Root string `yaml:"root"`

	// MaxFileBytes caps file_read/file_write payload size.
	MaxFileBytes int64 `yaml:"max_file_bytes"`

	// AllowedDirs lists additional absolute directories file tools may
	// resolve paths into besides Root. Paths under a reserved system
	// directory (/etc, /proc, /sys, /dev, /boot, /root) are always denied,
	// even if they fall under Root or an AllowedDirs entry.
	AllowedDirs []string `yaml:"allowed_dirs"`
}
