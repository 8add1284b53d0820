package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Tasks    TasksConfig    `mapstructure:"tasks" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// LogFile, when set, duplicates log output to a rotating file.
	LogFile string `mapstructure:"log_file"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// TasksConfig contains task-domain settings.
type TasksConfig struct {
	// DayFilterTimezone is the IANA location used to resolve calendar-day
	// boundaries for createdAt filtering. Day-equality on task creation
	// dates is evaluated in this zone regardless of the time-of-day stored.
	DayFilterTimezone string `mapstructure:"day_filter_timezone" validate:"required"`
}
