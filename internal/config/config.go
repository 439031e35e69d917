package config

type Config struct {
	Environment Environment
	Log         Log

	// DatabasePath is the sqlite file holding the producer's data.
	DatabasePath string `env:"DATABASE_PATH" envDefault:"microgreens.db"`

	// AllowSundayProduction skips the move-to-Saturday rule for production
	// dates that land on a Sunday.
	AllowSundayProduction bool `env:"ALLOW_SUNDAY_PRODUCTION" envDefault:"false"`

	// ExportDir receives generated schedule workbooks.
	ExportDir string `env:"EXPORT_DIR" envDefault:"."`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}
