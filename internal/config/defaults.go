package config

const (
	defaultDatabasePath = "~/.local/share/bluezip/bluezip.db"
	defaultDistDir      = "dist"
	defaultStagingDir   = "~/.local/share/bluezip/staging"
	defaultLogDir       = "~/.local/share/bluezip/logs"
	defaultSevenZip     = "7za"
	defaultTrrntzip     = "trrntzip"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DatabasePath: defaultDatabasePath,
			DistDir:      defaultDistDir,
			StagingDir:   defaultStagingDir,
			LogDir:       defaultLogDir,
		},
		Tools: Tools{
			SevenZip: defaultSevenZip,
			Trrntzip: defaultTrrntzip,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
