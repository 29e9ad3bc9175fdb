package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override values from the configuration file.
const (
	EnvDBDriver   = "PICGC_DB_DRIVER"
	EnvDBHost     = "PICGC_DB_HOST"
	EnvDBPort     = "PICGC_DB_PORT"
	EnvDBUser     = "PICGC_DB_USER"
	EnvDBPassword = "PICGC_DB_PASSWORD" //nolint:gosec // variable name, not a credential
	EnvDBName     = "PICGC_DB_NAME"
	EnvFilesPath  = "PICGC_FILES_PATH"
	EnvFilesTable = "PICGC_FILES_TABLE"
)

// LoadDotEnv loads variables from a .env file into the process environment.
// Variables that are already set keep their value. A missing file is not an
// error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// ApplyEnv overrides configuration values with the variables found by
// lookup. Pass os.LookupEnv for the process environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	overrides := []struct {
		key string
		dst *string
	}{
		{EnvDBDriver, &c.DB.Driver},
		{EnvDBHost, &c.DB.Host},
		{EnvDBPort, &c.DB.Port},
		{EnvDBUser, &c.DB.User},
		{EnvDBPassword, &c.DB.Password},
		{EnvDBName, &c.DB.DBName},
		{EnvFilesPath, &c.Files.Path},
		{EnvFilesTable, &c.Files.Table},
	}

	for _, o := range overrides {
		if v, ok := lookup(o.key); ok && v != "" {
			*o.dst = v
		}
	}
}
