package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/adrg/xdg"

	"github.com/nao1215/picgc/internal/pathmap"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "picgc"

	// DriverMySQL selects github.com/go-sql-driver/mysql.
	DriverMySQL = "mysql"

	// DriverSQLite selects modernc.org/sqlite. DBName is then a file path.
	DriverSQLite = "sqlite"

	// DefaultDriver is used when db.driver is empty.
	DefaultDriver = DriverMySQL

	// DefaultHost is the MySQL host used when db.host is empty.
	DefaultHost = "127.0.0.1"

	// DefaultPort is the MySQL port used when db.port is empty.
	DefaultPort = "3306"

	// DefaultTable is the files table used when files.table is empty.
	DefaultTable = "files"
)

// tableNamePattern restricts table names to plain identifiers because the
// name is interpolated into SQL.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z0-9_$]+$`)

// DBConfig holds the database connection parameters.
type DBConfig struct {
	// Driver is "mysql" or "sqlite".
	Driver string `yaml:"driver,omitempty" json:"driver,omitempty"`

	// Host is the database server host name or address.
	Host string `yaml:"host" json:"host"`

	// Port is the server port. It is kept as a string to accept the
	// original config.json format, where it is quoted.
	Port string `yaml:"port" json:"port"`

	// User is the login name.
	User string `yaml:"user" json:"user"`

	// Password is the login password.
	Password string `yaml:"password" json:"password"` //nolint:gosec // configuration field, masked in logs

	// DBName is the schema name, or the database file path for sqlite.
	DBName string `yaml:"db_name" json:"db_name"`
}

// FilesConfig describes the storage directory and the table referencing it.
type FilesConfig struct {
	// Path is the storage directory. Relative paths are resolved against the
	// working directory by ResolveFilesPath.
	Path string `yaml:"path" json:"path"`

	// Table is the table holding the file references.
	Table string `yaml:"table" json:"table"`

	// Prefix is removed from stored paths before joining them to Path.
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty"`

	// BaseLength is the width of the base identifier.
	BaseLength int `yaml:"base_length,omitempty" json:"base_length,omitempty"`
}

// Config holds all configuration options for picgc.
// It is loaded from a file, overridden by the environment and CLI flags, and
// then passed explicitly to the components that need it.
type Config struct {
	DB    DBConfig    `yaml:"db" json:"db"`
	Files FilesConfig `yaml:"files" json:"files"`

	// Debug enables verbose per-item tracing, SQL text and decision fields.
	Debug bool `yaml:"debug" json:"debug"`

	// Simulate disables physical deletion.
	Simulate bool `yaml:"-" json:"-"`

	// AutoConfirm skips the confirmation prompt before deletion.
	AutoConfirm bool `yaml:"-" json:"-"`

	// Check runs the post-cleanup check hook.
	Check bool `yaml:"-" json:"-"`

	// Verbose lowers the log level to debug.
	Verbose bool `yaml:"-" json:"-"`

	// JSONReport writes the run report as JSON.
	JSONReport bool `yaml:"-" json:"-"`

	// MarkdownReport writes the run report as Markdown.
	MarkdownReport bool `yaml:"-" json:"-"`

	// ReportFile writes the run report to a file instead of stdout.
	ReportFile string `yaml:"-" json:"-"`

	// SaveHistory stores the run report in the history database.
	SaveHistory bool `yaml:"-" json:"-"`

	// HistoryDir is the directory of the history database.
	HistoryDir string `yaml:"-" json:"-"`
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		DB: DBConfig{
			Driver: DefaultDriver,
			Host:   DefaultHost,
			Port:   DefaultPort,
		},
		Files: FilesConfig{
			Table:      DefaultTable,
			Prefix:     pathmap.DefaultFragment,
			BaseLength: pathmap.DefaultBaseLength,
		},
		SaveHistory: true,
		HistoryDir:  XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for picgc.
// On Linux: ~/.local/share/picgc
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for picgc.
// On Linux: ~/.config/picgc
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// It does not touch the filesystem; see ResolveFilesPath.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverMySQL:
		if c.DB.Host == "" {
			return ErrMissingHost
		}
		port, err := strconv.Atoi(c.DB.Port)
		if err != nil || port <= 0 || port > 65535 {
			return ErrInvalidPort
		}
	case DriverSQLite:
	default:
		return ErrUnsupportedDriver
	}

	if c.DB.DBName == "" {
		return ErrMissingDBName
	}

	if c.Files.Path == "" {
		return ErrMissingFilesPath
	}

	if c.Files.Table == "" {
		return ErrMissingTable
	}
	if !tableNamePattern.MatchString(c.Files.Table) {
		return ErrInvalidTableName
	}

	if c.Files.BaseLength <= 0 {
		return ErrInvalidBaseLength
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}

// ResolveFilesPath makes Files.Path absolute and verifies that it is an
// existing directory. It must be called before any scanning starts.
func (c *Config) ResolveFilesPath() error {
	path := c.Files.Path
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		path = abs
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &PathError{Path: path, Err: ErrFilesPathNotFound}
		}
		return &PathError{Path: path, Err: err}
	}
	if !info.IsDir() {
		return &PathError{Path: path, Err: ErrFilesPathNotDir}
	}

	c.Files.Path = path
	return nil
}

// ValidTableName reports whether name can be safely used as a table name.
func ValidTableName(name string) bool {
	return tableNamePattern.MatchString(name)
}
