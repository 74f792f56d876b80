package config

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/alexflint/go-arg"
	"github.com/nsqlite/tblexport/internal/db"
	"github.com/nsqlite/tblexport/internal/exporter"
	tlog "github.com/nsqlite/tblexport/internal/log"
	"github.com/nsqlite/tblexport/internal/version"
)

// Config represents the configuration for tblexport.
type Config struct {
	Database    string   `arg:"--database,env:TBLEXPORT_DATABASE" help:"Path to the SQLite database file to read" default:"inventory.db"`
	Output      string   `arg:"--output,env:TBLEXPORT_OUTPUT" help:"Path of the CSV file to write, replaced if it already exists" default:"final_table_for_powerbi.csv"`
	Table       string   `arg:"--table,env:TBLEXPORT_TABLE" help:"Table or view to export" default:"final_table"`
	Delimiter   string   `arg:"--delimiter,env:TBLEXPORT_DELIMITER" help:"Single character field delimiter, or tab" default:","`
	OrderBy     []string `arg:"--order-by,env:TBLEXPORT_ORDER_BY" help:"Columns to sort rows by (default: the primary key)"`
	PreviewRows int      `arg:"--preview-rows,env:TBLEXPORT_PREVIEW_ROWS" help:"Rows shown in the sample preview, 0 to disable" default:"3"`
	Driver      string   `arg:"--driver,env:TBLEXPORT_DRIVER" help:"SQLite driver (sqlite3, sqlite)" default:"sqlite3"`
	LogLevel    string   `arg:"--log-level,env:TBLEXPORT_LOG_LEVEL" help:"Level of the JSON logs written to stderr (debug, info, warn, error)" default:"warn"`
	NoProgress  bool     `arg:"--no-progress,env:TBLEXPORT_NO_PROGRESS" help:"Do not draw the progress bar" default:"false"`

	Comma        rune       `arg:"-"`
	ParsedDriver db.Driver  `arg:"-"`
	Level        slog.Level `arg:"-"`
}

func (Config) Version() string {
	return fmt.Sprintf("%s\n", version.CLIVersion())
}

func (Config) Description() string {
	return "Exports one SQLite table to a CSV file ready for Power BI."
}

// MustParse parses and validates the configuration from the command
// line arguments. It returns a Config struct or exits the program
// with an error.
func MustParse(args []string) Config {
	cfg := Config{}

	parser, err := arg.NewParser(
		arg.Config{},
		&cfg,
	)
	if err != nil {
		log.Fatal(err)
	}
	parser.MustParse(args[1:])

	if err := resolve(&cfg); err != nil {
		parser.Fail(err.Error())
	}

	return cfg
}

// resolve validates the raw values and fills the parsed fields.
func resolve(cfg *Config) error {
	var err error

	if err := validateNotBlank("database", cfg.Database); err != nil {
		return err
	}
	if err := validateNotBlank("output", cfg.Output); err != nil {
		return err
	}
	if err := validateNotBlank("table", cfg.Table); err != nil {
		return err
	}

	cfg.Comma, err = parseDelimiter(cfg.Delimiter)
	if err != nil {
		return err
	}

	if err := validatePreviewRows(cfg.PreviewRows); err != nil {
		return err
	}

	cfg.ParsedDriver, err = parseDriver(cfg.Driver)
	if err != nil {
		return err
	}

	cfg.Level, err = tlog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	return nil
}

// validateNotBlank validates that value has non whitespace content.
func validateNotBlank(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("invalid %s, must not be empty", name)
	}
	return nil
}

// parseDelimiter accepts a single character, or "tab" and its escaped
// form for a tab.
func parseDelimiter(delimiter string) (rune, error) {
	switch strings.ToLower(delimiter) {
	case "tab", `\t`:
		return '\t', nil
	}

	if utf8.RuneCountInString(delimiter) != 1 {
		return 0, errors.New("invalid delimiter, must be a single character")
	}

	r, _ := utf8.DecodeRuneInString(delimiter)
	if !exporter.ValidDelimiter(r) {
		return 0, fmt.Errorf("invalid delimiter %q, quotes and line breaks are not allowed", r)
	}
	return r, nil
}

// validatePreviewRows validates if rows is zero or positive.
func validatePreviewRows(rows int) error {
	if rows < 0 {
		return errors.New("invalid preview rows, must be zero or greater")
	}
	return nil
}

// parseDriver validates if name is a registered SQLite driver.
func parseDriver(name string) (db.Driver, error) {
	driver, ok := db.ParseDriver(name)
	if !ok {
		return db.Driver{}, fmt.Errorf(
			"invalid driver, valid values are: %s",
			strings.Join(db.Drivers.Values(), ", "),
		)
	}
	return driver, nil
}
