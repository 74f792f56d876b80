package config

import (
	"log/slog"
	"testing"

	"github.com/nsqlite/tblexport/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseDelimiter(t *testing.T) {
	tests := []struct {
		name      string
		delimiter string
		want      rune
		wantErr   bool
	}{
		{name: "comma", delimiter: ",", want: ','},
		{name: "semicolon", delimiter: ";", want: ';'},
		{name: "pipe", delimiter: "|", want: '|'},
		{name: "literal tab", delimiter: "\t", want: '\t'},
		{name: "tab keyword", delimiter: "TAB", want: '\t'},
		{name: "escaped tab", delimiter: `\t`, want: '\t'},
		{name: "multibyte character", delimiter: "§", want: '§'},
		{name: "empty", delimiter: "", wantErr: true},
		{name: "two characters", delimiter: ",,", wantErr: true},
		{name: "quote", delimiter: `"`, wantErr: true},
		{name: "newline", delimiter: "\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDelimiter(tt.delimiter)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_validatePreviewRows(t *testing.T) {
	assert.NoError(t, validatePreviewRows(0))
	assert.NoError(t, validatePreviewRows(3))
	assert.Error(t, validatePreviewRows(-1))
}

func Test_parseDriver(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		want    db.Driver
		wantErr bool
	}{
		{name: "mattn", driver: "sqlite3", want: db.DriverMattn},
		{name: "modernc", driver: "sqlite", want: db.DriverModernc},
		{name: "unknown", driver: "postgres", wantErr: true},
		{name: "case sensitive", driver: "SQLITE3", wantErr: true},
		{name: "empty", driver: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDriver(tt.driver)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "valid values are")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_resolve(t *testing.T) {
	valid := func() Config {
		return Config{
			Database:    "inventory.db",
			Output:      "final_table_for_powerbi.csv",
			Table:       "final_table",
			Delimiter:   ",",
			PreviewRows: 3,
			Driver:      "sqlite3",
			LogLevel:    "warn",
		}
	}

	t.Run("Defaults", func(t *testing.T) {
		cfg := valid()
		require.NoError(t, resolve(&cfg))
		assert.Equal(t, ',', cfg.Comma)
		assert.Equal(t, db.DriverMattn, cfg.ParsedDriver)
		assert.Equal(t, slog.LevelWarn, cfg.Level)
	})

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "blank database", modify: func(c *Config) { c.Database = " " }},
		{name: "blank output", modify: func(c *Config) { c.Output = "" }},
		{name: "blank table", modify: func(c *Config) { c.Table = "" }},
		{name: "bad delimiter", modify: func(c *Config) { c.Delimiter = "ab" }},
		{name: "negative preview", modify: func(c *Config) { c.PreviewRows = -2 }},
		{name: "bad driver", modify: func(c *Config) { c.Driver = "mysql" }},
		{name: "bad log level", modify: func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)
			assert.Error(t, resolve(&cfg))
		})
	}
}
