package db

import (
	"github.com/orsinium-labs/enum"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Driver names a registered database/sql SQLite driver.
type Driver enum.Member[string]

var (
	// DriverMattn is github.com/mattn/go-sqlite3 (cgo).
	DriverMattn = Driver{Value: "sqlite3"}
	// DriverModernc is modernc.org/sqlite (pure Go).
	DriverModernc = Driver{Value: "sqlite"}

	Drivers = enum.New(DriverMattn, DriverModernc)
)

// ParseDriver returns the driver registered under name.
func ParseDriver(name string) (Driver, bool) {
	driver := Drivers.Parse(name)
	if driver == nil {
		return Driver{}, false
	}
	return *driver, true
}
