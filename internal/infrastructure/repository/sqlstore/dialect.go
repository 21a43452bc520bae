package sqlstore

import (
	"fmt"
	"strings"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

// DialectFromDriver maps a database/sql driver name to a dialect.
func DialectFromDriver(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "postgres", "postgresql", "pgx":
		return DialectPostgres, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// DriverName is the registered database/sql driver for the dialect.
func (d Dialect) DriverName() string {
	if d == DialectSQLite {
		return "sqlite3"
	}
	return "postgres"
}

// DBSystem is the OpenTelemetry db.system value.
func (d Dialect) DBSystem() string {
	if d == DialectSQLite {
		return "sqlite"
	}
	return "postgresql"
}
