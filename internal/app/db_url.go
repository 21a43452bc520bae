package app

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/riskibarqy/hockey-ingest/internal/config"
)

var sqliteSchemes = []string{"sqlite3://", "sqlite://", "file://"}

// normalizeDBURL turns DB_URL into a DSN the selected driver accepts.
func normalizeDBURL(driver, raw string, disablePreparedBinaryResult bool) string {
	raw = strings.TrimSpace(raw)
	if driver == config.DBDriverSQLite {
		return sqlitePath(raw)
	}
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}

func sqlitePath(raw string) string {
	for _, scheme := range sqliteSchemes {
		if strings.HasPrefix(raw, scheme) {
			return strings.TrimPrefix(raw, scheme)
		}
	}
	return raw
}

// MigrationDatabaseURL is DB_URL in the form golang-migrate expects.
func MigrationDatabaseURL(cfg config.Config) string {
	dsn := normalizeDBURL(cfg.DBDriver, cfg.DBURL, cfg.DBDisablePreparedBinary)
	if cfg.DBDriver == config.DBDriverSQLite {
		return "sqlite3://" + dsn
	}
	return dsn
}

func dbNameFromURL(driver, raw string) string {
	trimmed := strings.TrimSpace(raw)
	if driver == config.DBDriverSQLite {
		path := sqlitePath(trimmed)
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
		return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(token, "dbname="))
		name = strings.Trim(name, `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}
