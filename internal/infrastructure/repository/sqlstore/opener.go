package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/riskibarqy/hockey-ingest/internal/domain/integrity"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const defaultPingTimeout = 10 * time.Second

type OpenerConfig struct {
	Driver string
	DSN    string
	// DBName labels spans; empty leaves the attribute unset.
	DBName         string
	QueryFormatter func(query string) string
	PingTimeout    time.Duration
}

// Opener connects to the store lazily, once per validation run.
type Opener struct {
	cfg     OpenerConfig
	dialect Dialect
}

var _ integrity.StoreOpener = (*Opener)(nil)

func NewOpener(cfg OpenerConfig) (*Opener, error) {
	dialect, err := DialectFromDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("database url is required")
	}
	return &Opener{cfg: cfg, dialect: dialect}, nil
}

func (o *Opener) Open(ctx context.Context) (integrity.Store, error) {
	db, err := OpenDB(ctx, o.cfg, o.dialect)
	if err != nil {
		return nil, err
	}
	return NewStore(db, o.dialect), nil
}

// OpenDB opens a traced sqlx handle and verifies it with a ping.
func OpenDB(ctx context.Context, cfg OpenerConfig, dialect Dialect) (*sqlx.DB, error) {
	opts := []otelsql.Option{otelsql.WithDBSystem(dialect.DBSystem())}
	if cfg.DBName != "" {
		opts = append(opts, otelsql.WithDBName(cfg.DBName))
	}
	if cfg.QueryFormatter != nil {
		opts = append(opts, otelsql.WithQueryFormatter(cfg.QueryFormatter))
	}

	db, err := otelsqlx.Open(dialect.DriverName(), cfg.DSN, opts...)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		db.SetMaxOpenConns(1)
	}

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s store: %w", dialect, err)
	}
	return db, nil
}
