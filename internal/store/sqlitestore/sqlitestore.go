// Package sqlitestore keeps the key/value pairs in a single SQLite table.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/idilsaglam/quicklinks/internal/store"
)

const (
	DBFileName          = "quicklinks.sqlite"
	DefaultPollInterval = time.Second
)

var (
	_ store.Adapter   = (*Store)(nil)
	_ store.Watchable = (*Store)(nil)
)

// Pragmas applied to every pooled connection. WAL allows one writer and
// many readers across processes.
var pragmas = []string{
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"busy_timeout(5000)",
}

type Store struct {
	db   *sql.DB
	path string
	log  *logrus.Entry

	// PollInterval is how often Watch checks for commits by other connections.
	PollInterval time.Duration
}

// Open opens (creating if needed) dir/quicklinks.sqlite.
func Open(ctx context.Context, dir string, log *logrus.Entry) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	path := filepath.Join(dir, DBFileName)

	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", "file:"+path+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &Store{db: db, path: path, log: log, PollInterval: DefaultPollInterval}, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO kv(k, v) VALUES(?, ?)`, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Watch polls PRAGMA data_version on a dedicated connection. The value
// moves whenever another connection commits, including other processes.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("watch conn: %w", err)
	}
	last, err := dataVersion(ctx, conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	interval := s.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer conn.Close()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				v, err := dataVersion(ctx, conn)
				if err != nil {
					if ctx.Err() == nil {
						s.log.WithError(err).Warn("poll data_version")
					}
					continue
				}
				if v == last {
					continue
				}
				last = v
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out, nil
}

func dataVersion(ctx context.Context, conn *sql.Conn) (int64, error) {
	var v int64
	if err := conn.QueryRowContext(ctx, `PRAGMA data_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("data_version: %w", err)
	}
	return v, nil
}
