package database

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
)

const (
	defaultPostgresPort = 5432
	defaultMySQLPort    = 3306
	sqliteMemoryDSN     = "file::memory:?cache=shared&_foreign_keys=1"
)

// postgresDSN renders a postgres:// URL. sslmode defaults to disable.
func postgresDSN(cfg Config) (string, error) {
	if dsn := strings.TrimSpace(cfg.DSN); dsn != "" {
		return dsn, nil
	}
	if cfg.User == "" || cfg.Name == "" {
		return "", errors.New("postgres configuration requires user and database name")
	}

	host := hostOrDefault(cfg.Host, "localhost")
	port := portOrDefault(cfg.Port, defaultPostgresPort)

	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/" + cfg.Name,
	}
	if cfg.Password != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	} else {
		u.User = url.User(cfg.User)
	}

	query := url.Values{}
	for key, value := range cfg.Options {
		query.Set(key, value)
	}
	if query.Get("sslmode") == "" {
		query.Set("sslmode", "disable")
	}
	u.RawQuery = query.Encode()

	return u.String(), nil
}

// mysqlDSN renders a go-sql-driver DSN with parseTime enabled and utf8mb4 as the charset.
func mysqlDSN(cfg Config) (string, error) {
	if dsn := strings.TrimSpace(cfg.DSN); dsn != "" {
		return dsn, nil
	}
	if cfg.User == "" || cfg.Name == "" {
		return "", errors.New("mysql configuration requires user and database name")
	}

	mc := mysqldriver.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(hostOrDefault(cfg.Host, "127.0.0.1"), strconv.Itoa(portOrDefault(cfg.Port, defaultMySQLPort)))
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	for key, value := range cfg.Options {
		mc.Params[key] = value
	}

	return mc.FormatDSN(), nil
}

// sqliteDSN resolves the SQLite file, creating its parent directory. An empty path or
// ":memory:" selects a shared in-memory database.
func sqliteDSN(cfg Config) (string, error) {
	if dsn := strings.TrimSpace(cfg.DSN); dsn != "" {
		return dsn, nil
	}

	path := strings.TrimSpace(cfg.Path)
	if path == "" || strings.EqualFold(path, ":memory:") {
		return sqliteMemoryDSN, nil
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create sqlite directory: %w", err)
		}
	}
	return fmt.Sprintf("file:%s?_foreign_keys=1&_journal_mode=WAL&_busy_timeout=5000", filepath.ToSlash(path)), nil
}

// MemoryDSN returns a named in-memory SQLite DSN. Connections opened with the
// same name share one database; distinct names are isolated.
func MemoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", url.PathEscape(name))
}

func hostOrDefault(host, fallback string) string {
	if host = strings.TrimSpace(host); host != "" {
		return host
	}
	return fallback
}

func portOrDefault(port, fallback int) int {
	if port > 0 {
		return port
	}
	return fallback
}
