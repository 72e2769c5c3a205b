// Package session keeps the parts server login across runs by storing HTTP
// cookies in a small SQLite database.
package session

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS cookies (
	host     TEXT NOT NULL,
	path     TEXT NOT NULL,
	name     TEXT NOT NULL,
	value    TEXT NOT NULL,
	expires  INTEGER,
	secure   INTEGER NOT NULL DEFAULT 0,
	http_only INTEGER NOT NULL DEFAULT 0,
	host_only INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (host, path, name)
);
`

// Databases written before host_only existed get the column added. Their
// rows keep domain matching, which is how they were sent before.
const addHostOnly = `ALTER TABLE cookies ADD COLUMN host_only INTEGER NOT NULL DEFAULT 0`

// Jar is an http.CookieJar backed by SQLite. Cookies without an expiry are
// kept until the server clears them, so a login outlives the process.
type Jar struct {
	mu  sync.Mutex
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the cookie database at path.
func Open(path string) (*Jar, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=500"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	jar, err := New(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return jar, nil
}

// New wraps an open database, creating the cookie table if it is missing.
func New(conn *sql.DB) (*Jar, error) {
	if _, err := conn.Exec(schema); err != nil {
		return nil, fmt.Errorf("create session schema: %w", err)
	}
	exists, err := columnExists(conn, "cookies", "host_only")
	if err != nil {
		return nil, fmt.Errorf("inspect session schema: %w", err)
	}
	if !exists {
		if _, err := conn.Exec(addHostOnly); err != nil {
			return nil, fmt.Errorf("migrate session schema: %w", err)
		}
	}
	return &Jar{db: conn, now: time.Now}, nil
}

// columnExists checks whether a column exists on a table
func columnExists(conn *sql.DB, table, column string) (bool, error) {
	rows, err := conn.Query(fmt.Sprintf("PRAGMA table_info(%s);", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notnull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// Close closes the database.
func (j *Jar) Close() error {
	return j.db.Close()
}

// SetCookies implements http.CookieJar. Storage errors are logged; the
// interface has no way to return them.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	for _, c := range cookies {
		host, hostOnly, ok := cookieHost(u, c)
		if !ok {
			slog.Debug("session: reject cookie domain", "name", c.Name, "domain", c.Domain, "host", u.Hostname())
			continue
		}
		path := c.Path
		if path == "" || !strings.HasPrefix(path, "/") {
			path = "/"
		}

		if c.MaxAge < 0 || (!c.Expires.IsZero() && !c.Expires.After(now)) {
			if _, err := j.db.Exec(`DELETE FROM cookies WHERE host = ? AND path = ? AND name = ?`, host, path, c.Name); err != nil {
				slog.Warn("session: delete cookie", "name", c.Name, "err", err)
			}
			continue
		}

		var expires sql.NullInt64
		switch {
		case c.MaxAge > 0:
			expires = sql.NullInt64{Int64: now.Add(time.Duration(c.MaxAge) * time.Second).Unix(), Valid: true}
		case !c.Expires.IsZero():
			expires = sql.NullInt64{Int64: c.Expires.Unix(), Valid: true}
		}

		_, err := j.db.Exec(`INSERT INTO cookies (host, path, name, value, expires, secure, http_only, host_only)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (host, path, name) DO UPDATE SET
				value = excluded.value, expires = excluded.expires,
				secure = excluded.secure, http_only = excluded.http_only,
				host_only = excluded.host_only`,
			host, path, c.Name, c.Value, expires, c.Secure, c.HttpOnly, hostOnly)
		if err != nil {
			slog.Warn("session: store cookie", "name", c.Name, "err", err)
		}
	}
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	rows, err := j.db.Query(`SELECT host, path, name, value, expires, secure, host_only FROM cookies`)
	if err != nil {
		slog.Warn("session: load cookies", "err", err)
		return nil
	}
	defer rows.Close()

	host := strings.ToLower(u.Hostname())
	reqPath := u.EscapedPath()
	if reqPath == "" {
		reqPath = "/"
	}
	now := j.now().Unix()

	var out []*http.Cookie
	for rows.Next() {
		var (
			cHost, cPath, name, value string
			expires                   sql.NullInt64
			secure, hostOnly          bool
		)
		if err := rows.Scan(&cHost, &cPath, &name, &value, &expires, &secure, &hostOnly); err != nil {
			slog.Warn("session: scan cookie", "err", err)
			continue
		}
		if expires.Valid && expires.Int64 <= now {
			continue
		}
		if secure && u.Scheme != "https" {
			continue
		}
		if hostOnly && host != cHost {
			continue
		}
		if !hostMatch(host, cHost) || !pathMatch(reqPath, cPath) {
			continue
		}
		out = append(out, &http.Cookie{Name: name, Value: value})
	}
	if err := rows.Err(); err != nil {
		slog.Warn("session: iterate cookies", "err", err)
	}
	return out
}

// Clear forgets every stored cookie, logging the user out.
func (j *Jar) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.db.Exec(`DELETE FROM cookies`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Prune deletes expired cookies and returns how many were removed.
func (j *Jar) Prune() (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	res, err := j.db.Exec(`DELETE FROM cookies WHERE expires IS NOT NULL AND expires <= ?`, j.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("prune session: %w", err)
	}
	return res.RowsAffected()
}

// cookieHost returns the host a cookie is stored under and whether it is
// host-only. A Domain attribute must domain-match the request host and name
// more than a single label; anything else is refused.
func cookieHost(u *url.URL, c *http.Cookie) (host string, hostOnly, ok bool) {
	reqHost := strings.ToLower(u.Hostname())
	if c.Domain == "" {
		return reqHost, true, true
	}
	domain := strings.ToLower(strings.TrimPrefix(c.Domain, "."))
	if domain == reqHost {
		return domain, false, true
	}
	if net.ParseIP(reqHost) != nil || !strings.Contains(domain, ".") {
		return "", false, false
	}
	if !strings.HasSuffix(reqHost, "."+domain) {
		return "", false, false
	}
	return domain, false, true
}

func hostMatch(reqHost, cookieHost string) bool {
	return reqHost == cookieHost || strings.HasSuffix(reqHost, "."+cookieHost)
}

func pathMatch(reqPath, cookiePath string) bool {
	if reqPath == cookiePath || cookiePath == "/" {
		return true
	}
	if !strings.HasPrefix(reqPath, cookiePath) {
		return false
	}
	return strings.HasSuffix(cookiePath, "/") || reqPath[len(cookiePath)] == '/'
}
