package upload

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/meltforce/fittrack/internal/ingest"
	_ "modernc.org/sqlite"
)

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS imported_exports (
	path              TEXT PRIMARY KEY,
	size              INTEGER NOT NULL,
	sha256            TEXT NOT NULL,
	sessions_received INTEGER NOT NULL,
	workouts_inserted INTEGER NOT NULL,
	sessions_skipped  INTEGER NOT NULL,
	sets_inserted     INTEGER NOT NULL,
	imported_at       INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS unmatched_exercises (
	path TEXT NOT NULL,
	name TEXT NOT NULL,
	PRIMARY KEY (path, name)
);`

// Import is the ledger entry for one export file: its fingerprint when it was
// sent and what the server made of it.
type Import struct {
	Path       string
	Size       int64
	SHA256     string
	Result     ingest.Result
	ImportedAt time.Time
}

// Unchanged reports whether a file of the given size and digest is the one
// this entry was recorded for.
func (i *Import) Unchanged(size int64, sha string) bool {
	return i.Size == size && i.SHA256 == sha
}

// Ledger remembers which Alpha Progression exports were imported, so reruns
// only send new or edited files, and which exercises each one left unmatched.
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// OpenLedger opens (or creates) the SQLite ledger at dir/imports.db.
func OpenLedger(dir string) (*Ledger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "imports.db"))
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	if _, err := db.Exec(ledgerSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger tables: %w", err)
	}
	return &Ledger{db: db, now: time.Now}, nil
}

// Lookup returns the entry for relPath, or nil if the export was never imported.
func (l *Ledger) Lookup(relPath string) (*Import, error) {
	imp := Import{Path: relPath}
	var at int64
	err := l.db.QueryRow(`
		SELECT size, sha256, sessions_received, workouts_inserted, sessions_skipped, sets_inserted, imported_at
		FROM imported_exports WHERE path = ?`, relPath,
	).Scan(&imp.Size, &imp.SHA256, &imp.Result.SessionsReceived, &imp.Result.WorkoutsInserted,
		&imp.Result.SessionsSkipped, &imp.Result.SetsInserted, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", relPath, err)
	}
	imp.ImportedAt = time.Unix(at, 0)

	names, err := l.unmatched(`SELECT name FROM unmatched_exercises WHERE path = ? ORDER BY name`, relPath)
	if err != nil {
		return nil, err
	}
	imp.Result.Unmatched = names
	return &imp, nil
}

// Record stores the outcome of importing relPath. An edited export replaces
// its earlier entry together with its unmatched exercises.
func (l *Ledger) Record(relPath string, size int64, sha string, res *ingest.Result) error {
	tx, err := l.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"imported_exports", "unmatched_exercises"} {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE path = ?`, relPath); err != nil {
			return fmt.Errorf("clearing %s: %w", relPath, err)
		}
	}
	_, err = tx.Exec(`
		INSERT INTO imported_exports
			(path, size, sha256, sessions_received, workouts_inserted, sessions_skipped, sets_inserted, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		relPath, size, sha, res.SessionsReceived, res.WorkoutsInserted, res.SessionsSkipped,
		res.SetsInserted, l.now().Unix())
	if err != nil {
		return fmt.Errorf("recording %s: %w", relPath, err)
	}
	for _, name := range res.Unmatched {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO unmatched_exercises (path, name) VALUES (?, ?)`, relPath, name,
		); err != nil {
			return fmt.Errorf("recording unmatched %q: %w", name, err)
		}
	}
	return tx.Commit()
}

// Unmatched returns every exercise name any recorded export failed to match,
// sorted and without duplicates.
func (l *Ledger) Unmatched() ([]string, error) {
	return l.unmatched(`SELECT DISTINCT name FROM unmatched_exercises ORDER BY name`)
}

func (l *Ledger) unmatched(query string, args ...any) ([]string, error) {
	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing unmatched exercises: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Totals sums the recorded results over all imported exports.
func (l *Ledger) Totals() (files int, res ingest.Result, err error) {
	err = l.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(sessions_received), 0), COALESCE(SUM(workouts_inserted), 0),
			COALESCE(SUM(sessions_skipped), 0), COALESCE(SUM(sets_inserted), 0)
		FROM imported_exports`,
	).Scan(&files, &res.SessionsReceived, &res.WorkoutsInserted, &res.SessionsSkipped, &res.SetsInserted)
	if err != nil {
		return 0, ingest.Result{}, fmt.Errorf("summing imports: %w", err)
	}
	return files, res, nil
}

// Close closes the ledger database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// HashExport computes the SHA-256 digest of an export file.
func HashExport(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
