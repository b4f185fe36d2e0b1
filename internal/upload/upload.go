package upload

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	SessionsReceived int
	WorkoutsInserted int
	SessionsSkipped  int
	SetsInserted     int

	Unmatched []string
}

// Uploader walks a directory of Alpha Progression CSV exports and POSTs the
// new or changed ones to the FitTrack server.
type Uploader struct {
	client *Client
	ledger *Ledger
	dir    string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader. client may be nil in dry-run mode.
func New(client *Client, ledger *Ledger, dir string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		ledger: ledger,
		dir:    dir,
		dryRun: dryRun,
		log:    log,
	}
}

// FindExports returns the .csv files below dir in lexical order.
func FindExports(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	slices.Sort(files)
	return files, nil
}

// Run executes the upload pipeline. Per-file failures are counted and logged;
// only a failed directory walk or a cancelled context aborts the run.
func (u *Uploader) Run(ctx context.Context) (*Stats, error) {
	files, err := FindExports(u.dir)
	if err != nil {
		return &u.stats, err
	}

	unmatched := map[string]bool{}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &u.stats, err
		}
		u.stats.FilesTotal++
		if err := u.processFile(ctx, f, unmatched); err != nil {
			u.log.Warn("upload failed", "file", f, "error", err)
			u.stats.FilesErrored++
		}
	}

	for name := range unmatched {
		u.stats.Unmatched = append(u.stats.Unmatched, name)
	}
	slices.Sort(u.stats.Unmatched)
	return &u.stats, nil
}

func (u *Uploader) processFile(ctx context.Context, path string, unmatched map[string]bool) error {
	relPath, err := filepath.Rel(u.dir, path)
	if err != nil {
		relPath = path
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	sha, err := HashExport(path)
	if err != nil {
		return fmt.Errorf("hashing: %w", err)
	}

	prev, err := u.ledger.Lookup(relPath)
	if err != nil {
		return err
	}
	switch {
	case prev != nil && prev.Unchanged(info.Size(), sha):
		u.log.Debug("export already imported", "file", relPath, "imported_at", prev.ImportedAt)
		u.stats.FilesSkipped++
		return nil
	case prev != nil:
		u.log.Info("export changed since last import", "file", relPath,
			"previous_workouts", prev.Result.WorkoutsInserted)
	}

	if u.dryRun {
		u.log.Info("would upload", "file", relPath, "bytes", info.Size())
		u.stats.FilesUploaded++
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	res, err := u.client.SendAlphaCSV(ctx, data)
	if err != nil {
		return err
	}

	u.stats.FilesUploaded++
	u.stats.SessionsReceived += res.SessionsReceived
	u.stats.WorkoutsInserted += res.WorkoutsInserted
	u.stats.SessionsSkipped += res.SessionsSkipped
	u.stats.SetsInserted += res.SetsInserted
	for _, name := range res.Unmatched {
		unmatched[name] = true
	}
	u.log.Info("uploaded export", "file", relPath, "workouts", res.WorkoutsInserted, "skipped", res.SessionsSkipped)

	if err := u.ledger.Record(relPath, info.Size(), sha, res); err != nil {
		return fmt.Errorf("recording upload: %w", err)
	}
	return nil
}
