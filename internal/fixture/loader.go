// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fixture

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/tfctl/inframock/internal/log"
	"github.com/tfctl/inframock/internal/objectstore"
)

// TableLoader puts the rows of one table fixture.
type TableLoader interface {
	Load(ctx context.Context, r io.Reader, logical string) (int, error)
}

// BlobUploader stores one blob fixture.
type BlobUploader interface {
	Upload(ctx context.Context, path, bucket, key string) (int64, error)
}

// Report tallies what a load did.
type Report struct {
	Experiments int
	Rows        int
	Objects     int
	Bytes       int64
	Skipped     []string
}

func (r *Report) String() string {
	return fmt.Sprintf("%d experiment(s), %d row(s), %d object(s) (%s), %d skipped",
		r.Experiments, r.Rows, r.Objects, humanize.IBytes(uint64(r.Bytes)), len(r.Skipped))
}

// Loader walks a data root and dispatches every fixture it recognises.
type Loader struct {
	Tables      TableLoader
	Blobs       BlobUploader
	Environment string

	// Ignore holds filepath.Match patterns for files that are skipped
	// without a warning.
	Ignore []string
}

// Experiments returns the experiment directory names under root, sorted.
// Plain files at the root are ignored. Symlinks are followed.
func Experiments(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read data root: %w", err)
	}

	var ids []string
	for _, e := range entries {
		mode, ok := resolve(root, e)
		if ok && mode.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

// resolve returns the type of e, following a symlink to its target. A broken
// link is logged and reported as not ok.
func resolve(dir string, e fs.DirEntry) (fs.FileMode, bool) {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.Type(), true
	}
	fi, err := os.Stat(filepath.Join(dir, e.Name()))
	if err != nil {
		log.Warnf("Broken link %s, skipping.", filepath.Join(dir, e.Name()))
		return 0, false
	}
	return fi.Mode().Type(), true
}

// Files returns the regular files of one experiment directory, sorted.
// Symlinks are followed.
func Files(root, experimentID string) ([]string, error) {
	dir := filepath.Join(root, experimentID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read experiment %s: %w", experimentID, err)
	}

	var names []string
	for _, e := range entries {
		mode, ok := resolve(dir, e)
		if ok && mode.IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Load seeds every experiment under root. The first error aborts the load;
// whatever was written before it stays written.
func (l *Loader) Load(ctx context.Context, root string) (*Report, error) {
	ids, err := Experiments(root)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, id := range ids {
		log.Infof("Loading experiment %s", id)
		if err := l.loadExperiment(ctx, root, id, report); err != nil {
			return report, err
		}
		report.Experiments++
	}
	return report, nil
}

func (l *Loader) loadExperiment(ctx context.Context, root, id string, report *Report) error {
	names, err := Files(root, id)
	if err != nil {
		return err
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}

		if l.ignored(name) {
			log.Debugf("ignoring %s", filepath.Join(id, name))
			continue
		}

		path := filepath.Join(root, id, name)
		dest := Classify(name, l.Environment)

		switch dest.Kind {
		case Table:
			n, err := l.loadTable(ctx, path, dest.Table)
			if err != nil {
				return err
			}
			report.Rows += n

		case CountMatrix, CellSets:
			n, err := l.Blobs.Upload(ctx, path, dest.Bucket, objectstore.ObjectKey(id, name))
			if err != nil {
				return err
			}
			report.Objects++
			report.Bytes += n

		default:
			log.Warnf("Unknown file %s, skipping.", filepath.Join(id, name))
			report.Skipped = append(report.Skipped, filepath.Join(id, name))
		}
	}
	return nil
}

func (l *Loader) ignored(name string) bool {
	for _, pattern := range l.Ignore {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func (l *Loader) loadTable(ctx context.Context, path, logical string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := l.Tables.Load(ctx, f, logical)
	if err != nil {
		return n, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return n, nil
}
