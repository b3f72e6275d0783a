// Package backup writes dated export documents into a backup directory,
// optionally versioned with git.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cleared-dev/tally/internal/gitops"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/storage"
)

const filePrefix = "financeiro-backup-"

// Options controls where and how a backup is written.
type Options struct {
	Dir    string
	Git    bool
	Author gitops.Author
}

// Result describes a written backup. Commit is empty when git is off or
// nothing changed since the last backup.
type Result struct {
	Path   string
	Commit string
}

// Write exports s into opts.Dir as financeiro-backup-<day>.json. A backup
// taken twice on the same day replaces the earlier one.
func Write(s model.State, now time.Time, opts Options) (Result, error) {
	data, err := storage.Export(s, now)
	if err != nil {
		return Result{}, err
	}

	slot := storage.NewFileSlot(opts.Dir)
	key := strings.TrimSuffix(storage.ExportFileName(now), ".json")
	if err := slot.Write(key, data); err != nil {
		return Result{}, fmt.Errorf("writing backup: %w", err)
	}
	res := Result{Path: slot.Path(key)}

	if !opts.Git {
		return res, nil
	}
	if !gitops.IsRepo(opts.Dir) {
		if err := gitops.Init(opts.Dir); err != nil {
			return res, err
		}
	}
	changed, err := gitops.HasChanges(opts.Dir)
	if err != nil || !changed {
		return res, err
	}
	res.Commit, err = gitops.CommitAll(opts.Dir, "backup: "+now.Format(model.DateLayout), opts.Author)
	return res, err
}

// List returns the backup files in dir, oldest first.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading backup dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), filePrefix) && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
