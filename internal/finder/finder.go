// Package finder walks root directories looking for project manifest files.
//
// Each root is walked by its own task and large subtrees fan out further
// through a bounded errgroup. Directories named in the ignore policy are
// pruned before they are read. Unreadable directories and missing roots are
// skipped; a scan never fails as a whole.
package finder

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kingrea/dex/internal/logging"
)

// ManifestName is the marker file that turns a directory into a project.
const ManifestName = ".dexproject"

// DefaultIgnoreNames lists build, output and dependency-cache directories that
// are never descended into.
var DefaultIgnoreNames = []string{"node_modules", "build", "target", "dist", "out"}

// Options configures a scan. Zero values fall back to the defaults above.
type Options struct {
	IgnoreNames  []string
	ManifestName string
	// Concurrency caps the number of directories read at once.
	Concurrency int
	Logger      *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.IgnoreNames == nil {
		o.IgnoreNames = DefaultIgnoreNames
	}
	if o.ManifestName == "" {
		o.ManifestName = ManifestName
	}
	if o.Concurrency <= 0 {
		o.Concurrency = runtime.GOMAXPROCS(0) * 4
	}
	o.Logger = logging.OrNop(o.Logger)
	return o
}

type walker struct {
	ctx      context.Context
	group    *errgroup.Group
	ignore   map[string]struct{}
	manifest string
	logger   *zap.Logger

	mu    sync.Mutex
	found map[string]struct{}
}

// Scan returns the manifest paths found under roots, de-duplicated and
// sorted. Cancelling ctx stops the walk from entering new directories.
func Scan(ctx context.Context, roots []string, opts Options) []string {
	opts = opts.withDefaults()
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(opts.Concurrency)

	w := &walker{
		ctx:      gctx,
		group:    group,
		ignore:   make(map[string]struct{}, len(opts.IgnoreNames)),
		manifest: opts.ManifestName,
		logger:   opts.Logger,
		found:    make(map[string]struct{}),
	}
	for _, name := range opts.IgnoreNames {
		w.ignore[name] = struct{}{}
	}

	for _, root := range roots {
		if root == "" {
			continue
		}
		root := filepath.Clean(root)
		w.logger.Debug("searching", zap.String("root", root))
		group.Go(func() error {
			w.walkDir(root)
			return nil
		})
	}
	_ = group.Wait()

	paths := make([]string, 0, len(w.found))
	for path := range w.found {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func (w *walker) walkDir(dir string) {
	if w.ctx.Err() != nil {
		return
	}
	// ReadDir returns the entries it managed to read alongside the error.
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.logger.Debug("skipping unreadable directory", zap.String("dir", dir), zap.Error(err))
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if _, skip := w.ignore[name]; skip {
				continue
			}
			sub := filepath.Join(dir, name)
			if !w.group.TryGo(func() error {
				w.walkDir(sub)
				return nil
			}) {
				w.walkDir(sub)
			}
			continue
		}
		if name == w.manifest {
			w.record(filepath.Join(dir, name))
		}
	}
}

func (w *walker) record(path string) {
	w.mu.Lock()
	w.found[path] = struct{}{}
	w.mu.Unlock()
}
