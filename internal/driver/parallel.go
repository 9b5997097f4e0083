package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"ppfront/internal/pipeline"
	"ppfront/internal/preproc"
)

// unitSuffixes - расширения, которые ListUnits считает единицами трансляции.
var unitSuffixes = []string{".c", ".i"}

// ListUnits возвращает отсортированный список *.c/*.i файлов в директории.
func ListUnits(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		for _, suf := range unitSuffixes {
			if strings.HasSuffix(path, suf) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ProcessUnits processes independent translation units in parallel. Results
// keep the order of paths. Every unit gets its own FileSet, macro table and
// provenance arena; only the disk cache is shared.
func ProcessUnits(ctx context.Context, paths []string, opts Options, jobs int, sink pipeline.ProgressSink) ([]*Result, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]*Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		pipeline.Emit(sink, pipeline.Event{File: path, Stage: pipeline.StageLoad, Status: pipeline.StatusQueued})
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res, err := processUnit(gctx, path, &opts, sink)
			if err != nil {
				return err
			}
			results[i] = res
			final := pipeline.StatusDone
			if res.Status != preproc.StatusOK {
				final = pipeline.StatusError
			}
			if res.Cached {
				final = pipeline.StatusCached
			}
			pipeline.Emit(sink, pipeline.Event{File: path, Stage: lastStage(&opts), Status: final, Elapsed: res.elapsed(), Final: true})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func lastStage(opts *Options) pipeline.Stage {
	return opts.plan().Last()
}
