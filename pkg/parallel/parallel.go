// Package parallel partitions a list of WFM paths across independent
// workers (spec §5). The core stays synchronous and single-threaded
// per file; this package is the collaborator that fans a batch out.
// Grounded on sixy6e/go-gsf's cmd/main.go convert_gsf_list, the one
// pack repo that already drives a fixed-size alitto/pond worker pool
// over a list of file paths.
package parallel

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/alitto/pond"
	"github.com/sirupsen/logrus"

	"github.com/scopewave/wfmgo/pkg/waveform"
	"github.com/scopewave/wfmgo/pkg/wfmfile"
	"github.com/scopewave/wfmgo/werr"
)

// Result pairs a read waveform with the path it came from.
type Result struct {
	Path     string
	Waveform waveform.Waveform
}

func poolSize(workers int) int {
	if workers <= 0 {
		return runtime.NumCPU()
	}
	return workers
}

// ReadFilesInParallel reads paths across workers workers, each opening
// its own file handle and its own wfmfile.Reader -- no Reader or
// waveform instance is ever shared between workers. Results are
// appended in completion order, not input order. The first worker
// failure cancels the remaining workers (no partial Result is returned
// for a path whose read didn't finish) and is returned as a
// *werr.ChildProcessError.
func ReadFilesInParallel(paths []string, workers int) ([]Result, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := pond.New(poolSize(workers), 0, pond.MinWorkers(poolSize(workers)), pond.Context(ctx))
	defer pool.StopAndWait()

	type outcome struct {
		res Result
		err error
	}
	out := make(chan outcome, len(paths))

	var wg sync.WaitGroup
	for _, p := range paths {
		path := p
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			select {
			case <-ctx.Done():
				return
			default:
			}

			wf, err := readOne(path)
			if err != nil {
				out <- outcome{err: &werr.ChildProcessError{Path: path, Err: err}}
				return
			}
			out <- outcome{res: Result{Path: path, Waveform: wf}}
		})
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make([]Result, 0, len(paths))
	var firstErr error
	for o := range out {
		if o.err != nil {
			if firstErr == nil {
				firstErr = o.err
				logrus.WithError(o.err).Error("parallel read worker failed")
				cancel()
			}
			continue
		}
		results = append(results, o.res)
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

func readOne(path string) (waveform.Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return wfmfile.NewReader().Read(f)
}

// WriteFilesInParallel writes each wfs[i] to paths[i] across workers
// workers, each with its own wfmfile.Writer. The first worker failure
// cancels the remaining workers and is returned as a
// *werr.ChildProcessError; files whose write didn't start are never
// created, and a worker whose own write fails removes the file it had
// created. A write already in progress when cancellation arrives runs to
// completion.
func WriteFilesInParallel(paths []string, wfs []waveform.Waveform, workers int) error {
	if len(paths) != len(wfs) {
		return fmt.Errorf("parallel: %w: paths and waveforms length mismatch", werr.ErrInvariantViolation)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := pond.New(poolSize(workers), 0, pond.MinWorkers(poolSize(workers)), pond.Context(ctx))
	defer pool.StopAndWait()

	out := make(chan error, len(paths))

	var wg sync.WaitGroup
	for i := range paths {
		path, wf := paths[i], wfs[i]
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			select {
			case <-ctx.Done():
				return
			default:
			}

			if err := writeOne(path, wf); err != nil {
				out <- &werr.ChildProcessError{Path: path, Err: err}
				return
			}
			out <- nil
		})
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	var firstErr error
	for err := range out {
		if err != nil && firstErr == nil {
			firstErr = err
			logrus.WithError(err).Error("parallel write worker failed")
			cancel()
		}
	}

	return firstErr
}

func writeOne(path string, wf waveform.Waveform) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := wfmfile.NewWriter().Write(f, wf); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
