// Package prof wraps runtime profiling for the --cpu-profile, --mem-profile
// and --runtime-trace flags. At most one CPU profile and one runtime trace run
// at a time; starting a second one fails like the runtime does.
package prof

import (
	"errors"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync"
)

// ErrRunning is returned when a profile of the same kind is already active.
var ErrRunning = errors.New("profile already running")

type recorder struct {
	mu    sync.Mutex
	file  *os.File
	start func(*os.File) error
	stop  func()
}

func (r *recorder) begin(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file != nil {
		return ErrRunning
	}
	// #nosec G304 -- путь задаёт пользователь
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.start(f); err != nil {
		_ = f.Close()
		return err
	}
	r.file = f
	return nil
}

func (r *recorder) end() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return
	}
	r.stop()
	_ = r.file.Close()
	r.file = nil
}

var (
	cpu = &recorder{start: func(f *os.File) error { return pprof.StartCPUProfile(f) }, stop: pprof.StopCPUProfile}
	rt  = &recorder{start: func(f *os.File) error { return trace.Start(f) }, stop: trace.Stop}
)

// StartCPU starts sampling into path.
func StartCPU(path string) error { return cpu.begin(path) }

// StopCPU stops the CPU profile; no-op when none is running.
func StopCPU() { cpu.end() }

// StartTrace starts a runtime execution trace into path.
func StartTrace(path string) error { return rt.begin(path) }

// StopTrace stops the runtime trace; no-op when none is running.
func StopTrace() { rt.end() }

// WriteMem forces a GC and writes the heap profile to path.
func WriteMem(path string) (err error) {
	// #nosec G304 -- путь задаёт пользователь
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
