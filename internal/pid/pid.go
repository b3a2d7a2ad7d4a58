// Package pid keeps one pid file per running dashboard so other invocations
// can find and signal them.
package pid

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/loopfetch/internal/errors"
)

const (
	appDir    = "loopfetch"
	pidSuffix = ".pid"
	dirPerm   = 0o700
	pidPerm   = 0o600
)

// Registry is a directory of pid files.
type Registry struct {
	dir string
	pid int
}

// DefaultDir is $XDG_RUNTIME_DIR/loopfetch, or a per-user directory under the
// system temp dir.
func DefaultDir() string {
	if run := os.Getenv("XDG_RUNTIME_DIR"); run != "" {
		return filepath.Join(run, appDir)
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s-%d", appDir, os.Getuid()))
}

func NewRegistry(dir string) *Registry {
	return &Registry{dir: dir, pid: os.Getpid()}
}

func (r *Registry) path(pid int) string {
	return filepath.Join(r.dir, strconv.Itoa(pid)+pidSuffix)
}

// Write registers the current process.
func (r *Registry) Write() error {
	errFactory := errors.New()

	if err := os.MkdirAll(r.dir, dirPerm); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	err := os.WriteFile(r.path(r.pid), []byte(strconv.Itoa(r.pid)), pidPerm)
	if err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove unregisters the current process.
func (r *Registry) Remove() error {
	errFactory := errors.New()

	if err := os.Remove(r.path(r.pid)); err != nil && !os.IsNotExist(err) {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// List returns the live registered pids, excluding the current process.
// Files of processes that no longer run are removed.
func (r *Registry) List() ([]int, error) {
	errFactory := errors.New()

	entries, err := os.ReadDir(r.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrInternal, err)
	}

	var pids []int
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, pidSuffix) {
			continue
		}

		pid, err := strconv.Atoi(strings.TrimSuffix(name, pidSuffix))
		if err != nil || pid <= 0 || pid == r.pid {
			continue
		}

		if !alive(pid) {
			_ = os.Remove(filepath.Join(r.dir, name))
			continue
		}
		pids = append(pids, pid)
	}
	sort.Ints(pids)

	return pids, nil
}

// Signal sends sig to every live registered process and returns how many
// were signalled.
func (r *Registry) Signal(sig syscall.Signal) (int, error) {
	errFactory := errors.New()

	pids, err := r.List()
	if err != nil {
		return 0, err
	}
	if len(pids) == 0 {
		return 0, errFactory.New(errors.ErrResourceNotFound).WithMessage("no running instance")
	}

	var errs []error
	sent := 0
	for _, pid := range pids {
		if err := syscall.Kill(pid, sig); err != nil {
			errs = append(errs, errFactory.Wrap(errors.ErrSignalReload, err).WithData(pid))
			continue
		}
		sent++
	}

	return sent, errors.Join(errs...)
}

func alive(pid int) bool {
	err := syscall.Kill(pid, syscall.Signal(0))
	return err == nil || err == syscall.EPERM
}
