// Package lock serialises execute runs against one model file across processes.
package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/conn-castle/spatialfill/internal/messages"
)

// Suffix is appended to the model path to name its lock file.
const Suffix = ".sfill.lock"

// ErrTimeout is returned when the lock could not be acquired in time.
var ErrTimeout = errors.New("timed out waiting for model lock")

// Lock is a held advisory lock on a model's lock file.
type Lock struct {
	file *os.File
	path string
}

var flockFn = unix.Flock

var (
	lockWaitTimeout = 30 * time.Second
	lockPollEvery   = 100 * time.Millisecond
)

// PathFor returns the lock file used for modelPath.
func PathFor(modelPath string) string {
	return modelPath + Suffix
}

// With holds the lock of modelPath while fn runs.
func With(ctx context.Context, modelPath string, fn func() error) error {
	l, err := Acquire(ctx, modelPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = l.Release()
	}()
	return fn()
}

// Acquire takes an exclusive lock on the lock file of modelPath, creating it when
// needed. It polls until the lock is free, lockWaitTimeout passes, or ctx ends.
func Acquire(ctx context.Context, modelPath string) (*Lock, error) {
	path := PathFor(modelPath)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf(messages.LockOpenFmt, path, err)
	}
	if err := wait(ctx, file); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf(messages.LockAcquireFmt, path, err)
	}
	return &Lock{file: file, path: path}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release unlocks and closes the lock file. The file itself is left in place.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	file := l.file
	l.file = nil
	if err := flockFn(int(file.Fd()), unix.LOCK_UN); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func wait(ctx context.Context, file *os.File) error {
	deadline := time.NewTimer(lockWaitTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(lockPollEvery)
	defer tick.Stop()
	for {
		err := flockFn(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EAGAIN) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("%w: "+messages.LockTimeoutFmt, ErrTimeout, lockWaitTimeout)
		case <-tick.C:
		}
	}
}
