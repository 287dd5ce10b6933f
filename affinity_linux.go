//go:build linux

package dlog

import (
	"golang.org/x/sys/unix"
)

// pinThread restricts the calling OS thread to a single CPU. The returned
// function puts back the mask the thread had before.
func pinThread(cpu int) (func() error, error) {
	var saved unix.CPUSet
	if err := unix.SchedGetaffinity(0, &saved); err != nil {
		return nil, err
	}

	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return nil, err
	}

	return func() error {
		return unix.SchedSetaffinity(0, &saved)
	}, nil
}
