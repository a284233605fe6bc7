//go:build linux

package capture

import "golang.org/x/sys/unix"

// RaiseThreadPriority asks the kernel to schedule the calling OS
// thread with SCHED_FIFO, the way a real-time audio capture loop
// needs to avoid being starved by the rest of the system. Callers
// must have pinned themselves to one OS thread first (runtime.LockOSThread).
func RaiseThreadPriority() error {
	param := &unix.SchedParam{Priority: 10}
	return unix.SchedSetscheduler(0, unix.SCHED_FIFO, param)
}
