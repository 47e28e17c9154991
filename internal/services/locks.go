package services

import "sync"

// deviceLocks serializes read-modify-write cycles per device.
type deviceLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newDeviceLocks() *deviceLocks {
	return &deviceLocks{locks: make(map[string]*sync.Mutex)}
}

func (d *deviceLocks) lock(device string) func() {
	d.mu.Lock()
	l, ok := d.locks[device]
	if !ok {
		l = &sync.Mutex{}
		d.locks[device] = l
	}
	d.mu.Unlock()

	l.Lock()
	return l.Unlock
}
