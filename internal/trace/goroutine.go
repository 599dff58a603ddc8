package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// registries indexes the per-goroutine registries handed out by Current.
// Only the index is shared; each registry is touched by its own goroutine.
var registries = struct {
	mu sync.Mutex
	m  map[uint64]*Registry
}{m: make(map[uint64]*Registry)}

// Current returns the calling goroutine's registry, creating it with the
// process defaults (see Configure) on first use.
//
// The registry lives until the goroutine calls Release; it is not dropped
// when the goroutine exits. Short-lived goroutines that never call Release
// leak their registry and every event it holds. Servers and other
// long-lived processes should build a Registry and use InstrumentWith.
func Current() *Registry {
	gid := goroutineID()

	registries.mu.Lock()
	defer registries.mu.Unlock()

	if r, ok := registries.m[gid]; ok {
		return r
	}
	d := loadDefaults()
	r := NewRegistry(d.cfg, d.opts...)
	registries.m[gid] = r
	return r
}

// Release drops the calling goroutine's registry and everything it
// recorded. Goroutines that use the package-level API should call it before
// they exit.
func Release() {
	gid := goroutineID()

	registries.mu.Lock()
	delete(registries.m, gid)
	registries.mu.Unlock()
}

// goroutineID extracts the current goroutine ID using runtime.Stack.
// This is a lightweight approach that doesn't require linkname or unsafe.
func goroutineID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	// Stack format: "goroutine 123 [running]:\n..."
	const prefix = "goroutine "
	if !bytes.HasPrefix(buf, []byte(prefix)) {
		return 0
	}

	buf = buf[len(prefix):]
	end := bytes.IndexByte(buf, ' ')
	if end < 0 {
		return 0
	}

	gid, err := strconv.ParseUint(string(buf[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}
