package module

import "sync"

// ports holds each mounted module's Ports() under its Name()
// api.Mount fills it; meta readiness reads the webhook entry
var ports sync.Map

// Register stores the port set of a mounted module, replacing any earlier entry
func Register(name string, p any) { ports.Store(name, p) }

// PortsAs returns the port set registered under name when it is a T
func PortsAs[T any](name string) (T, bool) {
	v, _ := ports.Load(name)
	t, ok := v.(T)
	return t, ok
}

// Reset forgets every registered module; api.Mount callers in tests use it between mounts
func Reset() { ports.Clear() }
