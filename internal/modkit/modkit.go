// Package modkit assembles API modules: shared deps in, a named prefix with scoped middleware out
package modkit

import "gitevents/internal/modkit/module"

// Module is the contract api.Mount drives; it lives in the module package so ports lookups avoid an import cycle
type Module = module.Module
