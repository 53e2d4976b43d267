package modkit

import "net/http"

// Option overrides part of a module's build
type Option func(*Built)

// WithName renames the module, which also changes its registry key
func WithName(name string) Option {
	return func(b *Built) { b.Name = name }
}

// WithPrefix mounts the module somewhere other than its default prefix
func WithPrefix(prefix string) Option {
	return func(b *Built) { b.Prefix = prefix }
}

// WithMiddlewares appends middleware that runs for every route under the module prefix
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}
