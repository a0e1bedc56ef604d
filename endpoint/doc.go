// Package endpoint loads and supervises the runtime configuration:
// YAML files with environment variable interpolation, derived public
// URL strings, digested static asset lookups through the cache
// manifest, and hot reloading via a filesystem watcher.
//
// All read paths are lock-free; configuration changes swap an immutable
// snapshot atomically so concurrent readers never observe a partially
// applied config.
package endpoint
