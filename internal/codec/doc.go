// Package codec turns arbitrary values into bytes and back for the on-disk
// cache envelope. Codecs register themselves by name at init time; the engine
// resolves the configured one through Resolve and never depends on a concrete
// format.
package codec
