// Package manifest extracts plugin metadata from Go source text by
// static analysis. Plugin code is never executed during registration:
// the parser walks the syntax tree for a small fixed set of top-level
// declarations and rejects manifests that fail consistency checks.
package manifest
