// Package httpapi exposes the pipeline over HTTP: direct tool execution,
// batch execution and full turn processing. It is a thin boundary: all
// semantics live in the pipeline and the handlers only translate error kinds
// to status codes.
package httpapi
