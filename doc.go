// Package agate is an in-memory tabular data-analysis engine optimized
// for small-to-medium datasets, exact-decimal numerics, and readable
// data-pipeline code. It models a dataset as an immutable Table: an
// ordered set of named, typed columns over an ordered set of rows.
//
// Every transformation method on Table and TableSet returns a new
// value; nothing in this package mutates a Table or TableSet in place.
// Byte-level I/O (CSV/JSON/Excel/Parquet/SQLite parsing, pretty
// printing, charts) lives outside this package, in agateio and
// agatehttp, which build on the Reader/Writer contracts this package
// exposes.
package agate
