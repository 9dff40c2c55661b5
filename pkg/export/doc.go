// Package export writes retrieved records to disk.
//
// Supported formats are csv, html, md (Markdown), json and xml. Each export
// lands in its own directory:
//
//	<output dir>/<mode>/<action>/<format>/<timestamp>.<format>
//
// Files are written to a temporary name and renamed into place. Tabular
// formats lay a single record out as key/value rows and a list as one row per
// record; nested records are embedded as compact JSON.
package export
