// Package file provides the TOML-backed configuration store.
//
// Settings live in ~/.wilson/config.toml. Keys are addressed in dot
// notation ("embedding.provider") and written as nested TOML tables.
package file
