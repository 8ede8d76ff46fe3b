// Package normalisers converts document formats into structured pages:
// markdown text with heading markers at up to three levels, one entry per
// page. The local parser picks a normaliser by file extension.
package normalisers
