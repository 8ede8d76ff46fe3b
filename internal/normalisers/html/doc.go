// Package html converts HTML documents to structured text. The body is
// rendered as markdown so h1 to h3 become heading markers the chunker
// splits on; deeper headings are kept as plain lines.
package html
