// Package httpapi serves clause ingestion and retrieval over HTTP.
//
// Routes:
//
//	GET  /                   liveness greeting
//	POST /upload/            multipart "file" field; ingests the document
//	GET  /clauses/{filename} candidate clauses of every type
//	GET  /files              ingested documents
//	GET  /metrics            Prometheus metrics
//
// Cross-origin requests are allowed from the configured origins.
package httpapi
