// Package tracker implements the HTTP client for the error-tracking
// service's release API: creating a release record and attaching build
// output files to it. The client performs single requests only; retry and
// concurrency policy live in the uploader and publish packages.
package tracker
