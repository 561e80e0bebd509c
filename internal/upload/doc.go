// Package upload provides the upload handles the stash CLI stages: a local
// file, an in-memory buffer, and a file fetched over HTTP. All of them
// implement resource.Upload.
package upload
