// Package storage keeps rendered report files. The S3 store works against
// AWS S3 and S3-compatible servers such as MinIO; the local store writes
// below a directory through an afero filesystem.
package storage
