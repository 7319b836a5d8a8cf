package repository

import "errors"

var (
	// ErrVideoNotFound is returned when a video record cannot be found.
	ErrVideoNotFound = errors.New("video record not found")

	// ErrVideoNotReady is returned by the read path when a video record
	// exists but is_complete is still false; callers surface this as a
	// 503 rather than exposing the record.
	ErrVideoNotReady = errors.New("video record not yet complete")

	// ErrDuplicateVideo is returned when attempting to insert a record
	// whose uuid already exists.
	ErrDuplicateVideo = errors.New("video record already exists")

	// ErrObjectNotFound is returned when an object cannot be found in
	// object storage.
	ErrObjectNotFound = errors.New("object not found")

	// ErrBucketNotFound is returned when the configured bucket does not
	// exist and could not be created.
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrMalformedMessage is returned when a queue payload fails ingress
	// validation (missing required field, invalid UUID). It is a data
	// error per the error handling design: the message is acknowledged
	// and dropped, never requeued.
	ErrMalformedMessage = errors.New("malformed queue message")

	// ErrTranscodeFailed is returned when the transcoder worker pipeline
	// fails (probe failure, ffmpeg non-zero exit, missing output file).
	ErrTranscodeFailed = errors.New("transcode job failed")
)
