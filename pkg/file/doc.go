// Package file provides queue storage backed by files: a local directory or
// an S3-compatible bucket.
//
// Both backends store one blob per queue name and implement queue.Storage.
// Loading a queue that was never saved returns (nil, nil).
//
// # Local filesystem
//
// LocalStorage keeps each queue in <dir>/<name>.json. Writes go to a
// temporary file in the same directory, are synced and then renamed over the
// previous file, so a crash mid-write never leaves a truncated queue behind.
// Queue names are confined to the base directory.
//
//	storage, err := file.NewLocalStorage("/var/lib/app/queues")
//	if err != nil {
//	    return err
//	}
//	s, err := queue.New(ctx, "uploads", storage, executor, monitor)
//
// # S3
//
// S3Storage keeps each queue in the object <prefix><name>.json. Any
// S3-compatible service works; set Endpoint and ForcePathStyle for MinIO and
// similar.
//
//	storage, err := file.NewS3Storage(ctx, file.S3Config{
//	    Bucket: "offline-queues",
//	    Region: "eu-central-1",
//	    Prefix: "devices/42/",
//	})
//
// S3 errors are classified into the sentinel errors of this package
// (ErrBucketNotFound, ErrAccessDenied, ErrServiceUnavailable and so on) so
// callers can decide with errors.Is whether a failure is worth retrying.
//
// # Configuration
//
// LocalConfig and S3Config carry env tags and can be filled with
// config.Load.
package file
