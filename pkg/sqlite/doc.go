// Package sqlite stores offline queues in an embedded SQLite database file
// using the pure-Go modernc.org/sqlite driver, so no cgo toolchain is needed
// on the device.
//
// Open creates the database file if needed, enables WAL journaling and
// applies the embedded goose migrations. Each queue is one row of the
// offline_queues table and Save upserts it.
//
//	storage, err := sqlite.Open(ctx, sqlite.Config{Path: "/var/lib/app/queues.db"})
//	if err != nil {
//	    return err
//	}
//	defer storage.Close()
//
//	s, err := queue.New(ctx, "uploads", storage, executor, monitor)
package sqlite
