// Package queue implements a durable, connectivity-gated queue of deferrable
// operations for clients that may only reach the network some of the time.
//
// An Operation names a kind of work (its ID), carries optional parameters
// (Payload) and an optional opaque Attachment. Operations wait in an ordered
// queue until a Scheduler hands them to an Executor, which performs the work
// and reports one of three outcomes:
//
//   - Success: the operation is removed from the queue
//   - Retry(d): the operation stays queued and is re-attempted after d
//   - Failed: the operation stays queued but is excluded from scheduling
//     until Reset is called
//
// # Scheduling
//
// A scan walks the queue from the most recently appended operation to the
// oldest and dispatches every Ready operation it finds, bounded by the
// concurrency budget (WithMaxConcurrentOperations, 0 = unbounded). When a wait
// between operations is configured (WithWaitTimeBetweenOperations) the scan
// marks the first Ready operation Preparing, dispatches it once the wait
// elapses, and stops; the next scan is triggered by an outcome or an Append.
// Newer operations are always preferred, so older ones may starve while new
// work keeps arriving.
//
// Dispatch only happens while the connectivity.Monitor reports a reachable
// network. An attempt made while unreachable is skipped silently and is not
// retried on its own; call StartHandlingOperations again once the network is
// back, or enable WithRescanOnReconnect.
//
// All queue mutations happen on a single scheduling goroutine owned by the
// Scheduler. Executors run on their own goroutines and their completions are
// marshalled back onto it. Retry delays and inter-dispatch waits live in a
// delay queue on the same goroutine and are cancelled when their operation is
// removed.
//
// # Executors
//
// An Executor must call its CompletionFunc exactly once and promptly. The
// Scheduler never times out a dispatched operation: an executor that never
// completes holds a concurrency slot forever. Extra completions are ignored
// and a panicking executor counts as Failed. Router dispatches by operation ID
// to per-kind executors.
//
// # Persistence
//
// The queue is loaded from Storage once by New and written back only when
// Save is called; hosts call it at lifecycle checkpoints such as entering the
// background or shutting down (Run does this on context cancellation). Only
// ID, Payload and Attachment are stored; restored operations start Ready.
// The default JSONCodec stores one JSON object per operation. Entries that
// cannot be decoded are dropped individually, and an attachment that cannot
// be encoded is stored as null.
//
// # Usage
//
//	monitor := connectivity.NewManualMonitor(connectivity.ReachableWide)
//
//	router := queue.NewRouter()
//	router.HandleFunc("upload_photo", func(ctx context.Context, op *queue.Operation, complete queue.CompletionFunc) {
//	    go func() {
//	        if err := upload(ctx, op.Payload()); err != nil {
//	            complete(queue.Retry(30 * time.Second))
//	            return
//	        }
//	        complete(queue.Success())
//	    }()
//	})
//
//	s, err := queue.New(ctx, "uploads", queue.NewMemoryStorage(), router, monitor,
//	    queue.WithMaxConcurrentOperations(2),
//	)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	s.StartHandlingOperations()
//	s.Append("upload_photo", map[string]any{"path": "/tmp/a.jpg"}, nil)
//
//	// later, before suspension
//	_ = s.Save(ctx)
package queue
