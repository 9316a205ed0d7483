// Package mongo stores offline queues in MongoDB using mongo-driver v2.
//
// New connects with retries; Storage implements queue.Storage over a
// collection holding one document per queue:
//
//	{_id: <queue name>, data: <binary blob>, updated_at: <time>}
//
// Save upserts by _id. A missing document loads as (nil, nil).
//
//	storage, client, err := mongo.NewStorageFromConfig(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Disconnect(context.Background())
//
//	s, err := queue.New(ctx, "uploads", storage, executor, monitor)
package mongo
