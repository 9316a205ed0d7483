// Package kafka provides a queue.Executor that forwards operations to a
// Kafka topic with segmentio/kafka-go.
//
// Each operation becomes one message: the key is the operation ID, the value
// is the JSON object {"operation_id": ..., "payload": ...} and the headers
// carry the queue name and the in-memory operation key. A successful write
// completes the operation with Success. Temporary broker errors and network
// failures complete it with Retry after the configured backoff; permanent
// errors such as an oversized message or an invalid topic complete it with
// Failed.
//
//	writer := kafka.NewWriter(cfg)
//	exec, err := kafka.NewExecutor(writer, kafka.WithConfig(cfg), kafka.WithQueueName("uploads"))
//	if err != nil {
//	    return err
//	}
//	defer exec.Close()
//
//	s, err := queue.New(ctx, "uploads", storage, exec, monitor)
package kafka
