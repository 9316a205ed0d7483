// Package checkpoint saves a queue periodically.
//
// Schedulers only persist when asked. Hosts that want a bound on how much
// queued work a crash can lose wrap the scheduler in a Checkpointer, which
// calls Save on a fixed interval using gocron and once more on Stop:
//
//	cp, err := checkpoint.New(scheduler, time.Minute, checkpoint.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	if err := cp.Start(); err != nil {
//	    return err
//	}
//	defer cp.Stop(context.Background())
//
// Runs never overlap; a run still in progress when the next one is due
// pushes the next one back. Save failures are logged and counted, never
// fatal.
package checkpoint
