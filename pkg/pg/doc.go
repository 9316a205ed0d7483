// Package pg stores offline queues in PostgreSQL using the pgx/v5 driver.
//
// The package has three cooperating building blocks:
//
//   - Config, populated from environment variables via
//     github.com/caarlos0/env. It controls pool limits, health-check cadence
//     and connection retries.
//   - Connect, which opens a *pgxpool.Pool and retries with linear backoff
//     until the database becomes available.
//   - Migrate, which runs the embedded goose migrations creating the
//     offline_queues table.
//
// Storage implements queue.Storage on top of any DB (a *pgxpool.Pool in
// production). Each queue is one row keyed by name; Save upserts.
//
// # Usage
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//	    return err
//	}
//
//	storage := pg.NewStorage(pool)
//	s, err := queue.New(ctx, "uploads", storage, executor, monitor)
//
// # Errors
//
// Sentinel errors wrap the driver errors with errors.Join. IsNotFoundError
// detects pgx.ErrNoRows.
package pg
