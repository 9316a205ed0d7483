package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/offlineq/pkg/logger"
	"github.com/dmitrymomot/offlineq/pkg/queue"
)

// app carries the state shared by every subcommand.
type app struct {
	settings Settings
	open     Opener
	log      *slog.Logger
	codec    queue.Codec
}

func newRootCmd(settings Settings, open Opener, log *slog.Logger) *cobra.Command {
	a := &app{
		settings: settings,
		open:     open,
		log:      log,
		codec:    queue.JSONCodec{},
	}

	cmd := &cobra.Command{
		Use:           "offlineq",
		Short:         "Inspect and edit persisted offline queues",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&a.settings.Queue, "queue", "q", settings.Queue, "queue name")
	cmd.PersistentFlags().StringVar(&a.settings.Storage, "storage", settings.Storage,
		"storage backend (file, s3, sqlite, redis, postgres, mongo)")

	cmd.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newDropCmd(a),
		newClearCmd(a),
		newPingCmd(a),
		newDrainCmd(a),
	)
	return cmd
}

// withBackend opens the configured backend for the duration of fn.
func (a *app) withBackend(ctx context.Context, fn func(*Backend) error) (err error) {
	b, err := a.open(ctx, a.settings.Storage, a.log)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", a.settings.Storage, err)
	}
	defer func() {
		if cerr := b.close(); cerr != nil {
			a.log.WarnContext(ctx, "failed to close storage", logger.Error(cerr))
		}
	}()
	return fn(b)
}

// load reads and decodes the selected queue. Entries that cannot be decoded
// are reported and skipped.
func (a *app) load(ctx context.Context, b *Backend) ([]queue.Record, error) {
	blob, err := b.Storage.Load(ctx, a.settings.Queue)
	if err != nil {
		return nil, fmt.Errorf("failed to load queue %q: %w", a.settings.Queue, err)
	}
	records, err := a.codec.Decode(blob)
	if err != nil {
		if errors.Is(err, queue.ErrMalformedQueue) {
			return nil, err
		}
		a.log.WarnContext(ctx, "skipped unreadable entries",
			logger.Queue(a.settings.Queue),
			logger.Error(err),
		)
	}
	return records, nil
}

func (a *app) save(ctx context.Context, b *Backend, records []queue.Record) error {
	blob, err := a.codec.Encode(records)
	if blob == nil {
		return errors.Join(queue.ErrEncodeQueue, err)
	}
	if err != nil {
		a.log.WarnContext(ctx, "queue saved with degraded entries",
			logger.Queue(a.settings.Queue),
			logger.Error(err),
		)
	}
	if err := b.Storage.Save(ctx, a.settings.Queue, blob); err != nil {
		return errors.Join(queue.ErrSaveQueue, err)
	}
	return nil
}
