package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/offlineq/pkg/logger"
	"github.com/dmitrymomot/offlineq/pkg/queue"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNoHealthcheck   = errors.New("storage backend has no healthcheck")
)

func newListCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List persisted operations",
		Long: `List the operations stored for a queue, oldest first.

Indexes printed here are the ones accepted by "drop".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			return a.withBackend(ctx, func(b *Backend) error {
				records, err := a.load(ctx, b)
				if err != nil {
					return err
				}

				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					if records == nil {
						records = []queue.Record{}
					}
					return enc.Encode(records)
				}

				if len(records) == 0 {
					fmt.Fprintf(out, "Queue %q is empty.\n", a.settings.Queue)
					return nil
				}

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "INDEX\tOPERATION\tPAYLOAD\tATTACHMENT")
				for i, rec := range records {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, rec.ID, compact(rec.Payload), compact(rec.Attachment))
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var payload string

	cmd := &cobra.Command{
		Use:   "add <operation-id>",
		Short: "Append an operation to a persisted queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rec := queue.Record{ID: args[0]}
			if payload != "" {
				if err := json.Unmarshal([]byte(payload), &rec.Payload); err != nil {
					return fmt.Errorf("invalid payload: %w", err)
				}
			}

			return a.withBackend(ctx, func(b *Backend) error {
				records, err := a.load(ctx, b)
				if err != nil {
					return err
				}
				if err := a.save(ctx, b, append(records, rec)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s at index %d.\n", rec.ID, len(records))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&payload, "payload", "", "payload as a JSON object")
	return cmd
}

func newDropCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "drop <index>",
		Short: "Remove one operation from a persisted queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			idx, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[0], err)
			}

			return a.withBackend(ctx, func(b *Backend) error {
				records, err := a.load(ctx, b)
				if err != nil {
					return err
				}
				if idx < 0 || idx >= len(records) {
					return fmt.Errorf("%w: %d (queue has %d)", ErrIndexOutOfRange, idx, len(records))
				}
				dropped := records[idx]
				records = append(records[:idx], records[idx+1:]...)
				if err := a.save(ctx, b, records); err != nil {
					return err
				}
				a.log.InfoContext(ctx, "operation dropped",
					logger.Queue(a.settings.Queue),
					logger.OperationID(dropped.ID),
				)
				fmt.Fprintf(cmd.OutOrStdout(), "Dropped %s from index %d.\n", dropped.ID, idx)
				return nil
			})
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every operation from a persisted queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withBackend(ctx, func(b *Backend) error {
				if err := a.save(ctx, b, nil); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared queue %q.\n", a.settings.Queue)
				return nil
			})
		},
	}
}

func newPingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the storage backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withBackend(ctx, func(b *Backend) error {
				if b.Healthcheck == nil {
					return fmt.Errorf("%w: %s", ErrNoHealthcheck, a.settings.Storage)
				}
				if err := b.Healthcheck(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s storage is healthy.\n", a.settings.Storage)
				return nil
			})
		},
	}
}

func compact(v any) string {
	if v == nil {
		return "-"
	}
	if m, ok := v.(map[string]any); ok && len(m) == 0 {
		return "-"
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}
