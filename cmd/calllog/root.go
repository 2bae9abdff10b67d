package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"callsim/internal/calllog"
	"callsim/internal/calls"
	"callsim/internal/config"
	"callsim/internal/reporting"
	"callsim/pkg/logger"

	"github.com/spf13/cobra"
)

// openStore is swapped in tests.
var openStore = func(ctx context.Context) (*calllog.Store, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	backend, closeBackend, err := calllog.OpenBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	store := calllog.New(backend, calllog.Options{
		Key:          cfg.Storage.Key,
		WriteTimeout: cfg.Storage.WriteTimeout,
		Logger:       log,
	})
	store.Load(ctx)
	cleanup := func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Storage.WriteTimeout)
		defer cancel()
		_ = store.Close(closeCtx)
		_ = closeBackend()
	}
	return store, cleanup, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "calllog",
		Short:         "Inspect and maintain the persisted call log",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newListCmd(), newSummaryCmd(), newClearCmd())
	return root
}

func newListCmd() *cobra.Command {
	var (
		asJSON bool
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List calls, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			entries := store.Entries()
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			return writeTable(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n calls")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	var contactID string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Aggregate counts and durations",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			out, err := reporting.NewService(store).Summary(reporting.SummaryRequest{ContactID: contactID})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "calls:     %d (completed %d, missed %d)\n", out.TotalCalls, out.CompletedCalls, out.MissedCalls)
			fmt.Fprintf(w, "direction: incoming %d, outgoing %d\n", out.IncomingCalls, out.OutgoingCalls)
			fmt.Fprintf(w, "duration:  total %s, average %s, longest %s\n",
				calls.FormatElapsed(out.TotalDurationSeconds),
				calls.FormatElapsed(out.AverageDurationSeconds),
				calls.FormatElapsed(out.LongestCallSeconds))
			return nil
		},
	}
	cmd.Flags().StringVar(&contactID, "contact", "", "only count calls with this contact id")
	return cmd
}

func newClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every call from the log",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear without --yes")
			}
			store, cleanup, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			n := store.Len()
			store.Clear()
			flushCtx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			if err := store.Flush(flushCtx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d calls\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

func writeTable(w io.Writer, entries []calls.LogEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No logs yet")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENDED\tNAME\tPHONE\tMODE\tSTATUS\tDURATION")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%ds\n",
			e.EndedAt.Local().Format(time.DateTime), e.Contact.Name, e.Contact.Phone, e.Mode, e.Status, e.DurationSeconds)
	}
	return tw.Flush()
}
