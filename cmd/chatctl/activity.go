package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/suPer8Hu/chat-studio/internal/activity"
	"github.com/suPer8Hu/chat-studio/internal/config"
	"github.com/suPer8Hu/chat-studio/internal/db"
)

type activityOpts struct {
	driver string
	dsn    string
	limit  int
	asJSON bool
}

func newActivityCmd() *cobra.Command {
	var opts activityOpts
	cmd := &cobra.Command{
		Use:   "activity <session-id>",
		Short: "List the messages the worker recorded for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dsn == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				opts.dsn = cfg.DBDSN
				if opts.driver == "" && cfg.LogStore == "mysql" {
					opts.driver = "mysql"
				}
			}
			gdb, err := db.Open(opts.driver, opts.dsn)
			if err != nil {
				return err
			}
			rec, err := activity.NewRecorder(gdb)
			if err != nil {
				return err
			}
			rows, err := rec.BySession(cmd.Context(), args[0], opts.limit)
			if err != nil {
				return fmt.Errorf("list activity: %w", err)
			}
			return printActivity(cmd.OutOrStdout(), rows, opts.asJSON)
		},
	}
	cmd.Flags().StringVar(&opts.driver, "driver", "", "sqlite or mysql (guessed from the DSN when empty)")
	cmd.Flags().StringVar(&opts.dsn, "dsn", "", "database DSN (defaults to DB_DSN)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 100, "maximum rows")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print rows as JSON")
	return cmd
}

func printActivity(w io.Writer, rows []activity.Activity, asJSON bool) error {
	if asJSON {
		if rows == nil {
			rows = []activity.Activity{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s  %-9s %-13s %s\n",
			r.SentAt.Format("2006-01-02 15:04:05"), r.Role, r.Kind, r.Preview); err != nil {
			return err
		}
	}
	return nil
}
