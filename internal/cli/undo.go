package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/pomedit/pkg/errors"
	"github.com/matzehuels/pomedit/pkg/journal"
)

// undoCommand creates the undo command reverting a journaled edit.
func (c *CLI) undoCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "undo [id]",
		Short: "Revert an edit made by pomedit",
		Long: `Restore the files rewritten by an edit. Without an id the most recent edit
is reverted.

Files that changed since pomedit wrote them are left alone unless --force is
given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig(".")
			if err != nil {
				return err
			}
			store, err := openJournal(cfg)
			if err != nil {
				return err
			}

			id := ""
			if len(args) > 0 {
				id = args[0]
			}
			e, err := journal.Undo(ctx, store, id, force)
			switch {
			case errors.Is(err, journal.ErrNotFound):
				if id == "" {
					printInfo("Nothing to undo")
					return nil
				}
				return errs.Wrap(errs.ErrCodeNotFound, err, "undo %s", id)
			case errors.Is(err, journal.ErrConflict):
				printWarning("%v", err)
				printNextStep("Overwrite anyway with", "pomedit undo --force "+id)
				return err
			case err != nil:
				return err
			}

			printSuccess("Reverted %s %s", e.Op, StyleHighlight.Render(e.Coordinate))
			for _, f := range e.Files {
				printDetail("%s", f.Path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "restore files even if they changed since the edit")

	return cmd
}

// historyCommand creates the history command listing journaled edits.
func (c *CLI) historyCommand() *cobra.Command {
	var (
		limit int
		prune bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List edits that can be undone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig(".")
			if err != nil {
				return err
			}
			store, err := openJournal(cfg)
			if err != nil {
				return err
			}

			if prune {
				n, err := store.Prune(ctx, cfg.Journal.Keep)
				if err != nil {
					return err
				}
				printSuccess("Pruned %d entries (keeping %d)", n, cfg.Journal.Keep)
				return nil
			}

			entries, err := store.List(ctx)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("No edits recorded")
				printDetail("Journal: %s", store.Path())
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.ID,
					e.CreatedAt.Local().Format(time.DateTime),
					e.Op,
					e.Coordinate,
					fmt.Sprintf("%d", len(e.Files)),
					e.Target,
				})
			}

			t := newTable([]string{"ID", "Time", "Op", "Dependency", "Files", "Target"}, rows, -1, 0)
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most n entries (0 for all)")
	cmd.Flags().BoolVar(&prune, "prune", false, "delete all but the newest journal.keep entries")

	return cmd
}
