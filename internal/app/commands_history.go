package app

import (
	"github.com/spf13/cobra"
	"github.com/tdavis6/myqrkit/internal/contract"
	"github.com/tdavis6/myqrkit/internal/history"
)

var openHistory = func(ro *globalOptions) (*history.Store, error) {
	path := historyDBPath(ro)
	if path == "" {
		return nil, nil
	}
	return history.Open(path)
}

func newHistoryCmd(opts *globalOptions) *cobra.Command {
	hist := &cobra.Command{Use: "history", Short: "Inspect previously encoded payloads"}

	var limit, offset int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent payloads, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, ro, err := buildContext(cmd, opts, "history.list")
			if err != nil {
				return err
			}
			store, err := openHistory(ro)
			if err != nil {
				return failWithHint(p, contract.ErrStorage, err, "Check history database permissions", exitGeneric)
			}
			if store == nil {
				return p.Success([]contract.HistoryEntry{}, map[string]any{"count": 0}, nil)
			}
			defer store.Close()
			entries, hasMore, err := store.List(cmd.Context(), limit, offset)
			if err != nil {
				return failWithHint(p, contract.ErrStorage, err, "Use --limit > 0 and --offset >= 0", exitGeneric)
			}
			return p.Success(entries, map[string]any{"count": len(entries), "has_more": hasMore, "offset": offset}, nil)
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "Maximum entries")
	list.Flags().IntVar(&offset, "offset", 0, "Entries to skip")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded payloads",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, ro, err := buildContext(cmd, opts, "history.clear")
			if err != nil {
				return err
			}
			store, err := openHistory(ro)
			if err != nil {
				return failWithHint(p, contract.ErrStorage, err, "Check history database permissions", exitGeneric)
			}
			var n int64
			if store != nil {
				defer store.Close()
				n, err = store.Clear(cmd.Context())
				if err != nil {
					return failWithHint(p, contract.ErrStorage, err, "Check history database permissions", exitGeneric)
				}
			}
			return p.Success(map[string]any{"deleted": n}, map[string]any{"count": n}, nil)
		},
	}

	hist.AddCommand(list, clearCmd)
	return hist
}
