package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/studybuddy/internal/history"
	"github.com/abhisek/studybuddy/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or clear a user's study history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the newest history entries for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		return withHistory(cmd, func(h *history.Service) error {
			items, err := h.List(cmd.Context(), user, limit)
			if err != nil {
				return err
			}
			if asJSON {
				if items == nil {
					items = []history.Item{}
				}
				return json.NewEncoder(os.Stdout).Encode(map[string]any{"history": items})
			}
			fmt.Print(ui.RenderHistory(items))
			return nil
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every history entry for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")

		return withHistory(cmd, func(h *history.Service) error {
			n, err := h.Clear(cmd.Context(), user)
			if err != nil {
				return err
			}
			fmt.Printf("History cleared successfully (%d deleted).\n", n)
			return nil
		})
	},
}

func withHistory(cmd *cobra.Command, fn func(h *history.Service) error) error {
	log, err := newLogger("warn")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	h := history.NewService(st.HistoryRepo(), history.Options{}, log)
	defer h.Close()
	return fn(h)
}

func init() {
	for _, c := range []*cobra.Command{historyListCmd, historyClearCmd} {
		c.Flags().StringP("user", "u", "", "User id (required)")
		_ = c.MarkFlagRequired("user")
	}
	historyListCmd.Flags().IntP("limit", "n", history.MaxListLimit, "Number of entries to show (max 50)")
	historyListCmd.Flags().Bool("json", false, "Print entries as JSON")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
}
