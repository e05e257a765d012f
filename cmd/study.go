package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studybuddy/internal/study"
	"github.com/abhisek/studybuddy/internal/ui"
)

var studyCmd = &cobra.Command{
	Use:   "study <topic...>",
	Short: "Build a study packet for a topic or question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("mode")
		asJSON, _ := cmd.Flags().GetBool("json")
		user, _ := cmd.Flags().GetString("user")
		reveal, _ := cmd.Flags().GetBool("answers")

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

		a, err := buildApp(cmd.Context(), st, log)
		if err != nil {
			return err
		}
		defer a.Close()

		pkt, err := a.pipeline.Produce(cmd.Context(), study.Request{
			Query:  strings.Join(args, " "),
			Mode:   mode,
			UserID: user,
		})
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(pkt)
		}
		fmt.Print(ui.RenderPacket(pkt, ui.PacketOptions{Width: 80, RevealAnswers: reveal}))
		return nil
	},
}

func init() {
	studyCmd.Flags().StringP("mode", "m", "normal", "Packet mode: normal or math")
	studyCmd.Flags().Bool("json", false, "Print the packet as JSON")
	studyCmd.Flags().StringP("user", "u", "", "Record the packet in this user's history")
	studyCmd.Flags().BoolP("answers", "a", false, "Mark the correct quiz answers")
}
