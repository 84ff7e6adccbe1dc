package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/eventgen/internal/event"
	"github.com/telhawk-systems/eventgen/internal/sink"
)

var sendCmd = &cobra.Command{
	Use:   "send <type>",
	Short: "Build one event and deliver it to the sink",
	Long:  "Build the payload for the given event type and deliver it directly, bypassing the web UI.",
	Example: `  eventgen send warning
  eventgen send http --show`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().Bool("show", false, "print the delivered payload as JSON")
}

func runSend(cmd *cobra.Command, args []string) error {
	code, ok := event.Parse(args[0])
	if !ok {
		return fmt.Errorf("unknown event type %q (see 'eventgen types')", args[0])
	}

	payload, ok := event.Build(code, time.Now(), nil)
	if !ok {
		return fmt.Errorf("no payload defined for event type %q", args[0])
	}

	client := sink.New(cfg.Sink.URL, cfg.Sink.Token, cfg.Sink.ProbeTimeout, cfg.Sink.SendTimeout)
	if status := client.Probe(cmd.Context()); !status.Reachable {
		return fmt.Errorf("sink not reachable: %s", status.Detail)
	}

	if !client.Send(cmd.Context(), payload) {
		return fmt.Errorf("failed to deliver event %q", args[0])
	}

	fmt.Printf("Event %q sent successfully\n", event.Label(code))

	if show, _ := cmd.Flags().GetBool("show"); show {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			return err
		}
	}
	return nil
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the supported event types",
	Run: func(cmd *cobra.Command, args []string) {
		for _, e := range event.Catalog {
			fmt.Printf("  %-12s %s\n", e.Code, e.Label)
		}
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
