package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/eventgen/internal/sink"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check connectivity and authentication against the sink",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := sink.New(cfg.Sink.URL, cfg.Sink.Token, cfg.Sink.ProbeTimeout, cfg.Sink.SendTimeout)
		status := client.Probe(cmd.Context())
		if !status.Reachable {
			return fmt.Errorf("sink not reachable: %s", status.Detail)
		}
		fmt.Println(status.Detail)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
}
