package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "graphwatch",
	Short: "graphwatch - alert notification delivery for monitored checks",
	Long: `graphwatch delivers alert state changes for monitored checks to
subscribed channels. Slack incoming webhooks are the supported outbound
channel; delivery is best-effort and a failing channel never blocks others.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(notifyCmd)
}
