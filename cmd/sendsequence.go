package cmd

import (
	"github.com/spf13/cobra"

	"horsetab/client"
)

var sendSequenceArg string

var sendSequenceCmd = &cobra.Command{
	Use:   "send-sequence",
	Short: "Dispatch a literal dot/dash sequence as if it were clicked",
	Args:  cobra.NoArgs,
	RunE:  runSendSequence,
}

func init() {
	rootCmd.AddCommand(sendSequenceCmd)
	sendSequenceCmd.Flags().StringVarP(&sendSequenceArg, "sequence", "s", "", "dot/dash sequence to dispatch")
	sendSequenceCmd.MarkFlagRequired("sequence")
}

func runSendSequence(cmd *cobra.Command, args []string) error {
	c := client.New(settings.Port)
	return c.SendSequence(sendSequenceArg)
}
