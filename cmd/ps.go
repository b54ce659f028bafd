package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"horsetab/client"
)

var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "List processes spawned by matched commands",
	Args:  cobra.NoArgs,
	RunE:  runPs,
}

func init() {
	rootCmd.AddCommand(psCmd)
}

func runPs(cmd *cobra.Command, args []string) error {
	c := client.New(settings.Port)
	text, err := c.Ps()
	if err != nil {
		return err
	}
	fmt.Print(text)
	return nil
}
