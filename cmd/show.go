package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"horsetab/client"
)

var showRaw bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	Long: `show prints the currently installed commands as the daemon
compiled them. With --raw, it prints the configuration file's text
exactly as written on disk, prelude and comments included.`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "print the raw configuration file content instead of the compiled commands")
}

func runShow(cmd *cobra.Command, args []string) error {
	c := client.New(settings.Port)

	var (
		text string
		err  error
	)
	if showRaw {
		text, err = c.CurrentConfigFileContent()
	} else {
		text, err = c.CurrentInstalledCommands()
	}
	if err != nil {
		return err
	}

	fmt.Println(text)
	return nil
}
