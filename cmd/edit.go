package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"horsetab/client"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the configuration in $EDITOR and reinstall it",
	Long: `edit fetches the daemon's current configuration file content,
opens it in $EDITOR (falling back to vi), and PUTs the edited text back
for reinstallation once the editor exits.`,
	Args: cobra.NoArgs,
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	c := client.New(settings.Port)

	current, err := c.CurrentConfigFileContent()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp("", "horsetab-edit-*.conf")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(current); err != nil {
		tmp.Close()
		return err
	}
	tmp.Close()

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	editCmd := exec.Command(editor, tmp.Name())
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr
	if err := editCmd.Run(); err != nil {
		return fmt.Errorf("run editor: %w", err)
	}

	edited, err := os.ReadFile(tmp.Name())
	if err != nil {
		return err
	}

	reply, err := c.Reinstall(string(edited))
	if err != nil {
		return err
	}

	fmt.Println(reply)
	return nil
}
