package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"horsetab/client"
	"horsetab/model"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream recognized clicks and matches live",
	Long: `watch subscribes to the daemon's event bus and prints every
dot/dash click as it's recognized, a reset as a line break, and a
match as an exclamation mark.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	c := client.New(settings.Port)
	port, err := c.TCPPort()
	if err != nil {
		return err
	}

	sub, err := client.Watch(port)
	if err != nil {
		return err
	}
	defer sub.Close()

	interactive := term.IsTerminal(int(os.Stdout.Fd()))

	var fmtr watchFormatter
	for {
		ev, err := sub.Next()
		if err != nil {
			if interactive {
				fmt.Println()
			}
			return err
		}
		if out := fmtr.format(ev); out != "" {
			fmt.Print(out)
		}
	}
}

// watchFormatter renders the live event stream to text satisfying two
// properties: it never begins with a newline, and it never emits two
// consecutive newlines, regardless of how many resets the daemon sends
// back to back.
type watchFormatter struct {
	started        bool
	lastWasNewline bool
}

func (f *watchFormatter) format(ev model.Event) string {
	switch ev.Type {
	case model.SequenceReset:
		if !f.started || f.lastWasNewline {
			return ""
		}
		f.lastWasNewline = true
		return "\n"
	case model.SequenceItem:
		f.started = true
		f.lastWasNewline = false
		return string(ev.Char)
	case model.FoundResults:
		f.started = true
		f.lastWasNewline = false
		return "!"
	default:
		return ""
	}
}
