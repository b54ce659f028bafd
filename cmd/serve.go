package cmd

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"horsetab/daemon"
	"horsetab/logging"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the horsetab daemon in the foreground",
	Long: `serve starts the dispatcher, the process manager, the TCP event
bus, and the HTTP control surface, and blocks until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP control surface bind address (default: settings host:port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := GetContext()

	coord := daemon.New(settings.ConfigPath)
	coord.Run(ctx)

	cfg, err := coord.LoadOrInit(settings.ConfigPath)
	if err != nil {
		return err
	}
	logging.Default().Infow("configuration installed",
		"commands", len(cfg.Commands), "unreachable", len(cfg.UnreachableSequences))

	stop := make(chan struct{})
	defer close(stop)
	if err := coord.WatchConfigFile(stop); err != nil {
		logging.Default().Warnw("config watch disabled", "error", err)
	}

	port, err := coord.Bus().Listen()
	if err != nil {
		return err
	}
	logging.Default().Infow("event bus listening", "port", port)

	addr := serveAddr
	if addr == "" {
		addr = settings.Host + ":" + strconv.Itoa(settings.Port)
	}
	server := daemon.NewServer(addr, coord)
	server.Start()
	logging.Default().Infow("http control surface listening", "addr", addr)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Stop(shutdownCtx)
}
