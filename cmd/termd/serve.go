package main

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muxterm/termd/server"
)

func runServe(cmd *cobra.Command, _ []string) error {
	server.Configure(flagLogLevel, flagDebug, os.Stderr)

	cfg := server.Config{
		Listen:            flagListen,
		PreferTermFraming: flagTermFraming,
		DefaultWidth:      flagWidth,
		DefaultHeight:     flagHeight,
		DefaultCaporder:   uint8(flagScrollback),
		KeepaliveInterval: flagKeepalive,
		Collaborator:      server.ExecCollaborator{},
	}
	l := server.NewListener(cfg)

	serveErr := make(chan error, 1)
	go func() { serveErr <- l.Serve(flagListen) }()

	// Signal-based shutdown (spec §5): the first SIGTERM/SIGINT/SIGHUP
	// closes the listener and every terminal gracefully; a second
	// delivery within the same process lifetime forces immediate exit
	// rather than waiting on a stuck connection or child process.
	sig := make(chan os.Signal, 2)
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)

	var shuttingDown atomic.Bool
	for {
		select {
		case err := <-serveErr:
			if err != nil && !shuttingDown.Load() {
				server.Log.Error().Err(err).Msg("listen error")
				return exitListen
			}
			return nil
		case s := <-sig:
			if !shuttingDown.CompareAndSwap(false, true) {
				server.Log.Warn().Str("signal", s.String()).Msg("second signal received, forcing exit")
				os.Exit(int(exitServer))
			}
			server.Log.Info().Str("signal", s.String()).Msg("shutting down")
			if err := l.Close(); err != nil {
				server.Log.Warn().Err(err).Msg("error during shutdown")
			}
		}
	}
}
