package main

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/muxterm/termd/wire"
)

// exitCode mirrors spec §7's process exit taxonomy: 0 success, 1
// argument parse, 2 connect error, 3 listen error, 4 server error.
type exitCode int

const (
	exitOK exitCode = iota
	exitArgs
	exitConnect
	exitListen
	exitServer
)

func exitCodeFor(err error) int {
	if ec, ok := err.(exitCode); ok {
		return int(ec)
	}
	return int(exitArgs)
}

func (e exitCode) Error() string { return "termd exit " + [...]string{"ok", "args", "connect", "listen", "server"}[e] }

var (
	flagListen       string
	flagTermFraming  bool
	flagWidth        int
	flagHeight       int
	flagScrollback   int
	flagKeepalive    time.Duration
	flagLogLevel     string
	flagDebug        bool
)

var rootCmd = &cobra.Command{
	Use:   "termd",
	Short: "termd is a multiplexing terminal-emulator server",
	Long: `termd hosts many independent pseudo-terminal sessions behind one
process, parses each child's byte stream as xterm/VT, and multiplexes
differential screen updates to any number of remote clients over a
framed binary wire protocol.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.Flags()
	flags.StringVarP(&flagListen, "listen", "l", "127.0.0.1:7681", "address to listen on")
	flags.BoolVar(&flagTermFraming, "term-framing", false, "prefer OSC-512 term framing over raw framing by default")
	flags.IntVar(&flagWidth, "width", 80, "default terminal width for newly created terminals")
	flags.IntVar(&flagHeight, "height", 24, "default terminal height for newly created terminals")
	flags.IntVar(&flagScrollback, "scrollback-order", 16, "default scrollback caporder (1<<order rows)")
	flags.DurationVar(&flagKeepalive, "keepalive", 25*time.Second, "keepalive timer interval, clamped to a 5s minimum")
	flags.StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.BoolVar(&flagDebug, "debug", false, "shorthand for --log-level=debug")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the protocol version this build implements",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Println("termd, wire protocol version", strconv.FormatUint(uint64(wire.ProtocolVersion), 10))
		return nil
	},
}
