package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/robertas-rtu/ventd/pkg/client"
)

var (
	logLevel   = "info"
	daemonHost = "127.0.0.1"

	apiClient *client.Client
)

var (
	gBasic    = "Basic:"
	gAdvanced = "Advanced:"

	commandGroups = []string{
		gBasic,
		gAdvanced,
	}
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	if errors.Is(err, client.ErrDaemonUnreachable) {
		fmt.Fprintln(os.Stderr, "\nError: cannot reach the ventd daemon")
		fmt.Fprintln(os.Stderr, "Is the daemon running on the target host? Check --host.")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ventd",
		Short: "ventd controls a damper and fan based room ventilation unit",
		Long: `ventd controls a damper and fan based room ventilation unit.

The daemon runs on a Raspberry Pi, drives the damper servo and the two fan
relays over GPIO, and serves an HTTP control API. The remaining subcommands
talk to that API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := setupLogger(); err != nil {
				return err
			}
			apiClient = client.New(daemonHost)
			return nil
		},
	}

	for _, groupID := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    groupID,
			Title: groupID,
		})
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&logLevel, "log-level", logLevel, "Log level (trace, debug, info, warn, error)")
	pf.StringVar(&daemonHost, "host", daemonHost, "Host (or URL) of the ventd daemon")

	cmd.AddCommand(
		NewDaemonCommand(),
		NewStatusCommand(),
		NewVentCommand(),
		NewServoCommand(),
		NewToggleCommand(),
		NewCalibrateCommand(),
		NewVersionCommand(),
	)

	return cmd
}
