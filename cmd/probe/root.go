package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/hilthontt/voicelink/pkg/signalclient"
	"github.com/spf13/cobra"
)

var (
	flagBaseURL string
	flagTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "voicelink-probe",
	Short: "Exercise a voicelink signaling server from the command line",
	Long: `voicelink-probe opens signaling sessions against a running server. Two
probes, one creating and one joining the same room, run a complete
offer/answer exchange with dummy payloads.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "url", "", "server base URL (default $VOICELINK_BASE_URL or http://localhost:3001)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "stop after this long (0 waits for Ctrl-C)")

	rootCmd.AddCommand(healthCmd, mintCmd, roomCmd, createCmd, joinCmd)
}

func Execute() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}

func newClient() *signalclient.Client {
	if flagBaseURL == "" {
		return signalclient.NewClient()
	}
	return signalclient.NewClient(signalclient.WithBaseURL(flagBaseURL))
}

// commandContext is cancelled on Ctrl-C or when --timeout elapses.
func commandContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	if flagTimeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, flagTimeout)
	return ctx, func() {
		cancel()
		stop()
	}
}
