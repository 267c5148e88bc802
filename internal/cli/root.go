// Package cli contains all the command-line interface logic for the
// application, powered by the cobra library. It defines the root command, the
// run subcommand, and their respective flags.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// rootConfigPath holds the value of the root command's persistent --config
// flag. Defining it at the package level allows all subcommands to access the
// shared value directly.
var rootConfigPath string

// rootCmd represents the base command when called without any subcommands.
// It serves as the entry point and parent for all other commands.
var rootCmd = &cobra.Command{
	Use:   "voicebench",
	Short: "A latency benchmark for competing translation and text-to-speech providers.",
	Long: `A latency benchmark for competing translation and text-to-speech providers.
It fans out bounded-concurrency workloads across a chat-completion pair and a
speech-synthesis pair (one streaming, one REST) and aggregates per-provider
latency percentiles and success rates.`,
}

// Execute is the primary entry point for the CLI application, called by main.go.
//
// It sets up a single, root cancellable context and wires it up to respond to
// OS interruption signals (like Ctrl+C or SIGTERM). This context is then
// passed down to all cobra commands, enabling graceful shutdown across the
// entire application.
func Execute() error {
	// Create a root context that can be canceled.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel() // Ensure cancel is called on exit to clean up context resources.

	// Set up a channel to listen for specific OS signals.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	// Unregister the signal handler on exit. This is good hygiene and
	// prevents resource leaks in more complex application lifecycles.
	defer signal.Stop(signals)

	// Launch a goroutine to cancel the context upon receiving a signal.
	go func() {
		<-signals
		cancel()
	}()

	// Execute the root command with the cancellable context.
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootConfigPath, "config", "c",
		"", "Path to an optional YAML configuration file.")
}
