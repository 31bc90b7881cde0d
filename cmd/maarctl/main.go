// maarctl
//
// Command-line client for the MAAR AI relay. Each message is sent on its own;
// no conversation history is kept.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"maar-backend/internal/client"
)

var (
	version   = "dev"
	serverURL string
	timeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "maarctl",
	Short: "maarctl - MAAR AI command-line client",
	Long: `maarctl talks to a running MAAR AI relay.

  maarctl ask "what is a goroutine?"   Send one message and print the reply
  maarctl health                       Check that the relay is up`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var askCmd = &cobra.Command{
	Use:   "ask MESSAGE...",
	Short: "Send a message and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		reply, err := client.New(serverURL, timeout).Ask(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply)
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check relay health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		status, err := client.New(serverURL, timeout).Health(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), status)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("MAAR_SERVER", "http://localhost:3000"), "MAAR AI relay URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 90*time.Second, "Request timeout")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
}

func describe(err error) string {
	var srvErr *client.ServerError
	switch {
	case errors.Is(err, client.ErrUnreachable):
		return "Server not reachable"
	case errors.As(err, &srvErr):
		return "Error: " + srvErr.Message
	default:
		return err.Error()
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
