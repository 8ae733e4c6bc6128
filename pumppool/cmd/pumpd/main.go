package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pumpbtc-labs/pump-staking/pumppool/cmd/pumpd/daemon"
	"github.com/pumpbtc-labs/pump-staking/pumppool/config"
	"github.com/pumpbtc-labs/pump-staking/version"
)

const BinaryName = "pumpd"

// NewRootCmd creates a new root command for pumpd. It is called once in the main function.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           BinaryName,
		Short:         fmt.Sprintf("%s - Custodial staking pool daemon.", BinaryName),
		Long:          fmt.Sprintf(`%s runs the staking pool ledger for a BTC-pegged liquidity token.`, BinaryName),
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().String("home", config.DefaultPumpdDir, "The application home directory")

	return rootCmd
}

func main() {
	cmd := NewRootCmd()

	cmd.AddCommand(
		daemon.CommandInit(BinaryName),
		daemon.CommandStart(BinaryName),
		version.CommandVersion(BinaryName),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your pumpd CLI '%s'", err)
		os.Exit(1) //nolint:gocritic
	}
}
