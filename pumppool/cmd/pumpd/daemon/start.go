package daemon

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/pumpbtc-labs/pump-staking/log"
	"github.com/pumpbtc-labs/pump-staking/pumppool/config"
	"github.com/pumpbtc-labs/pump-staking/pumppool/service"
	"github.com/pumpbtc-labs/pump-staking/version"
)

// CommandStart returns the start command of the pumpd daemon.
func CommandStart(binaryName string) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "start",
		Short:   "Start the staking pool daemon.",
		Long:    `Start the staking pool daemon. Note that a config dir must be initialized beforehand`,
		Example: fmt.Sprintf(`%s start --home /home/user/.pumpd`, binaryName),
		Args:    cobra.NoArgs,
		RunE:    runStartCmd,
	}
	cmd.Flags().String(httpListenerFlag, "", "The address that the HTTP API listens to")

	return cmd
}

func runStartCmd(cmd *cobra.Command, _ []string) error {
	homePath, err := getHomePath(cmd)
	if err != nil {
		return fmt.Errorf("failed to get home path: %w", err)
	}

	cfg, err := config.LoadConfig(homePath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	httpListener, err := cmd.Flags().GetString(httpListenerFlag)
	if err != nil {
		return fmt.Errorf("failed to read flag %s: %w", httpListenerFlag, err)
	}
	if httpListener != "" {
		if _, err := net.ResolveTCPAddr("tcp", httpListener); err != nil {
			return fmt.Errorf("invalid HTTP listener address %s, %w", httpListener, err)
		}
		cfg.HTTPListener = httpListener
	}

	logger, err := log.NewRootLoggerWithFile(config.LogFile(homePath), cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize the logger: %w", err)
	}
	logger.Info("starting pumpd: " + version.Full())

	dbBackend, err := cfg.DatabaseConfig.GetDBBackend()
	if err != nil {
		return fmt.Errorf("failed to create db backend: %w", err)
	}
	defer func() {
		if err := dbBackend.Close(); err != nil {
			logger.Error("failed to close the db backend: " + err.Error())
		}
	}()

	poolApp, err := service.NewPoolAppFromConfig(cfg, dbBackend, logger)
	if err != nil {
		return fmt.Errorf("failed to create the pool app: %w", err)
	}

	if err := poolApp.Start(); err != nil {
		return fmt.Errorf("failed to start the pool app: %w", err)
	}

	<-cmd.Context().Done()

	return poolApp.Stop()
}
