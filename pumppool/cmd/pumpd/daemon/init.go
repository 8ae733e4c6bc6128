package daemon

import (
	"fmt"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/spf13/cobra"

	"github.com/pumpbtc-labs/pump-staking/pumppool/config"
	"github.com/pumpbtc-labs/pump-staking/util"
)

// CommandInit returns the init command of pumpd that creates the home
// directory with a default config.
func CommandInit(binaryName string) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "init",
		Short:   "Initialize a pumpd home directory.",
		Long:    `Creates a new pumpd home directory with default config`,
		Example: fmt.Sprintf(`%s init --home /home/user/.pumpd --force`, binaryName),
		Args:    cobra.NoArgs,
		RunE:    runInitCmd,
	}
	cmd.Flags().Bool(forceFlag, false, "Override existing configuration")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	homePath, err := getHomePath(cmd)
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool(forceFlag)
	if err != nil {
		return fmt.Errorf("failed to read flag %s: %w", forceFlag, err)
	}

	if util.FileExists(config.CfgFile(homePath)) && !force {
		return fmt.Errorf("home path %s already exists", homePath)
	}

	if err := util.MakeDirectory(homePath); err != nil {
		return err
	}
	if err := util.MakeDirectory(config.LogDir(homePath)); err != nil {
		return err
	}
	if err := util.MakeDirectory(config.DataDir(homePath)); err != nil {
		return err
	}

	defaultConfig := config.DefaultConfigWithHome(homePath)
	fileParser := flags.NewParser(&defaultConfig, flags.Default)

	return flags.NewIniParser(fileParser).WriteFile(config.CfgFile(homePath), flags.IniIncludeComments|flags.IniIncludeDefaults)
}

func getHomePath(cmd *cobra.Command) (string, error) {
	rawHomePath, err := cmd.Flags().GetString(homeFlag)
	if err != nil {
		return "", fmt.Errorf("failed to read flag %s: %w", homeFlag, err)
	}

	homePath, err := filepath.Abs(rawHomePath)
	if err != nil {
		return "", err
	}

	return util.CleanAndExpandPath(homePath), nil
}
