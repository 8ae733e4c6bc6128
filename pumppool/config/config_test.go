package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pumpbtc-labs/pump-staking/pumppool/config"
)

var poolCfg = config.DefaultConfig()

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     *config.Config
		wantErr string
	}{
		{
			name:    "valid config",
			cfg:     &poolCfg,
			wantErr: "",
		},
		{
			name:    "nil config",
			cfg:     nil,
			wantErr: "config cannot be nil",
		},
		{
			name: "empty asset token",
			cfg: func() *config.Config {
				cfg := config.DefaultConfig()
				cfg.AssetToken = ""
				return &cfg
			}(),
			wantErr: "asset token cannot be empty",
		},
		{
			name: "same asset and liquidity token",
			cfg: func() *config.Config {
				cfg := config.DefaultConfig()
				cfg.AssetToken = cfg.LiquidityToken
				return &cfg
			}(),
			wantErr: "asset and liquidity tokens must differ",
		},
		{
			name: "asset decimals below the liquidity token",
			cfg: func() *config.Config {
				cfg := config.DefaultConfig()
				cfg.AssetDecimals = 6
				return &cfg
			}(),
			wantErr: "asset decimals 6 cannot be below the liquidity token's 8",
		},
		{
			name: "claim delay of exactly seven days",
			cfg: func() *config.Config {
				cfg := config.DefaultConfig()
				cfg.ClaimDelay = 7 * 24 * time.Hour
				return &cfg
			}(),
			wantErr: "claim delay 168h0m0s out of range (168h, 216h]",
		},
		{
			name: "claim delay past nine days",
			cfg: func() *config.Config {
				cfg := config.DefaultConfig()
				cfg.ClaimDelay = 10 * 24 * time.Hour
				return &cfg
			}(),
			wantErr: "claim delay 240h0m0s out of range (168h, 216h]",
		},
		{
			name: "fee above the cap",
			cfg: func() *config.Config {
				cfg := config.DefaultConfig()
				cfg.InstantUnstakeFee = 10001
				return &cfg
			}(),
			wantErr: "instant unstake fee 10001 exceeds 10000 basis points",
		},
		{
			name: "empty owner",
			cfg: func() *config.Config {
				cfg := config.DefaultConfig()
				cfg.Owner = ""
				return &cfg
			}(),
			wantErr: "owner cannot be empty",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestDefaultConfigPaths(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	cfg := config.DefaultConfigWithHome(home)

	require.Equal(t, config.DataDir(home), cfg.DatabaseConfig.DBPath)
	require.Contains(t, config.LogFile(home), config.LogDir(home))
	require.Contains(t, config.CfgFile(home), home)
}
