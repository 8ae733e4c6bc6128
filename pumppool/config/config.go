package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap/zapcore"

	"github.com/pumpbtc-labs/pump-staking/metrics"
	"github.com/pumpbtc-labs/pump-staking/types"
	"github.com/pumpbtc-labs/pump-staking/util"
)

// Constants for config default values
const (
	defaultLogLevel       = zapcore.InfoLevel
	defaultLogDirname     = "logs"
	defaultLogFilename    = "pumpd.log"
	defaultConfigFileName = "pumpd.conf"
	defaultDataDirname    = "data"

	defaultAssetToken     = "wbtc"
	defaultAssetDecimals  = 8
	defaultLiquidityToken = "pumpbtc"

	defaultOwner    = "owner"
	defaultOperator = "operator"

	// defaultClaimDelay places a request made right after a day boundary
	// comfortably past the seven full days the queue guarantees, while
	// still fitting the ten-slot calendar ring.
	defaultClaimDelay = 8 * 24 * time.Hour

	// defaultInstantUnstakeFee matches the reference deployment's 3%.
	defaultInstantUnstakeFee = 300

	DefaultHTTPPort = 8480
)

var (
	//   C:\Users\<username>\AppData\Local\Pumpd on Windows
	//   ~/.pumpd on Linux
	//   ~/Users/<username>/Library/Application Support/Pumpd on MacOS
	DefaultPumpdDir = btcutil.AppDataDir("pumpd", false)

	DefaultHTTPListener = fmt.Sprintf("127.0.0.1:%d", DefaultHTTPPort)
)

// Config is the main config for the pumpd cli command
type Config struct {
	LogLevel string `long:"loglevel" description:"Logging level for all subsystems" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" choice:"fatal"`

	AssetToken     string `long:"assettoken" description:"Name of the underlying asset token accepted for staking"`
	AssetDecimals  uint8  `long:"assetdecimals" description:"Decimal places of the underlying asset token"`
	LiquidityToken string `long:"liquiditytoken" description:"Name of the liquidity token minted against stakes"`

	Owner    string `long:"owner" description:"Account bootstrapped as the pool owner on first start"`
	Operator string `long:"operator" description:"Account bootstrapped as the custodian operator on first start"`

	ClaimDelay        time.Duration `long:"claimdelay" description:"Time between an unstake request and the moment it becomes claimable"`
	InstantUnstakeFee uint32        `long:"instantunstakefee" description:"Fee charged on instant unstakes, in basis points, applied until the owner changes it"`

	HTTPListener string `long:"httplistener" description:"the listener for the HTTP API, e.g., 127.0.0.1:8480"`

	DatabaseConfig *DBConfig `group:"dbconfig" namespace:"dbconfig"`

	Metrics *metrics.Config `group:"metrics" namespace:"metrics"`
}

func DefaultConfigWithHome(homePath string) Config {
	cfg := Config{
		LogLevel:          defaultLogLevel.String(),
		AssetToken:        defaultAssetToken,
		AssetDecimals:     defaultAssetDecimals,
		LiquidityToken:    defaultLiquidityToken,
		Owner:             defaultOwner,
		Operator:          defaultOperator,
		ClaimDelay:        defaultClaimDelay,
		InstantUnstakeFee: defaultInstantUnstakeFee,
		HTTPListener:      DefaultHTTPListener,
		DatabaseConfig:    DefaultDBConfigWithHomePath(homePath),
		Metrics:           metrics.DefaultPoolMetricsConfig(),
	}

	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	return cfg
}

func DefaultConfig() Config {
	return DefaultConfigWithHome(DefaultPumpdDir)
}

func CfgFile(homePath string) string {
	return filepath.Join(homePath, defaultConfigFileName)
}

func LogDir(homePath string) string {
	return filepath.Join(homePath, defaultLogDirname)
}

func LogFile(homePath string) string {
	return filepath.Join(LogDir(homePath), defaultLogFilename)
}

func DataDir(homePath string) string {
	return filepath.Join(homePath, defaultDataDirname)
}

// LoadConfig initializes and parses the config using a config file.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Load configuration file overwriting defaults with any specified options
func LoadConfig(homePath string) (*Config, error) {
	// The home directory is required to have a configuration file with a
	// specific name under it.
	cfgFile := CfgFile(homePath)
	if !util.FileExists(cfgFile) {
		return nil, fmt.Errorf("specified config file does "+
			"not exist in %s", cfgFile)
	}

	var cfg Config
	fileParser := flags.NewParser(&cfg, flags.Default)
	err := flags.NewIniParser(fileParser).ParseFile(cfgFile)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the given configuration to be sane. This makes sure no
// illegal values or a combination of values are set.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if cfg.AssetToken == "" {
		return fmt.Errorf("asset token cannot be empty")
	}
	if cfg.LiquidityToken == "" {
		return fmt.Errorf("liquidity token cannot be empty")
	}
	if cfg.AssetToken == cfg.LiquidityToken {
		return fmt.Errorf("asset and liquidity tokens must differ")
	}
	if cfg.AssetDecimals < types.LiquidityTokenDecimals {
		return fmt.Errorf("asset decimals %d cannot be below the liquidity token's %d",
			cfg.AssetDecimals, types.LiquidityTokenDecimals)
	}

	if cfg.Owner == "" {
		return fmt.Errorf("owner cannot be empty")
	}

	// The ring has ten day slots, one of which is being written to, and
	// requests must stay claimable for at least a full day. Anything
	// outside (7d, 9d] either matures before seven full days have passed
	// or can be overwritten before it is claimed.
	if cfg.ClaimDelay <= 7*24*time.Hour || cfg.ClaimDelay > 9*24*time.Hour {
		return fmt.Errorf("claim delay %v out of range (168h, 216h]", cfg.ClaimDelay)
	}

	if !types.ValidFeeRate(cfg.InstantUnstakeFee) {
		return fmt.Errorf("instant unstake fee %d exceeds %d basis points",
			cfg.InstantUnstakeFee, types.MaxInstantUnstakeFee)
	}

	if cfg.HTTPListener == "" {
		return fmt.Errorf("http listener cannot be empty")
	}

	if cfg.DatabaseConfig == nil {
		return fmt.Errorf("db configuration cannot be empty")
	}
	if err := cfg.DatabaseConfig.Validate(); err != nil {
		return fmt.Errorf("db configuration validation failed: %w", err)
	}

	if cfg.Metrics == nil {
		return fmt.Errorf("metrics configuration cannot be empty")
	}
	if err := cfg.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics configuration validation failed: %w", err)
	}

	return nil
}
