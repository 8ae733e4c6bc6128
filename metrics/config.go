package metrics

import (
	"fmt"
	"net"
	"time"
)

const (
	defaultMetricsPort           = 2112
	defaultMetricsHost           = "127.0.0.1"
	defaultPoolUpdateInterval    = 1 * time.Second
	minimumMetricsUpdateInterval = 100 * time.Millisecond
)

// Config defines the server's basic configuration
type Config struct {
	// IP of the prometheus server
	Host string `long:"host" description:"IP of the Prometheus server"`
	// Port of the prometheus server
	Port int `long:"port" description:"Port of the Prometheus server"`
	// UpdateInterval is the interval of the pool gauge refresh loop
	UpdateInterval time.Duration `long:"updateinterval" description:"The interval of Prometheus metrics updated"`
}

func (cfg *Config) Validate() error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Port)
	}

	ip := net.ParseIP(cfg.Host)
	if ip == nil {
		return fmt.Errorf("invalid host: %v", cfg.Host)
	}

	if cfg.UpdateInterval < minimumMetricsUpdateInterval {
		return fmt.Errorf("metrics update interval must be at least %v", minimumMetricsUpdateInterval)
	}

	return nil
}

func (cfg *Config) Address() (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	return net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port)), nil
}

func DefaultPoolMetricsConfig() *Config {
	return &Config{
		Port:           defaultMetricsPort,
		Host:           defaultMetricsHost,
		UpdateInterval: defaultPoolUpdateInterval,
	}
}
