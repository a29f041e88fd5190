// Package config merges command-line flags with an optional YAML
// configuration file, the way the teacher's cmd/bluetooth-service
// builds its runtime configuration from flags alone, extended here to
// also accept a file for unattended deployments.
package config

import (
	"flag"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds everything the CLI needs to open a connection and
// serve metrics.
type Config struct {
	Port        string `yaml:"port"`
	Baud        int    `yaml:"baud"`
	FlowControl string `yaml:"flow_control"`
	IID         int    `yaml:"iid"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Default returns the baseline configuration applied before flags or
// a config file are merged in.
func Default() Config {
	return Config{
		Baud:        115200,
		FlowControl: "none",
		IID:         0,
		LogLevel:    "info",
	}
}

// Load builds a Config from the default values, an optional YAML file
// at configPath (skipped if empty), and flags parsed from args.
// Flags always win over file values when both are set.
func Load(args []string, configPath string) (Config, error) {
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	fs := flag.NewFlagSet("spinel-cli", flag.ContinueOnError)
	port := fs.String("port", cfg.Port, "serial device path")
	baud := fs.Int("baud", cfg.Baud, "serial baud rate")
	flow := fs.String("flow-control", cfg.FlowControl, "flow control mode (none|rtscts)")
	iid := fs.Int("iid", cfg.IID, "Spinel instance id (0-3)")
	metricsAddr := fs.String("metrics-addr", cfg.MetricsAddr, "address to serve Prometheus metrics on (empty disables)")
	logLevel := fs.String("log-level", cfg.LogLevel, "log verbosity")
	// --config is parsed by the caller before Load so configPath can be
	// read first; redeclare it here only so -h documents it alongside
	// the rest of the flags.
	fs.String("config", configPath, "path to an optional YAML config file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.Port = *port
	cfg.Baud = *baud
	cfg.FlowControl = *flow
	cfg.IID = *iid
	cfg.MetricsAddr = *metricsAddr
	cfg.LogLevel = *logLevel

	return cfg, nil
}
