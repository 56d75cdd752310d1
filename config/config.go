// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads the nfttool configuration: a plain "key = value"
// file with "#" comments, overridable through NFTTOOL_* environment
// variables.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/solnft/toolbox-go/fees"
	"github.com/solnft/toolbox-go/ledger"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "NFTTOOL_"

// Config holds the tool configuration.
type Config struct {
	DataDir  string
	LogLevel string
	LogFile  string

	TakerFeeBps    uint16
	BrokerFeePct   uint16
	MakerBrokerPct uint16
	FeeDiscount    bool

	LamportsPerByteYear    uint64
	RentExemptionThreshold float64

	TreeDepth int
}

// DefaultDataDir returns ~/.nfttool, or .nfttool when the home directory
// is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nfttool"
	}
	return filepath.Join(home, ".nfttool")
}

// ConfigPath returns the config file location inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	fc := fees.DefaultConfig()
	rent := ledger.DefaultRent()
	return Config{
		DataDir:                DefaultDataDir(),
		LogLevel:               "info",
		TakerFeeBps:            fc.TotalFeeBps,
		BrokerFeePct:           fc.BrokerFeePct,
		MakerBrokerPct:         fc.MakerBrokerPct,
		FeeDiscount:            fc.Discount,
		LamportsPerByteYear:    rent.LamportsPerByteYear,
		RentExemptionThreshold: rent.ExemptionThreshold,
		TreeDepth:              14,
	}
}

// FeeConfig returns the fee schedule.
func (c Config) FeeConfig() fees.FeeConfig {
	return fees.FeeConfig{
		TotalFeeBps:    c.TakerFeeBps,
		BrokerFeePct:   c.BrokerFeePct,
		MakerBrokerPct: c.MakerBrokerPct,
		Discount:       c.FeeDiscount,
	}
}

// Rent returns the rent parameters.
func (c Config) Rent() ledger.Rent {
	return ledger.Rent{
		LamportsPerByteYear: c.LamportsPerByteYear,
		ExemptionThreshold:  c.RentExemptionThreshold,
	}
}

// LeafStorePath returns the leaf database location.
func (c Config) LeafStorePath() string {
	return filepath.Join(c.DataDir, "leaves.db")
}

// LoadConfig reads the file at path on top of DefaultConfig. Unknown keys
// are ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := parseKeyValue(line)
		if !ok {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNum, line)
		}
		if err := cfg.set(key, value); err != nil {
			return cfg, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with NFTTOOL_<KEY> variables found by lookup,
// e.g. NFTTOOL_TAKERFEEBPS. Pass os.LookupEnv in production.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	for _, key := range keys {
		value, ok := lookup(EnvPrefix + strings.ToUpper(key))
		if !ok {
			continue
		}
		if err := cfg.set(key, value); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, strings.ToUpper(key), err)
		}
	}
	return nil
}

// SaveConfig writes cfg to path, creating parent directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# nfttool configuration\n\n")
	for _, key := range keys {
		fmt.Fprintf(&b, "%s = %s\n", key, cfg.get(key))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// keys lists the recognised keys in file order.
var keys = []string{
	"datadir",
	"loglevel",
	"logfile",
	"takerfeebps",
	"brokerfeepct",
	"makerbrokerpct",
	"feediscount",
	"lamportsperbyteyear",
	"rentexemptionthreshold",
	"treedepth",
}

// parseKeyValue splits "key = value" on the first '='.
func parseKeyValue(line string) (string, string, bool) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

func (c *Config) set(key, value string) error {
	var err error
	switch key {
	case "datadir":
		c.DataDir = value
	case "loglevel":
		c.LogLevel = value
	case "logfile":
		c.LogFile = value
	case "takerfeebps":
		c.TakerFeeBps, err = parseUint16(value)
	case "brokerfeepct":
		c.BrokerFeePct, err = parseUint16(value)
	case "makerbrokerpct":
		c.MakerBrokerPct, err = parseUint16(value)
	case "feediscount":
		c.FeeDiscount, err = strconv.ParseBool(value)
	case "lamportsperbyteyear":
		c.LamportsPerByteYear, err = strconv.ParseUint(value, 10, 64)
	case "rentexemptionthreshold":
		c.RentExemptionThreshold, err = strconv.ParseFloat(value, 64)
	case "treedepth":
		c.TreeDepth, err = strconv.Atoi(value)
	}
	if err != nil {
		return fmt.Errorf("%w: %s = %q: %w", ErrInvalidConfigValue, key, value, err)
	}
	return nil
}

func (c Config) get(key string) string {
	switch key {
	case "datadir":
		return c.DataDir
	case "loglevel":
		return c.LogLevel
	case "logfile":
		return c.LogFile
	case "takerfeebps":
		return strconv.FormatUint(uint64(c.TakerFeeBps), 10)
	case "brokerfeepct":
		return strconv.FormatUint(uint64(c.BrokerFeePct), 10)
	case "makerbrokerpct":
		return strconv.FormatUint(uint64(c.MakerBrokerPct), 10)
	case "feediscount":
		return strconv.FormatBool(c.FeeDiscount)
	case "lamportsperbyteyear":
		return strconv.FormatUint(c.LamportsPerByteYear, 10)
	case "rentexemptionthreshold":
		return strconv.FormatFloat(c.RentExemptionThreshold, 'g', -1, 64)
	case "treedepth":
		return strconv.Itoa(c.TreeDepth)
	}
	return ""
}

func parseUint16(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	return uint16(v), err
}
