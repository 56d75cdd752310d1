package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sort"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/solnft/toolbox-go/config"
	"github.com/solnft/toolbox-go/logger"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env is what every command runs with.
type env struct {
	cfg config.Config
	log *slog.Logger
	out io.Writer
}

type command struct {
	summary string
	run     func(e *env, args []string) error
}

var commands = map[string]command{
	"fees":       {"quote the fee breakdown of a sale", runFees},
	"royalty":    {"compute the creator royalty of a sale", runRoyalty},
	"distribute": {"simulate paying a creator fee to a creator list", runDistribute},
	"verify":     {"check a sorted-pair merkle proof for a leaf hash", runVerify},
	"asset-id":   {"derive the asset id of a compressed NFT", runAssetID},
	"audit":      {"verify every leaf record in the local leaf store", runAudit},
}

func run(args []string, out io.Writer) error {
	global := flag.NewFlagSet("nfttool", flag.ContinueOnError)
	global.SetInterspersed(false)
	configFlag := global.String("config", "", "config file (or set NFTTOOL_CONFIG env var; default <datadir>/config)")
	envFileFlag := global.String("env-file", ".env", "dotenv file loaded before reading the environment")
	verboseFlag := global.BoolP("verbose", "v", false, "enable verbose (debug) logging")
	global.Usage = func() { usage(global, out) }

	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		usage(global, out)
		return errors.New("missing command")
	}
	name := global.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}

	if err := godotenv.Load(*envFileFlag); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", *envFileFlag, err)
	}

	if envConfig := os.Getenv("NFTTOOL_CONFIG"); envConfig != "" && *configFlag == "" {
		*configFlag = envConfig
	}
	cfg, err := loadConfig(*configFlag)
	if err != nil {
		return err
	}
	if *verboseFlag {
		cfg.LogLevel = "debug"
	}

	log, closeLog, err := logger.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	return cmd.run(&env{cfg: cfg, log: log, out: out}, global.Args()[1:])
}

// loadConfig reads path, or the default location when path is empty. A
// missing default file is not an error.
func loadConfig(path string) (config.Config, error) {
	explicit := path != ""
	if !explicit {
		path = config.ConfigPath(config.DefaultDataDir())
	}

	cfg, err := config.LoadConfig(path)
	if err != nil && (explicit || !errors.Is(err, config.ErrConfigNotFound)) {
		return cfg, err
	}
	if err := config.ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func usage(flags *flag.FlagSet, out io.Writer) {
	fmt.Fprintf(out, "Usage: nfttool [flags] <command> [command flags]\n\nCommands:\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-11s %s\n", name, commands[name].summary)
	}
	fmt.Fprintf(out, "\nFlags:\n%s", flags.FlagUsages())
}
