package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	docussandra "github.com/docussandra/docussandra-go"
	"github.com/docussandra/docussandra-go/internal/cliconfig"
	"github.com/docussandra/docussandra-go/pkg/logger"
)

// app is the state shared by every command of one invocation.
type app struct {
	cfg     cliconfig.Config
	cfgPath string
	logFile string

	out    io.Writer
	errOut io.Writer

	log     zerolog.Logger
	logData *logger.LogData
	client  *docussandra.Client
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		cfg:    cliconfig.DefaultConfig(),
		out:    out,
		errOut: errOut,
		log:    zerolog.New(errOut).With().Timestamp().Logger(),
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "docussandra",
		Short:         "Command line client for the Docussandra document database",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgPath, "config", "", "path to config file (default: $HOME/.docussandra/config.toml)")
	flags.StringVar(&a.cfg.URL, "url", a.cfg.URL, "base URL of the Docussandra API")
	flags.StringVar(&a.cfg.User, "user", a.cfg.User, "user for basic authentication")
	flags.StringVar(&a.cfg.Password, "password", a.cfg.Password, "password for basic authentication")
	flags.StringVar(&a.cfg.Token, "token", a.cfg.Token, "bearer token; takes precedence over --user")
	flags.DurationVar(&a.cfg.Timeout, "timeout", a.cfg.Timeout, "HTTP timeout per request")
	flags.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level (trace, debug, info, warn, error)")
	flags.StringVar(&a.logFile, "log-file", "", "append logs to this file instead of stderr")

	root.AddCommand(
		newKindCommand(a, databaseCommand),
		newKindCommand(a, tableCommand),
		newKindCommand(a, indexCommand),
		newKindCommand(a, documentCommand),
		newQueryCommand(a),
		newWaitCommand(a),
	)
	return root
}

// setup resolves the configuration and connects the client. Flags win over the
// environment, which wins over the config file.
func (a *app) setup(cmd *cobra.Command) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	cfgFile := a.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	} else if !cliconfig.FileExists(cfgFile) {
		return fmt.Errorf("config file %s does not exist", cfgFile)
	}
	if err := cliconfig.Load(&a.cfg, cfgFile, changed); err != nil {
		return err
	}

	build := logger.New().FromBuffer(a.errOut).WithLevel(a.cfg.LogLevel)
	if a.logFile != "" {
		build = build.FromPath(a.logFile)
	}
	logData, err := build.Make()
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	a.logData = logData
	a.log = logData.Logger
	a.log.Debug().Interface("config", a.cfg.Redacted()).Msg("configuration")

	connCfg, err := a.cfg.ConnectionConfig(logData.Adapter())
	if err != nil {
		return err
	}
	a.client, err = docussandra.New(connCfg)
	return err
}

func (a *app) close() {
	if a.logData != nil {
		_ = a.logData.Close()
	}
}
