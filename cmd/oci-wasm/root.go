package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/oci-wasm/capability"
	"github.com/wippyai/oci-wasm/errors"
	"github.com/wippyai/oci-wasm/registry"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "OCI_WASM"

type rootConfig struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
}

// Execute runs the root command and exits with a code derived from the
// error kind.
func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := rootConfig{}
	cmd := &cobra.Command{
		Use:           "oci-wasm",
		Short:         "Capability descriptors and OCI distribution for wasm components",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			return setupLogging(viper.GetString("log_level"), viper.GetString("log_format"))
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&cfg.LogFormat, "log-format", "json", "Log format (json|console)")
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_format", cmd.PersistentFlags().Lookup("log-format"))

	cmd.PersistentFlags().Bool("plain-http", false, "Use plain HTTP for the registry")
	cmd.PersistentFlags().String("username", "", "Registry username")
	cmd.PersistentFlags().String("password", "", "Registry password")
	_ = viper.BindPFlag("registry.plain_http", cmd.PersistentFlags().Lookup("plain-http"))
	_ = viper.BindPFlag("registry.username", cmd.PersistentFlags().Lookup("username"))
	_ = viper.BindPFlag("registry.password", cmd.PersistentFlags().Lookup("password"))

	cmd.AddCommand(newInspectCommand())
	cmd.AddCommand(newConfigCommand())
	cmd.AddCommand(newPushCommand())
	cmd.AddCommand(newPullCommand())
	cmd.AddCommand(newBrowseCommand())
	return cmd
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "failed to read config file")
		}
		return nil
	}

	viper.SetConfigName("oci-wasm")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/oci-wasm")
	// a missing default config file is fine
	_ = viper.ReadInConfig()
	return nil
}

func setupLogging(level, format string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("invalid log level %q", level))
	}

	var cfg zap.Config
	switch format {
	case "console":
		cfg = zap.NewDevelopmentConfig()
	case "json", "":
		cfg = zap.NewProductionConfig()
	default:
		return errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("invalid log format %q", format))
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	capability.SetLogger(logger.Named("capability"))
	registry.SetLogger(logger.Named("registry"))
	return nil
}

func exitCodeForError(err error) int {
	switch errors.KindOf(err) {
	case errors.KindInvalidInput:
		return 2
	case errors.KindNotFound:
		return 3
	case errors.KindWrongArtifactShape:
		return 4
	case errors.KindMalformedBinary:
		return 5
	case errors.KindArtifactShapeMismatch:
		return 6
	case errors.KindTransport:
		return 7
	default:
		return 1
	}
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	if v := viper.GetString(key); v != "" {
		return v
	}
	return value
}

func flagChanged(cmd *cobra.Command, name string) bool {
	flag := cmd.Flags().Lookup(name)
	return flag != nil && flag.Changed
}
