package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go-slim.dev/isoxml"
)

func newRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:          "isoxml",
		Short:        "Write XML documents with ISO 19139 namespace prefixes",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initLogging(v.GetBool("debug"))
			if err := loadConfig(v); err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			slog.Debug("configuration loaded", "file", v.ConfigFileUsed())
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolP("debug", "d", false, "enable debug logging")
	flags.StringP("config", "c", "", "config file with a namespaces list")
	flags.StringSlice("ns", nil, "namespace binding prefix=uri, repeatable; replaces the defaults")
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}
	v.SetEnvPrefix("isoxml")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd.AddCommand(newNamespacesCmd(v))
	rootCmd.AddCommand(newNormalizeCmd(v))

	return rootCmd
}

func loadConfig(v *viper.Viper) error {
	file := v.GetString("config")
	if file == "" {
		return nil
	}
	v.SetConfigFile(file)
	return v.ReadInConfig()
}

// namespacesFrom resolves the binding set: --ns flags first, then the
// config file's namespaces list, then the defaults.
func namespacesFrom(v *viper.Viper) (isoxml.Namespaces, error) {
	var ns isoxml.Namespaces
	switch pairs := v.GetStringSlice("ns"); {
	case len(pairs) > 0:
		ns = make(isoxml.Namespaces, 0, len(pairs))
		for _, pair := range pairs {
			n, err := isoxml.ParseNamespace(pair)
			if err != nil {
				return nil, err
			}
			ns = append(ns, n)
		}
	case v.IsSet("namespaces"):
		if err := v.UnmarshalKey("namespaces", &ns); err != nil {
			return nil, fmt.Errorf("invalid namespaces in %s: %w", v.ConfigFileUsed(), err)
		}
		if ns == nil {
			ns = isoxml.Namespaces{}
		}
	default:
		return isoxml.DefaultNamespaces(), nil
	}
	if err := ns.Validate(); err != nil {
		return nil, err
	}
	return ns, nil
}

func initLogging(debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	logger := isoxml.NewLogger(&isoxml.LoggerOptions{
		Output: os.Stderr,
		Level:  level,
	})
	isoxml.SetLogger(logger)
	slog.SetDefault(logger.Logger)
}
