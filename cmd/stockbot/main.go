package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const version = "v1.0.0"

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	var cfgPath string
	rootCmd := &cobra.Command{
		Use:           "stockbot",
		Short:         "Portfolio advisory notifier",
		Long:          "stockbot evaluates each holder's portfolio against live prices and delivers chat, voice and email reports.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	defaultCfg := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultCfg = v
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultCfg, "Path to the YAML config file")

	rootCmd.AddCommand(newRunCmd(&cfgPath), newServeCmd(&cfgPath), newHistoryCmd(&cfgPath))

	if err := rootCmd.Execute(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}
