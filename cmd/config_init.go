package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/shanewin/falkor-rentalintel/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config.yaml with every tunable at its default value",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("file")
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(path); err == nil && !force {
			return eris.Errorf("config: %s already exists (use --force to overwrite)", path)
		}

		v := viper.New()
		config.SetDefaults(v)

		var defaults config.Config
		if err := v.Unmarshal(&defaults); err != nil {
			return eris.Wrap(err, "config: unmarshal defaults")
		}

		data, err := yaml.Marshal(&defaults)
		if err != nil {
			return eris.Wrap(err, "config: marshal defaults")
		}

		if err := os.WriteFile(path, data, 0o644); err != nil {
			return eris.Wrapf(err, "config: write %s", path)
		}

		fmt.Printf("Wrote default configuration to %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().String("file", "config.yaml", "destination path")
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
