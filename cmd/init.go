package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/autodiagram/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize autodiagram configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure autodiagram for your project and generates a .autodiagram.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
