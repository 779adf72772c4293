package main

import (
	_ "embed"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsingjyujing/fenci/cmd"
	"github.com/tsingjyujing/fenci/utils"
)

var logger = utils.Logger

//go:embed version.txt
var version string

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fenci",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "fenci",
		Short:        "fenci segments Chinese text and extracts keywords",
		SilenceUsage: true,
	}
	cmd.AddPersistentFlags(rootCmd)
	commands := []*cobra.Command{
		cmd.NewCutCommand(),
		cmd.NewTagCommand(),
		cmd.NewTokenizeCommand(),
		cmd.NewKeywordsCommand(),
		cmd.NewSuggestCommand(),
		versionCommand,
	}
	for _, command := range commands {
		rootCmd.AddCommand(command)
	}
	if err := rootCmd.Execute(); err != nil {
		logger.WithError(err).Fatal("Failed to execute command")
	}
}
