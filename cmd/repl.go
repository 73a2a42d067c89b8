package cmd

import (
	"github.com/brownplt/BlockLang-sub000/repl"
	"github.com/spf13/cobra"
)

var replPrompt string

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, logger, err := newInterpreter(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()
		return repl.RunRepl(in, replPrompt, logger)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().StringVar(&replPrompt, "prompt", "ray> ", "The input prompt")
}
