package cmd

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/tsingjyujing/fenci/text"
)

func NewTokenizeCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "tokenize [text...]",
		Short: "Print words with their rune offsets",
		RunE: func(command *cobra.Command, args []string) error {
			modeName, _ := command.Flags().GetString("mode")
			mode, err := text.ParseMode(modeName)
			if err != nil {
				return err
			}
			envelope, seg, input, err := setup(command, args)
			if err != nil {
				return err
			}
			if input, err = normalizeInput(envelope, input); err != nil {
				return err
			}
			tokens, err := seg.Tokenize(input, mode, envelope.HMM.Enabled)
			if err != nil {
				return err
			}
			return writeRows(command.OutOrStdout(), tokens, lo.Map(tokens, func(t text.Token, _ int) string {
				return columns(t.Word, t.Start, t.End)
			}))
		},
	}
	command.Flags().String("mode", "default", "Tokenize mode: default or search")
	command.Flags().Bool("hmm", true, "Use the HMM for words missing from the dictionary")
	return command
}
