package cmd

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/tsingjyujing/fenci/text"
)

func NewTagCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "tag [text...]",
		Short: "Segment text and tag parts of speech",
		RunE: func(command *cobra.Command, args []string) error {
			envelope, seg, input, err := setup(command, args)
			if err != nil {
				return err
			}
			if input, err = normalizeInput(envelope, input); err != nil {
				return err
			}
			if offsets, _ := command.Flags().GetBool("offsets"); offsets {
				tokens, err := seg.TagTokens(input, envelope.HMM.Enabled)
				if err != nil {
					return err
				}
				return writeRows(command.OutOrStdout(), tokens, lo.Map(tokens, func(t text.Token, _ int) string {
					return columns(t.Word, t.Tag, t.Start, t.End)
				}))
			}
			tags, err := seg.Tag(input, envelope.HMM.Enabled)
			if err != nil {
				return err
			}
			return writeRows(command.OutOrStdout(), tags, lo.Map(tags, func(t text.Tag, _ int) string {
				return columns(t.Word, t.Tag)
			}))
		},
	}
	command.Flags().Bool("hmm", true, "Use the POS HMM for words missing from the dictionary")
	command.Flags().Bool("offsets", false, "Also print rune offsets")
	return command
}
