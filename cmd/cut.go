package cmd

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/tsingjyujing/fenci/utils"
)

var cutModes = []string{"default", "", "all", "search"}

func NewCutCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "cut [text...]",
		Short: "Segment text into words",
		Long:  "Segment text given as arguments, or read from stdin, in default, all or search mode.",
		RunE: func(command *cobra.Command, args []string) error {
			mode, _ := command.Flags().GetString("mode")
			if !lo.Contains(cutModes, mode) {
				return fmt.Errorf("%w: unknown cut mode %q", utils.ErrInvalidArgument, mode)
			}
			envelope, seg, input, err := setup(command, args)
			if err != nil {
				return err
			}
			if input, err = normalizeInput(envelope, input); err != nil {
				return err
			}
			var words []string
			switch mode {
			case "all":
				words, err = seg.CutAll(input)
			case "search":
				words, err = seg.CutForSearch(input, envelope.HMM.Enabled)
			default:
				words, err = seg.Cut(input, envelope.HMM.Enabled)
			}
			if err != nil {
				return err
			}
			return writeRows(command.OutOrStdout(), words, words)
		},
	}
	command.Flags().String("mode", "default", "Segmentation mode: default, all or search")
	command.Flags().Bool("hmm", true, "Use the HMM for words missing from the dictionary")
	return command
}
