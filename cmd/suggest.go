package cmd

import (
	"github.com/spf13/cobra"
)

type suggestion struct {
	Word string `json:"word"`
	Freq uint64 `json:"freq"`
}

func NewSuggestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <word>...",
		Short: "Suggest the frequency that keeps each word in one piece",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			_, envelope, err := readConfig(command)
			if err != nil {
				return err
			}
			seg, err := newSegmenter(envelope)
			if err != nil {
				return err
			}
			suggestions := make([]suggestion, 0, len(args))
			rows := make([]string, 0, len(args))
			for _, word := range args {
				freq, err := seg.SuggestFreq(word)
				if err != nil {
					return err
				}
				suggestions = append(suggestions, suggestion{Word: word, Freq: freq})
				rows = append(rows, columns(word, freq))
			}
			return writeRows(command.OutOrStdout(), suggestions, rows)
		},
	}
}
