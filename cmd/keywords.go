package cmd

import (
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/tsingjyujing/fenci/keywords"
)

func NewKeywordsCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "keywords [text...]",
		Short: "Extract ranked keywords with TF-IDF or TextRank",
		RunE: func(command *cobra.Command, args []string) error {
			envelope, seg, input, err := setup(command, args)
			if err != nil {
				return err
			}
			extractor, err := newExtractor(seg, envelope)
			if err != nil {
				return err
			}
			allowedPOS := envelope.Keywords.AllowedPOS
			if command.Flags().Changed("pos") {
				pos, _ := command.Flags().GetStringSlice("pos")
				allowedPOS = lo.Filter(lo.Map(pos, func(p string, _ int) string {
					return strings.TrimSpace(p)
				}), func(p string, _ int) bool { return p != "" })
			}
			kws, err := extractor.Extract(input, envelope.Keywords.TopK, allowedPOS)
			if err != nil {
				return err
			}
			logger.WithField("method", envelope.Keywords.Method).WithField("keywords", len(kws)).Debug("Extracted keywords")
			return writeRows(command.OutOrStdout(), kws, lo.Map(kws, func(k keywords.Keyword, _ int) string {
				return columns(k.Term, k.Weight)
			}))
		},
	}
	command.Flags().String("method", "tfidf", "Ranking method: tfidf or textrank")
	command.Flags().IntP("top-k", "k", 20, "Number of keywords to return")
	command.Flags().StringSlice("pos", nil, "Allowed POS tags, comma separated (default: all)")
	return command
}
