package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tsingjyujing/fenci/config"
	"github.com/tsingjyujing/fenci/dictionary"
	"github.com/tsingjyujing/fenci/hmm"
	"github.com/tsingjyujing/fenci/keywords"
	"github.com/tsingjyujing/fenci/text"
	"github.com/tsingjyujing/fenci/utils"
)

var logger = utils.Logger

const (
	rowSeparator = " "
	colSeparator = ","
)

var (
	configFile string
	userDicts  []string
	verbose    bool
	jsonOutput bool
)

// AddPersistentFlags registers the flags shared by every subcommand.
func AddPersistentFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Path to config file")
	flags.StringArrayVar(&userDicts, "user-dict", nil, "User dictionary merged over the default one (repeatable)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	flags.BoolVar(&jsonOutput, "json", false, "Print results as JSON")
}

// flagKeys maps command flags onto configuration keys.
var flagKeys = map[string]string{
	"hmm":    "hmm.enabled",
	"top-k":  "keywords.top_k",
	"method": "keywords.method",
}

func readConfig(command *cobra.Command) (*viper.Viper, *config.Envelope, error) {
	viperInstance := viper.New()
	if configFile != "" {
		viperInstance.SetConfigFile(configFile)
	} else {
		viperInstance.SetConfigName("config")
		viperInstance.SetConfigType("yaml")
		viperInstance.AddConfigPath("/etc/fenci/")
		viperInstance.AddConfigPath("$HOME/.fenci")
		viperInstance.AddConfigPath("./config")
	}
	viperInstance.SetEnvPrefix("FENCI")
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	defaults := config.Default()
	viperInstance.SetDefault("log_level", defaults.LogLevel)
	viperInstance.SetDefault("hmm.enabled", defaults.HMM.Enabled)
	viperInstance.SetDefault("keywords.top_k", defaults.Keywords.TopK)
	viperInstance.SetDefault("keywords.method", defaults.Keywords.Method)
	for name, key := range flagKeys {
		if flag := command.Flags().Lookup(name); flag != nil {
			if err := viperInstance.BindPFlag(key, flag); err != nil {
				return nil, nil, err
			}
		}
	}

	envelope := defaults
	if err := viperInstance.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("read config: %w", err)
		}
		logger.Debug("No config file found, using defaults")
	} else {
		logger.Debugf("Using config file: %s", viperInstance.ConfigFileUsed())
		if envelope, err = config.LoadConfigFromFile(viperInstance.ConfigFileUsed()); err != nil {
			return nil, nil, err
		}
	}

	envelope.LogLevel = viperInstance.GetString("log_level")
	envelope.HMM.Enabled = viperInstance.GetBool("hmm.enabled")
	envelope.Keywords.TopK = viperInstance.GetInt("keywords.top_k")
	envelope.Keywords.Method = viperInstance.GetString("keywords.method")

	if err := utils.SetLevel(envelope.LogLevel); err != nil {
		return nil, nil, fmt.Errorf("log_level: %w", err)
	}
	if verbose {
		utils.SetVerbose()
	}
	return viperInstance, envelope, nil
}

func loadFile[T any](path string, load func(io.Reader) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, err
	}
	defer f.Close()
	return load(f)
}

func newSegmenter(envelope *config.Envelope) (*text.Segmenter, error) {
	dict, err := dictionary.NewDefault()
	if err != nil {
		return nil, err
	}
	model, err := hmm.DefaultModel()
	if envelope.HMM.Model != "" {
		model, err = loadFile(envelope.HMM.Model, hmm.LoadModel)
	}
	if err != nil {
		return nil, fmt.Errorf("segmentation model: %w", err)
	}
	posModel, err := hmm.DefaultPOSModel()
	if envelope.HMM.POSModel != "" {
		posModel, err = loadFile(envelope.HMM.POSModel, hmm.LoadPOSModel)
	}
	if err != nil {
		return nil, fmt.Errorf("pos model: %w", err)
	}

	seg := text.New(dict, model, posModel)
	for _, path := range append(append([]string{}, envelope.Dictionary.UserDicts...), userDicts...) {
		_, err := loadFile(path, func(r io.Reader) (struct{}, error) {
			return struct{}{}, seg.LoadDictionary(r)
		})
		if err != nil {
			return nil, fmt.Errorf("user dictionary %s: %w", path, err)
		}
		logger.WithField("path", path).Info("Loaded user dictionary")
	}
	for _, w := range envelope.Dictionary.Words {
		freq := int64(-1)
		if w.Freq != nil {
			freq = *w.Freq
		}
		if _, err := seg.AddWord(w.Word, freq, w.Tag); err != nil {
			return nil, fmt.Errorf("add word %q: %w", w.Word, err)
		}
	}
	return seg, nil
}

func newExtractor(seg *text.Segmenter, envelope *config.Envelope) (keywords.Extractor, error) {
	cfg := envelope.Keywords
	method, err := keywords.ParseMethod(cfg.Method)
	if err != nil {
		return nil, err
	}

	var stopWords *keywords.StopWords
	if cfg.StopWords != "" {
		stopWords = keywords.NewStopWords()
		if _, err := loadFile(cfg.StopWords, func(r io.Reader) (struct{}, error) {
			return struct{}{}, stopWords.Load(r)
		}); err != nil {
			return nil, fmt.Errorf("stop words %s: %w", cfg.StopWords, err)
		}
	} else if stopWords, err = keywords.DefaultStopWords(); err != nil {
		return nil, err
	}
	for _, w := range cfg.ExtraStopWords {
		stopWords.Add(w)
	}
	opts := []keywords.Option{keywords.WithStopWords(stopWords)}

	if cfg.IDF != "" {
		idf := keywords.NewIDF()
		if _, err := loadFile(cfg.IDF, func(r io.Reader) (struct{}, error) {
			return struct{}{}, idf.Load(r)
		}); err != nil {
			return nil, fmt.Errorf("idf %s: %w", cfg.IDF, err)
		}
		opts = append(opts, keywords.WithIDF(idf))
	}
	if cfg.TextRank.Span > 0 {
		opts = append(opts, keywords.WithSpan(cfg.TextRank.Span))
	}
	if cfg.TextRank.Damping > 0 {
		opts = append(opts, keywords.WithDamping(cfg.TextRank.Damping))
	}
	if cfg.TextRank.Iterations > 0 {
		opts = append(opts, keywords.WithIterations(cfg.TextRank.Iterations))
	}
	if envelope.Normalize.Enabled {
		normalizer, err := text.NewCJKNormalizer(envelope.Normalize.T2S, envelope.Normalize.Lower)
		if err != nil {
			return nil, err
		}
		opts = append(opts, keywords.WithNormalizer(normalizer))
	}
	return keywords.New(method, seg, opts...)
}

// readInput joins args, or reads stdin when there are none.
func readInput(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	content, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(content), "\r\n"), nil
}

// writeRows prints value as JSON with --json, otherwise the rows joined by
// the row separator.
func writeRows(w io.Writer, value any, rows []string) error {
	if jsonOutput {
		return json.NewEncoder(w).Encode(value)
	}
	_, err := fmt.Fprintln(w, strings.Join(rows, rowSeparator))
	return err
}

func columns(fields ...any) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprint(f)
	}
	return strings.Join(parts, colSeparator)
}

// setup reads the configuration, builds the segmenter and reads the input
// text of a subcommand.
func setup(command *cobra.Command, args []string) (*config.Envelope, *text.Segmenter, string, error) {
	_, envelope, err := readConfig(command)
	if err != nil {
		return nil, nil, "", err
	}
	seg, err := newSegmenter(envelope)
	if err != nil {
		return nil, nil, "", err
	}
	input, err := readInput(args, command.InOrStdin())
	if err != nil {
		return nil, nil, "", err
	}
	return envelope, seg, input, nil
}

// normalizeInput applies the configured normalizer to the whole input.
func normalizeInput(envelope *config.Envelope, input string) (string, error) {
	if !envelope.Normalize.Enabled {
		return input, nil
	}
	normalizer, err := text.NewCJKNormalizer(envelope.Normalize.T2S, envelope.Normalize.Lower)
	if err != nil {
		return "", err
	}
	return normalizer.Normalize(input)
}
