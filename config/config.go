package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type Envelope struct {
	LogLevel   string     `yaml:"log_level"`
	Dictionary Dictionary `yaml:"dictionary"`
	HMM        HMM        `yaml:"hmm"`
	Keywords   Keywords   `yaml:"keywords"`
	Normalize  Normalize  `yaml:"normalize"`
}

// Dictionary lists user dictionaries merged over the packaged one, in order,
// followed by single words.
type Dictionary struct {
	UserDicts []string `yaml:"user_dicts"`
	Words     []Word   `yaml:"words"`
}

// Word is added with AddWord. A missing Freq asks for the suggested
// frequency.
type Word struct {
	Word string `yaml:"word"`
	Freq *int64 `yaml:"freq"`
	Tag  string `yaml:"tag"`
}

// HMM overrides the packaged models with full-size tables.
type HMM struct {
	Enabled  bool   `yaml:"enabled"`
	Model    string `yaml:"model"`
	POSModel string `yaml:"pos_model"`
}

type Keywords struct {
	Method         string   `yaml:"method"`
	TopK           int      `yaml:"top_k"`
	AllowedPOS     []string `yaml:"allowed_pos"`
	IDF            string   `yaml:"idf"`
	StopWords      string   `yaml:"stop_words"`
	ExtraStopWords []string `yaml:"extra_stop_words"`
	TextRank       TextRank `yaml:"textrank"`
}

// TextRank parameters; zero values keep the defaults.
type TextRank struct {
	Span       int     `yaml:"span"`
	Damping    float64 `yaml:"damping"`
	Iterations int     `yaml:"iterations"`
}

type Normalize struct {
	Enabled bool `yaml:"enabled"`
	T2S     bool `yaml:"t2s"`
	Lower   bool `yaml:"lower"`
}

// Default is the configuration used when no file is found.
func Default() *Envelope {
	return &Envelope{
		LogLevel: "info",
		HMM:      HMM{Enabled: true},
		Keywords: Keywords{Method: "tfidf", TopK: 20},
	}
}

// Parse decodes a YAML envelope over the defaults. Unknown keys are errors.
func Parse(r io.Reader) (*Envelope, error) {
	envelope := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(envelope); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return envelope, nil
}

func LoadConfigFromFile(path string) (*Envelope, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	envelope, err := Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return envelope, nil
}
