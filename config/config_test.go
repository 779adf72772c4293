package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	const input = `
log_level: debug
dictionary:
  user_dicts: [a.txt, b.txt]
  words:
    - {word: 杭研, freq: 100, tag: nt}
    - {word: 网易杭研}
hmm:
  enabled: false
keywords:
  method: textrank
  allowed_pos: [n, ns]
  textrank: {span: 3}
normalize: {enabled: true, t2s: true}
`
	env, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "debug", env.LogLevel)
	assert.Equal(t, []string{"a.txt", "b.txt"}, env.Dictionary.UserDicts)
	require.Len(t, env.Dictionary.Words, 2)
	require.NotNil(t, env.Dictionary.Words[0].Freq)
	assert.Equal(t, int64(100), *env.Dictionary.Words[0].Freq)
	assert.Nil(t, env.Dictionary.Words[1].Freq)
	assert.False(t, env.HMM.Enabled)
	assert.Equal(t, "textrank", env.Keywords.Method)
	assert.Equal(t, 20, env.Keywords.TopK, "defaults survive partial files")
	assert.Equal(t, 3, env.Keywords.TextRank.Span)
	assert.True(t, env.Normalize.T2S)
}

func TestParseEmpty(t *testing.T) {
	env, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), env)
}

func TestParseUnknownKey(t *testing.T) {
	_, err := Parse(strings.NewReader("server:\n  address: :8080\n"))
	assert.Error(t, err)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("keywords:\n  top_k: 5\n"), 0o600))
	env, err := LoadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, env.Keywords.TopK)

	_, err = LoadConfigFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
