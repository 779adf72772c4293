package keywords

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsingjyujing/fenci/dictionary"
	"github.com/tsingjyujing/fenci/text"
	"github.com/tsingjyujing/fenci/utils"
)

type fakeTagger []text.Tag

func (f fakeTagger) Tag(string, bool) ([]text.Tag, error) {
	return f, nil
}

func tagged(tag string, words ...string) fakeTagger {
	out := make(fakeTagger, len(words))
	for i, w := range words {
		out[i] = text.Tag{Word: w, Tag: tag}
	}
	return out
}

type failingNormalizer struct{}

func (failingNormalizer) Normalize(string) (string, error) {
	return "", errors.New("broken")
}

func loadIDF(t *testing.T, s string) *IDF {
	t.Helper()
	idf := NewIDF()
	require.NoError(t, idf.Load(strings.NewReader(s)))
	return idf
}

func terms(kws []Keyword) []string {
	out := make([]string, len(kws))
	for i, k := range kws {
		out[i] = k.Term
	}
	return out
}

func TestTFIDFExample(t *testing.T) {
	seg, err := text.NewDefault()
	require.NoError(t, err)

	e, err := New(MethodTFIDF, seg,
		WithIDF(loadIDF(t, "quick 2\nfox 3\n")),
		WithStopWords(NewStopWords("the")),
	)
	require.NoError(t, err)

	kws, err := e.Extract("the quick brown fox the quick fox", 2, nil)
	require.NoError(t, err)
	require.Len(t, kws, 2)
	assert.Equal(t, "fox", kws[0].Term)
	assert.InDelta(t, 1.2, kws[0].Weight, 1e-9)
	assert.Equal(t, "quick", kws[1].Term)
	assert.InDelta(t, 0.8, kws[1].Weight, 1e-9)

	all, err := e.Extract("the quick brown fox the quick fox", 10, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"fox", "quick", "brown"}, terms(all))
	assert.InDelta(t, 0.6, all[2].Weight, 1e-9, "unseen terms use the median idf")
}

func TestTFIDFFilters(t *testing.T) {
	tagger := fakeTagger{
		{Word: "数据", Tag: "n"},
		{Word: "分析", Tag: "vn"},
		{Word: "的", Tag: "uj"},
		{Word: "数据", Tag: "n"},
		{Word: "跑", Tag: "v"},
		{Word: "  ", Tag: "x"},
		{Word: "THE", Tag: "eng"},
	}
	e, err := NewTFIDF(tagger,
		WithIDF(loadIDF(t, "数据 1\n分析 4\n")),
		WithStopWords(NewStopWords("the")),
	)
	require.NoError(t, err)

	kws, err := e.Extract("", 5, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"分析", "数据"}, terms(kws))

	kws, err = e.Extract("", 5, []string{"n"})
	require.NoError(t, err)
	require.Equal(t, []string{"数据"}, terms(kws))
	assert.InDelta(t, 1.0, kws[0].Weight, 1e-9)
}

func TestTFIDFTiesKeepFirstOccurrence(t *testing.T) {
	e, err := NewTFIDF(tagged("n", "beta", "alpha", "gamma"),
		WithIDF(NewIDF()), WithStopWords(NewStopWords()))
	require.NoError(t, err)
	kws, err := e.Extract("", 3, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"beta", "alpha", "gamma"}, terms(kws))
	for _, k := range kws {
		assert.Zero(t, k.Weight)
	}
}

func TestTextRank(t *testing.T) {
	e, err := NewTextRank(tagged("n", "hub", "a1", "hub", "b1", "hub", "c1", "hub", "d1"),
		WithStopWords(NewStopWords()))
	require.NoError(t, err)

	kws, err := e.Extract("", 10, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"hub", "b1", "c1", "a1", "d1"}, terms(kws))
	want := []float64{1.0, 0.5895793592872819, 0.5138798008978189, 0.42884196513347933, 0.35516290410368345}
	for i, k := range kws {
		assert.InDelta(t, want[i], k.Weight, 1e-9, k.Term)
	}

	top, err := e.Extract("", 2, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"hub", "b1"}, terms(top))
}

func TestTextRankWindow(t *testing.T) {
	e, err := NewTextRank(
		tagged("n", "apple", "banana", "cherry", "apple", "banana", "of", "durian"),
		WithStopWords(NewStopWords("of")),
	)
	require.NoError(t, err)
	kws, err := e.Extract("", 4, nil)
	require.NoError(t, err)
	require.Len(t, kws, 4)
	assert.ElementsMatch(t, []string{"apple", "banana"}, terms(kws[:2]))
	assert.Equal(t, []string{"cherry", "durian"}, terms(kws[2:]))
	assert.InDelta(t, 0.7331636068681348, kws[2].Weight, 1e-9)
	assert.InDelta(t, 0.4648421420169869, kws[3].Weight, 1e-9)
}

func TestTextRankIsolatedVertices(t *testing.T) {
	e, err := NewTextRank(tagged("n", "apple", "x", "x", "x", "x", "x", "solo"),
		WithStopWords(NewStopWords()))
	require.NoError(t, err)
	kws, err := e.Extract("", 5, nil)
	require.NoError(t, err)
	assert.Equal(t, []Keyword{{Term: "apple", Weight: 1}, {Term: "solo", Weight: 1}}, kws)
}

func TestExtractInvalidTopK(t *testing.T) {
	for _, method := range []Method{MethodTFIDF, MethodTextRank} {
		e, err := New(method, tagged("n", "apple"), WithStopWords(NewStopWords()))
		require.NoError(t, err)
		_, err = e.Extract("apple", 0, nil)
		assert.ErrorIs(t, err, utils.ErrInvalidArgument, method.String())
		_, err = e.Extract("apple", -3, nil)
		assert.ErrorIs(t, err, utils.ErrInvalidArgument, method.String())
	}
}

func TestExtractEmpty(t *testing.T) {
	for _, method := range []Method{MethodTFIDF, MethodTextRank} {
		e, err := New(method, fakeTagger{}, WithStopWords(NewStopWords()))
		require.NoError(t, err)
		kws, err := e.Extract("", 3, nil)
		require.NoError(t, err)
		assert.Empty(t, kws)
	}
}

func TestNormalizer(t *testing.T) {
	n, err := text.NewCJKNormalizer(true, true)
	require.NoError(t, err)
	e, err := NewTFIDF(tagged("n", "檢索", "检索", "Search"),
		WithIDF(NewIDF()), WithStopWords(NewStopWords()), WithNormalizer(n))
	require.NoError(t, err)
	kws, err := e.Extract("", 5, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"检索", "search"}, terms(kws))

	e, err = NewTFIDF(tagged("n", "Search"),
		WithIDF(NewIDF()), WithStopWords(NewStopWords()), WithNormalizer(failingNormalizer{}))
	require.NoError(t, err)
	kws, err = e.Extract("", 5, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Search"}, terms(kws), "failed normalization keeps the original term")
}

func TestKeywordProperties(t *testing.T) {
	seg, err := text.NewDefault()
	require.NoError(t, err)
	input := "小明硕士毕业于中国科学院计算所，后在日本京都大学深造。中国科学院计算所是中国的科学研究机构，京都大学是日本的大学。"

	for _, method := range []Method{MethodTFIDF, MethodTextRank} {
		e, err := New(method, seg)
		require.NoError(t, err)
		for _, topK := range []int{1, 3, 20} {
			kws, err := e.Extract(input, topK, nil)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(kws), topK)
			for i, k := range kws {
				assert.False(t, math.IsNaN(k.Weight) || math.IsInf(k.Weight, 0))
				if i > 0 {
					assert.GreaterOrEqual(t, kws[i-1].Weight, k.Weight)
				}
			}
		}
	}
}

func TestKeywordsAreSegmenterWords(t *testing.T) {
	seg, err := text.NewDefault()
	require.NoError(t, err)
	input := "王小二在杭州西湖边散步"
	words, err := seg.Cut(input, true)
	require.NoError(t, err)

	for _, method := range []Method{MethodTFIDF, MethodTextRank} {
		e, err := New(method, seg)
		require.NoError(t, err)
		kws, err := e.Extract(input, 20, nil)
		require.NoError(t, err)
		require.NotEmpty(t, kws)
		for _, k := range kws {
			assert.Contains(t, words, k.Term, method.String())
		}
	}
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("TextRank")
	require.NoError(t, err)
	assert.Equal(t, MethodTextRank, m)
	m, err = ParseMethod("tfidf")
	require.NoError(t, err)
	assert.Equal(t, MethodTFIDF, m)
	_, err = ParseMethod("lda")
	assert.ErrorIs(t, err, utils.ErrInvalidArgument)
	_, err = New(Method(9), fakeTagger{})
	assert.ErrorIs(t, err, utils.ErrInvalidArgument)
}

func TestInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{name: "span", opt: WithSpan(1)},
		{name: "damping", opt: WithDamping(1.5)},
		{name: "iterations", opt: WithIterations(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTextRank(fakeTagger{}, tt.opt, WithStopWords(NewStopWords()))
			assert.ErrorIs(t, err, utils.ErrInvalidArgument)
		})
	}
}

func TestIDF(t *testing.T) {
	idf := loadIDF(t, "# comment\n甲 1.5\n乙 3\n丙 2\n")
	assert.Equal(t, 3, idf.Len())
	assert.Equal(t, 2.0, idf.Median())
	assert.Equal(t, 3.0, idf.Weight("乙"))
	assert.Equal(t, 2.0, idf.Weight("丁"))
	_, ok := idf.Get("丁")
	assert.False(t, ok)

	err := idf.Load(strings.NewReader("甲 1\n乙 nope\n"))
	var loadErr *dictionary.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, 2, loadErr.Line)
	assert.Equal(t, 3, idf.Len(), "failed load keeps the previous table")

	assert.Error(t, idf.Load(strings.NewReader("甲 NaN\n")))
	assert.Error(t, idf.Load(strings.NewReader("甲\n")))

	assert.Zero(t, NewIDF().Median())

	def, err := DefaultIDF()
	require.NoError(t, err)
	w, ok := def.Get("清华大学")
	require.True(t, ok)
	assert.InDelta(t, 6.680891, w, 1e-9)
}

func TestStopWords(t *testing.T) {
	s := NewStopWords("The", "of", " ")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("THE"))
	assert.True(t, s.Add("And"))
	assert.False(t, s.Add("and"))
	assert.True(t, s.Remove("OF"))
	assert.False(t, s.Remove("of"))
	assert.False(t, s.Contains("of"))

	require.NoError(t, s.Load(strings.NewReader("# list\n的\n\n了\n")))
	assert.True(t, s.Contains("的"))
	assert.Equal(t, 4, s.Len())

	s.Set([]string{"x", "y", "X"})
	assert.Equal(t, 2, s.Len())
	assert.False(t, s.Contains("the"))
}

func TestDefaultStopWords(t *testing.T) {
	s, err := DefaultStopWords()
	require.NoError(t, err)
	assert.True(t, s.Contains("the"))
	assert.True(t, s.Contains("Which"))
	assert.Greater(t, s.Len(), 31)

	other, err := DefaultStopWords()
	require.NoError(t, err)
	s.Remove("the")
	assert.True(t, other.Contains("the"), "default sets are independent")
}

func BenchmarkTextRank(b *testing.B) {
	seg, err := text.NewDefault()
	require.NoError(b, err)
	e, err := New(MethodTextRank, seg)
	require.NoError(b, err)
	input := "小明硕士毕业于中国科学院计算所，后在日本京都大学深造"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Extract(input, 5, nil)
	}
}
