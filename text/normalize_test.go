package text

import (
	"testing"
)

func TestNewCJKNormalizer(t *testing.T) {
	tests := []struct {
		name   string
		useT2s bool
		lower  bool
	}{
		{name: "仅NFKC", useT2s: false, lower: false},
		{name: "繁转简", useT2s: true, lower: false},
		{name: "完整配置", useT2s: true, lower: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewCJKNormalizer(tt.useT2s, tt.lower)
			if err != nil {
				t.Fatalf("NewCJKNormalizer() error = %v", err)
			}
			if n == nil {
				t.Errorf("NewCJKNormalizer() returned nil normalizer")
			}
		})
	}
}

func TestCJKNormalizer_Normalize(t *testing.T) {
	tests := []struct {
		name   string
		useT2s bool
		lower  bool
		input  string
		want   string
	}{
		{name: "空字符串", input: "", want: ""},
		{name: "全角字符转半角", input: "Ｈｅｌｌｏ", want: "Hello"},
		{name: "Unicode兼容字符", input: "ℌ", want: "H"},
		{name: "全角标点", input: "你好，世界！", want: "你好,世界!"},
		{name: "中文字符不变", input: "你好世界", want: "你好世界"},
		{name: "不开启繁转简", input: "繁體中文", want: "繁體中文"},
		{name: "繁体转简体", useT2s: true, input: "繁體中文", want: "繁体中文"},
		{name: "已是简体不变", useT2s: true, input: "简体中文", want: "简体中文"},
		{name: "小写", lower: true, input: "Hello World", want: "hello world"},
		{name: "组合", useT2s: true, lower: true, input: "ＨｅｌｌｏＷｏｒｌｄ檢索", want: "helloworld检索"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewCJKNormalizer(tt.useT2s, tt.lower)
			if err != nil {
				t.Fatalf("NewCJKNormalizer() error = %v", err)
			}
			got, err := n.Normalize(tt.input)
			if err != nil {
				t.Errorf("Normalize() error = %v", err)
				return
			}
			if got != tt.want {
				t.Errorf("Normalize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCJKNormalizer_Interface(t *testing.T) {
	var _ Normalizer = &CJKNormalizer{}

	n, err := NewCJKNormalizer(false, true)
	if err != nil {
		t.Fatalf("NewCJKNormalizer() error = %v", err)
	}
	var normalizer Normalizer = n
	result, err := normalizer.Normalize("TEST")
	if err != nil {
		t.Errorf("Normalize() through interface error = %v", err)
	}
	if result != "test" {
		t.Errorf("Normalize() through interface = %v, want %v", result, "test")
	}
}

func BenchmarkCJKNormalizer_Normalize(b *testing.B) {
	n, _ := NewCJKNormalizer(true, true)
	text := "ＨｅｌｌｏＷｏｒｌｄ繁體中文"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = n.Normalize(text)
	}
}
