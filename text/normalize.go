package text

import (
	"strings"

	"github.com/longbridgeapp/opencc"
	"golang.org/x/text/unicode/norm"
)

// Normalizer folds surface variants of a term onto one form.
type Normalizer interface {
	Normalize(text string) (string, error)
}

// CJKNormalizer applies NFKC, then optionally traditional to simplified
// conversion and lower-casing.
type CJKNormalizer struct {
	t2s   *opencc.OpenCC
	lower bool
}

// NewCJKNormalizer creates a CJK normalizer. useT2s loads the opencc t2s
// tables; lower folds case after conversion.
func NewCJKNormalizer(useT2s, lower bool) (*CJKNormalizer, error) {
	n := &CJKNormalizer{lower: lower}
	if useT2s {
		t2s, err := opencc.New("t2s")
		if err != nil {
			return nil, err
		}
		n.t2s = t2s
	}
	return n, nil
}

func (n *CJKNormalizer) Normalize(text string) (string, error) {
	s := norm.NFKC.String(text)
	if n.t2s != nil {
		var err error
		if s, err = n.t2s.Convert(s); err != nil {
			return "", err
		}
	}
	if n.lower {
		s = strings.ToLower(s)
	}
	return s, nil
}
