package strsearch

// References:
// https://www.cs.princeton.edu/~wayne/cs423/lectures/stringsearch-4up.pdf

type kmpMatcher struct {
	pattern string
	runes   []rune
	// lps[i] is the length of the longest proper prefix of
	// runes[:i+1] which is also its suffix.
	lps  []int
	fold bool
}

func (m *kmpMatcher) Name() string {
	return "kmp"
}

func (m *kmpMatcher) Pattern() string {
	return m.pattern
}

/*
Example, pattern "aabaaa":

	i    0 1 2 3 4 5
	p    a a b a a a
	lps  0 1 0 1 2 2

On a mismatch after j matched runes, the text is not re-read, the
pattern resumes at lps[j-1].
*/
func buildLPS(p []rune) []int {
	lps := make([]int, len(p))
	for i, j := 1, 0; i < len(p); {
		if p[i] == p[j] {
			j++
			lps[i] = j
			i++
		} else if j != 0 {
			j = lps[j-1]
		} else {
			lps[i] = 0
			i++
		}
	}
	return lps
}

func (m *kmpMatcher) FindAll(text string) []int {
	t := []rune(text)
	if m.fold {
		t = foldRunes(t)
	}
	p := m.runes
	if len(t) < len(p) {
		return []int{}
	}
	offsets := make([]int, 0, 8)
	for i, j := 0, 0; i < len(t); {
		if t[i] == p[j] {
			i++
			j++
			if j == len(p) {
				offsets = append(offsets, i-j)
				j = m.lps[j-1]
			}
		} else if j != 0 {
			j = m.lps[j-1]
		} else {
			i++
		}
	}
	return offsets
}

type kmpCfg struct {
	fold bool
}

type KMPOpt func(*kmpCfg)

// WithKMPCaseFold compares runes case-insensitively, by Unicode
// simple case folding.
func WithKMPCaseFold() KMPOpt {
	return func(cfg *kmpCfg) {
		cfg.fold = true
	}
}

func NewKMP(pattern string, opts ...KMPOpt) (Matcher, error) {
	if len(pattern) == 0 {
		return nil, ErrEmptyPattern
	}
	cfg := &kmpCfg{}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	runes := []rune(pattern)
	if cfg.fold {
		runes = foldRunes(runes)
	}
	return &kmpMatcher{
		pattern: pattern,
		runes:   runes,
		lps:     buildLPS(runes),
		fold:    cfg.fold,
	}, nil
}
