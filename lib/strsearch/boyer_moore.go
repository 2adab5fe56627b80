package strsearch

// References:
// https://dl.acm.org/doi/pdf/10.1145/359842.359859
// https://www.cs.jhu.edu/~langmea/resources/lecture_notes/strings_matching_boyer_moore.pdf

type boyerMooreMatcher struct {
	pattern string
	runes   []rune
	// last occurrence of each rune in the pattern, absent is -1.
	last map[rune]int
	// shift[j] is the good suffix shift when runes[j:] matched
	// and runes[j-1] did not.
	shift []int
}

func (m *boyerMooreMatcher) Name() string {
	return "bm"
}

func (m *boyerMooreMatcher) Pattern() string {
	return m.pattern
}

func buildLastOccurrence(p []rune) map[rune]int {
	last := make(map[rune]int, len(p))
	for i, r := range p {
		last[r] = i
	}
	return last
}

/*
bpos[i] is the start of the widest border of p[i:], a border being
a proper suffix that is also a prefix.

gs1: the matched suffix occurs again in p, preceded by a different
rune. Shift to align the rightmost such occurrence.

gs2: no such occurrence, shift so the widest border of the matched
suffix lines up with a prefix of p, by the whole length if none.
*/
func buildGoodSuffix(p []rune) []int {
	m := len(p)
	bpos := make([]int, m+1)
	shift := make([]int, m+1)

	/* gs1 */
	i, j := m, m+1
	bpos[i] = j
	for i > 0 {
		for j <= m && p[i-1] != p[j-1] {
			if shift[j] == 0 {
				shift[j] = j - i
			}
			j = bpos[j]
		}
		i--
		j--
		bpos[i] = j
	}

	/* gs2 */
	j = bpos[0]
	for i = 0; i <= m; i++ {
		if shift[i] == 0 {
			shift[i] = j
		}
		if i == j {
			j = bpos[j]
		}
	}
	return shift
}

// The window is compared right to left. The window slides by the
// larger of the bad character and the good suffix shifts.
func (m *boyerMooreMatcher) FindAll(text string) []int {
	t := []rune(text)
	p := m.runes
	n, pl := len(t), len(p)
	offsets := make([]int, 0, 8)
	for s := 0; s <= n-pl; {
		j := pl - 1
		for ; j >= 0 && p[j] == t[s+j]; j-- {
		}
		if j < 0 {
			offsets = append(offsets, s)
			s += m.shift[0]
			continue
		}
		bad := j + 1 // absent rune, the window skips past it
		if k, ok := m.last[t[s+j]]; ok {
			bad = j - k
		}
		s += max(m.shift[j+1], bad)
	}
	return offsets
}

func NewBoyerMoore(pattern string) (Matcher, error) {
	if len(pattern) == 0 {
		return nil, ErrEmptyPattern
	}
	runes := []rune(pattern)
	return &boyerMooreMatcher{
		pattern: pattern,
		runes:   runes,
		last:    buildLastOccurrence(runes),
		shift:   buildGoodSuffix(runes),
	}, nil
}
