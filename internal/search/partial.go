package search

import "math/bits"

// pattern holds the match vectors of a needle: bit i of word w is set in the
// vector for c when needle[64*w+i] == c.
type pattern struct {
	m     int
	words int
	mask  uint64 // valid bits of the last word
	ascii [128]int32
	other map[rune]int32
	vecs  []uint64
}

func newPattern(needle []rune) *pattern {
	p := &pattern{
		m:     len(needle),
		words: (len(needle) + 63) / 64,
		mask:  ^uint64(0),
	}
	if r := p.m % 64; r != 0 {
		p.mask = uint64(1)<<uint(r) - 1
	}
	for i, c := range needle {
		blk := p.block(c)
		if blk == 0 {
			p.vecs = append(p.vecs, make([]uint64, p.words)...)
			blk = int32(len(p.vecs) / p.words)
			if c >= 0 && c < 128 {
				p.ascii[c] = blk
			} else {
				if p.other == nil {
					p.other = make(map[rune]int32)
				}
				p.other[c] = blk
			}
		}
		p.vecs[int(blk-1)*p.words+i/64] |= uint64(1) << uint(i%64)
	}
	return p
}

// block returns the 1-based vector index of c, 0 when c is not in the needle.
func (p *pattern) block(c rune) int32 {
	if c >= 0 && c < 128 {
		return p.ascii[c]
	}
	return p.other[c]
}

// lcsState runs the bit-parallel LCS recurrence of a pattern against a text
// one rune at a time. Zero bits of v count the LCS of the needle and the
// text consumed so far.
type lcsState struct {
	p *pattern
	v []uint64
}

func (p *pattern) state() *lcsState {
	s := &lcsState{p: p, v: make([]uint64, p.words)}
	s.reset()
	return s
}

func (s *lcsState) reset() {
	for i := range s.v {
		s.v[i] = ^uint64(0)
	}
}

func (s *lcsState) step(c rune) {
	blk := s.p.block(c)
	if blk == 0 {
		return
	}
	pm := s.p.vecs[int(blk-1)*s.p.words:][:s.p.words]
	var carry uint64
	for w, v := range s.v {
		u := v & pm[w]
		var sum uint64
		sum, carry = bits.Add64(v, u, carry)
		s.v[w] = sum | (v &^ u)
	}
}

func (s *lcsState) lcs() int {
	last := len(s.v) - 1
	ones := bits.OnesCount64(s.v[last] & s.p.mask)
	for _, v := range s.v[:last] {
		ones += bits.OnesCount64(v)
	}
	return s.p.m - ones
}

// ratio is the normalized Indel similarity of two strings of length a and b
// sharing an LCS of length lcs.
func ratio(lcs, a, b int) float64 {
	if a+b == 0 {
		return 0
	}
	return 100 * float64(2*lcs) / float64(a+b)
}

// alignment is the best-scoring window of a haystack, in runes.
type alignment struct {
	score      float64
	start, end int
}

// align scores every window of hay against needle, len(needle) <= len(hay).
// Windows are the prefixes and suffixes shorter than the needle and every
// full-length window. The result is exact whenever it is >= cutoff; below
// the cutoff some full-length windows are skipped.
func align(needle, hay []rune, cutoff float64) alignment {
	m, n := len(needle), len(hay)
	var best alignment
	if m == 0 || n == 0 {
		return best
	}

	fwd := newPattern(needle)
	st := fwd.state()
	for i := 0; i < m-1; i++ {
		st.step(hay[i])
		if s := ratio(st.lcs(), m, i+1); s > best.score {
			best = alignment{score: s, start: 0, end: i + 1}
		}
	}

	if m > 1 {
		rev := make([]rune, m)
		for i, c := range needle {
			rev[m-1-i] = c
		}
		back := newPattern(rev).state()
		for l := 1; l < m; l++ {
			back.step(hay[n-l])
			if s := ratio(back.lcs(), m, l); s > best.score {
				best = alignment{score: s, start: n - l, end: n}
			}
		}
	}

	// Adjacent full windows differ by one rune on each side, so their LCS
	// differs by at most one. A window x short of the target lets us skip
	// the next target-x-1 windows.
	for i := 0; i+m <= n; {
		target := fullTarget(m, best.score, cutoff)
		if target > m {
			break
		}
		st.reset()
		for _, c := range hay[i : i+m] {
			st.step(c)
		}
		x := st.lcs()
		if x < target {
			i += target - x
			continue
		}
		best = alignment{score: ratio(x, m, m), start: i, end: i + m}
		if x == m {
			break
		}
		i++
	}
	return best
}

// fullTarget returns the smallest LCS a full-length window needs to beat
// best and reach cutoff, or m+1 when no window can.
func fullTarget(m int, best, cutoff float64) int {
	l := int(best*float64(m)/100) - 1
	if c := int(cutoff*float64(m)/100) - 1; c > l {
		l = c
	}
	if l < 1 {
		l = 1
	}
	for ; l <= m; l++ {
		if s := ratio(l, m, m); s > best && s >= cutoff {
			return l
		}
	}
	return m + 1
}

// PartialRatio scores how well the shorter string matches somewhere inside
// the longer one, from 0 to 100. An empty string scores 0.
func PartialRatio(a, b string) float64 {
	return partialRatio(a, b, 0).score
}

func partialRatio(a, b string, cutoff float64) alignment {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		return alignment{}
	}
	best := align(ra, rb, cutoff)
	if len(ra) == len(rb) && best.score < 100 {
		if alt := align(rb, ra, cutoff); alt.score > best.score {
			best = alignment{score: alt.score, start: 0, end: len(rb)}
		}
	}
	return best
}
