package label

import "github.com/pranitsh/keyflare/domain/geometry"

// Entry pairs a code with the region it selects. Index is the region's
// position in the candidate set.
type Entry struct {
	Code   string
	Region geometry.Region
	Index  int
}

// CodeLength returns the smallest L >= 1 with size^L >= n.
func CodeLength(n, size int) int {
	if size < 2 {
		return 1
	}
	l, capacity := 1, size
	for capacity < n {
		capacity *= size
		l++
	}
	return l
}

// Codes returns the first n strings of length CodeLength(n, len(a)), counting
// like an odometer whose digits are the alphabet in its own order, most
// significant digit first.
func Codes(n int, a Alphabet) []string {
	if n <= 0 || len(a) == 0 {
		return nil
	}
	size := len(a)
	l := CodeLength(n, size)
	digits := make([]int, l)
	buf := make([]rune, l)
	out := make([]string, 0, n)
	for len(out) < n {
		for i, d := range digits {
			buf[i] = a[d]
		}
		out = append(out, string(buf))
		for i := l - 1; i >= 0; i-- {
			digits[i]++
			if digits[i] < size {
				break
			}
			digits[i] = 0
		}
	}
	return out
}

// Assign zips codes with regions in the given order.
func Assign(regions []geometry.Region, a Alphabet) ([]Entry, error) {
	if len(a) < 2 {
		return nil, ErrAlphabetTooSmall
	}
	codes := Codes(len(regions), a)
	entries := make([]Entry, len(regions))
	for i, r := range regions {
		entries[i] = Entry{Code: codes[i], Region: r, Index: i}
	}
	return entries, nil
}
