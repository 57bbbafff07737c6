package vt

import (
	"github.com/rivo/uniseg"
	"github.com/unilibs/uniwidth"
)

// cluster is one grapheme cluster occupying a fixed number of terminal
// columns: the atomic unit CellRow's range table and cursor Pos index
// over. A row is a sequence of clusters, not raw bytes; see cellrow.go.
type cluster struct {
	text  string
	width int
	emoji bool
}

// nextCluster splits the first grapheme cluster off s using the
// grapheme-cluster boundary algorithm (UAX #29), then classifies its
// printed width with the codepoint width oracle. It is the single
// place input bytes turn into the atoms the rest of the package
// operates on.
func nextCluster(s string, state int) (c cluster, rest string, newState int) {
	seg, rest, width, newState := uniseg.FirstGraphemeClusterInString(s, state)
	if seg == "" {
		return cluster{}, rest, newState
	}
	r := []rune(seg)[0]
	c = cluster{
		text:  seg,
		width: clusterWidth(seg, width),
		emoji: isEmojiPresentation(r, seg),
	}
	return c, rest, newState
}

// clusterWidth resolves the final on-screen width for a cluster. The
// grapheme segmenter already folds emoji-modifier and ZWJ sequences
// into one cluster; uniwidth.RuneWidth covers the common CJK/emoji
// single-rune case used by most VT input, and the two are reconciled
// by taking the wider of the two when they disagree (the oracle never
// narrows what the segmenter measured as double).
func clusterWidth(s string, segWidth int) int {
	if segWidth >= 2 {
		return 2
	}
	r := []rune(s)[0]
	if w := uniwidth.RuneWidth(r); w > segWidth {
		return w
	}
	if segWidth <= 0 {
		return 0
	}
	return 1
}

// isEmojiPresentation is a coarse approximation of Unicode's
// Emoji_Presentation property plus the VS16 (U+FE0F) and ZWJ
// (U+200D) sequence markers, used only for the per-cell EmojiChar
// hint (§6 CellFlags bit 30). It deliberately over-approximates:
// a false positive only affects rendering hints downstream, never
// the column math (clusterWidth is authoritative for that).
func isEmojiPresentation(r rune, cluster string) bool {
	if containsRune(cluster, 0xFE0F) || containsRune(cluster, 0x200D) {
		return true
	}
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r == 0x2764 || r == 0x2B50 || r == 0x2B55:
		return true
	}
	return false
}

func containsRune(s string, target rune) bool {
	for _, r := range s {
		if r == target {
			return true
		}
	}
	return false
}

// RuneWidth is the exported single-codepoint oracle used outside row
// mutation (palette rendering, title-string measurement).
func RuneWidth(r rune) int {
	return uniwidth.RuneWidth(r)
}

// StringWidth sums cluster widths across s using the same segmenter
// CellRow mutation uses, so callers measuring a string before writing
// it get a number consistent with what the row will record.
func StringWidth(s string) int {
	total := 0
	state := -1
	for s != "" {
		var c cluster
		c, s, state = nextCluster(s, state)
		total += c.width
	}
	return total
}
