package rtyaml

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// leadingZero matches strings like "0", "007" or "0123". yaml.v3 alone
// quotes only the ones that resolve to a number.
var leadingZero = regexp.MustCompile(`^0[0-9]*$`)

// stringStyle picks the node style for a string scalar. It returns false
// if s is not valid UTF-8 and must be left to the encoder.
//
//   - leading-zero digit strings are single-quoted
//   - strings with newlines use literal style, or folded style when the
//     average line is longer than the fold threshold
//   - anything else gets no style and the encoder chooses
func (c *Codec) stringStyle(s string) (yaml.Style, bool) {
	if !utf8.ValidString(s) {
		return 0, false
	}

	var style yaml.Style
	if leadingZero.MatchString(s) {
		style = yaml.SingleQuotedStyle
	}

	if strings.Contains(s, "\n") {
		if averageLineLength(s) > c.foldThreshold {
			style = yaml.FoldedStyle
		} else {
			style = yaml.LiteralStyle
		}
	}
	return style, true
}

// averageLineLength returns the mean number of characters per line of s,
// where lines are split on "\n".
func averageLineLength(s string) float64 {
	lines := strings.Split(s, "\n")
	total := 0
	for _, line := range lines {
		total += utf8.RuneCountInString(line)
	}
	return float64(total) / float64(len(lines))
}
