package content

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// HTML strips tags and entities via an HTML tokenizer, drops everything
// up to and including the first blank line as a header-removal
// heuristic, then emits maximal runs of ASCII alphanumeric characters.
//
// The header heuristic is fragile by construction: a single blank line
// (a '\n' followed, possibly across further whitespace, by another
// '\n') is the only signal it looks for, and content lacking one loses
// everything. This is documented behavior, not a defect — callers who
// don't want it should not hand this Splitter untrusted body text
// without a blank line.
func HTML(content []byte, emit EmitFunc) {
	text := cleanText(content)
	text = dropHeader(text)
	emitAlnumRuns(text, emit)
}

func cleanText(content []byte) string {
	var sb strings.Builder
	tokenizer := html.NewTokenizer(bytes.NewReader(content))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			sb.Write(tokenizer.Text())
		}
	}
}

// dropHeader returns the text starting right after the first blank
// line, or "" if the text never contains one.
func dropHeader(text string) string {
	n := len(text)
	i := 0
	for i < n {
		j := strings.IndexByte(text[i:], '\n')
		if j == -1 {
			return ""
		}
		first := i + j

		k := first + 1
		for k < n {
			c := text[k]
			if c == '\n' {
				return text[k+1:]
			}
			if !isASCIISpace(c) {
				break
			}
			k++
		}
		i = first + 1
	}
	return ""
}

func emitAlnumRuns(text string, emit EmitFunc) {
	n := len(text)
	i := 0
	for i < n {
		for i < n && !isASCIIAlnum(text[i]) {
			i++
		}

		start := i
		for i < n && isASCIIAlnum(text[i]) {
			i++
		}

		if i > start {
			emit(text[start:i])
		}
	}
}
