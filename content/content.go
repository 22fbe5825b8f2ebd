// Package content provides the two pluggable transforms a batch
// processor runs over a record's body: a Splitter that emits raw
// terms, and a Normalizer that canonicalizes each one.
package content

import "strings"

// EmitFunc receives each raw term a Splitter extracts from a record's
// content, in document order.
type EmitFunc func(term string)

// Splitter consumes content and calls emit for every raw term found.
type Splitter func(content []byte, emit EmitFunc)

// Normalizer canonicalizes a raw term. Returning "" drops the term —
// the batch processor never assigns an id to an empty normalized term.
type Normalizer func(raw string) string

// Lowercase is the reference Normalizer.
func Lowercase(raw string) string {
	return strings.ToLower(raw)
}

func isASCIISpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isASCIIAlnum(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
