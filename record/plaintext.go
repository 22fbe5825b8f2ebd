package record

import (
	"bufio"
	"io"
	"strings"
)

// PlaintextSource reads "trecid\tcontent" lines; urls are always empty.
// This is the reference format used by the scenario fixtures and by
// the forge-build CLI, which reads all of its input this way.
type PlaintextSource struct {
	scanner *bufio.Scanner
}

func NewPlaintextSource(r io.Reader) *PlaintextSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &PlaintextSource{scanner: scanner}
}

func (s *PlaintextSource) Next() (DocumentRecord, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, ErrEndOfStream
	}

	line := s.scanner.Text()
	trecid, content, ok := strings.Cut(line, "\t")
	if !ok {
		return New("", "", nil, false), nil
	}

	return New(trecid, "", []byte(content), true), nil
}
