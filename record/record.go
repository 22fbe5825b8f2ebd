// Package record defines the core's view of an input document and the
// pull-based contract every record source implements.
package record

import "errors"

// DocumentId is assigned in the order records are pulled from a Source;
// the document at position i (0-based, counting only valid records)
// becomes document i in the output.
type DocumentId uint32

// DocumentRecord is a run-time-polymorphic value over the capability
// set the core actually needs. Plaintext, HTML, WARC, and any other
// record shape all implement the same four accessors; the core never
// looks past them.
type DocumentRecord interface {
	Trecid() string
	URL() string
	Content() []byte
	Valid() bool
}

// ErrEndOfStream is returned by Source.Next to signal normal
// termination of the read loop. Any other non-nil error is a fatal
// stream failure and aborts the build.
var ErrEndOfStream = errors.New("record: end of stream")

// Source pulls DocumentRecords off an input byte stream. It is
// stateful with respect to its stream but is never shared across
// goroutines — the ingestion driver owns exactly one.
type Source interface {
	Next() (DocumentRecord, error)
}

type simpleRecord struct {
	trecid  string
	url     string
	content []byte
	valid   bool
}

func (r simpleRecord) Trecid() string  { return r.trecid }
func (r simpleRecord) URL() string     { return r.url }
func (r simpleRecord) Content() []byte { return r.content }
func (r simpleRecord) Valid() bool     { return r.valid }

// New builds the reference DocumentRecord implementation. Sources that
// don't need their own record type (most don't) construct one of these
// directly instead of defining a new concrete type per format.
func New(trecid, url string, content []byte, valid bool) DocumentRecord {
	return simpleRecord{trecid: trecid, url: url, content: content, valid: valid}
}
