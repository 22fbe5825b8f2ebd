package record

import (
	"context"
	"errors"
	"io"

	kafka "github.com/segmentio/kafka-go"
)

// KafkaSource pulls one DocumentRecord per message off a Kafka topic,
// decoding the message value as the same document shape JSONLSource
// reads from files. It's a supplemental record source beyond
// plaintext/HTML/WARC: the Source contract is transport-agnostic, so
// reading off a topic instead of a file changes nothing else in the
// pipeline.
//
// A malformed message is reported as an invalid record, not a fatal
// stream error; only a broker/connection failure, or the reader's
// context being canceled, ends the stream.
type KafkaSource struct {
	ctx    context.Context
	reader *kafka.Reader
}

func NewKafkaSource(ctx context.Context, cfg kafka.ReaderConfig) *KafkaSource {
	return &KafkaSource{ctx: ctx, reader: kafka.NewReader(cfg)}
}

func (s *KafkaSource) Next() (DocumentRecord, error) {
	msg, err := s.reader.ReadMessage(s.ctx)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil, ErrEndOfStream
		}
		return nil, err
	}

	return decodeJSONDocument(msg.Value), nil
}

func (s *KafkaSource) Close() error {
	return s.reader.Close()
}
