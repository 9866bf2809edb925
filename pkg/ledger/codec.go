package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

type rawDocument struct {
	Contributions *[]ContributionRecord `json:"contributions"`
	Log           *[]LogEntry           `json:"log"`
}

// EncodeDocument serializes a document to its stored JSON form.
func EncodeDocument(doc *Document) ([]byte, error) {
	if doc == nil {
		doc = NewDocument()
	}
	out := doc
	// Stored form always carries both arrays, never null.
	if out.Contributions == nil || out.Log == nil {
		out = doc.Clone()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

// DecodeDocument parses stored bytes. Anything that does not match the
// document schema is reported as ErrStoreCorrupt.
func DecodeDocument(data []byte) (*Document, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var raw rawDocument
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreCorrupt, err)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", ErrStoreCorrupt)
	}
	if raw.Contributions == nil {
		return nil, fmt.Errorf("%w: missing contributions", ErrStoreCorrupt)
	}
	if raw.Log == nil {
		return nil, fmt.Errorf("%w: missing log", ErrStoreCorrupt)
	}

	return &Document{
		Contributions: *raw.Contributions,
		Log:           *raw.Log,
	}, nil
}
