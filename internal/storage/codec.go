package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Tiliavir/headache-tracker/internal/model"
)

// Encoding selects the record encoding written on save.
type Encoding string

const (
	// EncodingJSON is the reference encoding: an array of entry objects.
	EncodingJSON Encoding = "json"
	// EncodingMsgpack is a denser array encoding that fits more entries
	// under the capacity ceiling.
	EncodingMsgpack Encoding = "msgpack"
)

// ParseEncoding validates an encoding name.
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(strings.ToLower(strings.TrimSpace(s))) {
	case "", EncodingJSON:
		return EncodingJSON, nil
	case EncodingMsgpack:
		return EncodingMsgpack, nil
	}
	return "", fmt.Errorf("unknown encoding %q (want %s or %s)", s, EncodingJSON, EncodingMsgpack)
}

func encodeEntries(enc Encoding, entries []model.Entry) ([]byte, error) {
	switch enc {
	case EncodingMsgpack:
		return msgpack.Marshal(entries)
	default:
		return json.Marshal(entries)
	}
}

// decodeEntries sniffs the format from the first byte, so records written
// with either encoding load regardless of the configured one. Records that do
// not decode into a valid entry are dropped and returned as skipped; when
// every record is dropped the whole value is corrupt.
func decodeEntries(raw []byte) ([]model.Entry, []error, error) {
	if len(raw) == 0 {
		return nil, nil, errors.New("empty record")
	}

	// Binary records must not be trimmed: trailing bytes may look like spaces.
	var decode []func(*model.Entry) error
	trimmed := bytes.TrimSpace(raw)
	switch {
	case isMsgpackArray(raw[0]):
		var items []msgpack.RawMessage
		if err := msgpack.Unmarshal(raw, &items); err != nil {
			return nil, nil, err
		}
		for _, item := range items {
			decode = append(decode, func(e *model.Entry) error { return msgpack.Unmarshal(item, e) })
		}
	case len(trimmed) > 0 && trimmed[0] == '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, nil, err
		}
		for _, item := range items {
			decode = append(decode, func(e *model.Entry) error { return json.Unmarshal(item, e) })
		}
	default:
		return nil, nil, errors.New("record is not an array")
	}

	entries := make([]model.Entry, 0, len(decode))
	var skipped []error
	for i, fn := range decode {
		var e model.Entry
		err := fn(&e)
		if err == nil {
			err = e.Validate()
		}
		if err != nil {
			skipped = append(skipped, fmt.Errorf("record %d: %w", i+1, err))
			continue
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 && len(skipped) > 0 {
		return nil, skipped, fmt.Errorf("no valid records: %w", skipped[0])
	}
	return entries, skipped, nil
}

// fixarray, array16 and array32 markers.
func isMsgpackArray(b byte) bool {
	return (b >= 0x90 && b <= 0x9f) || b == 0xdc || b == 0xdd
}

// escapeValue percent-encodes like encodeURIComponent: spaces become %20,
// never '+'.
func escapeValue(raw []byte) string {
	return strings.ReplaceAll(url.QueryEscape(string(raw)), "+", "%20")
}

func unescapeValue(v string) ([]byte, error) {
	s, err := url.PathUnescape(v)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}
