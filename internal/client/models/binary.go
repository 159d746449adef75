package models

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidBinaryBlob = errors.New("invalid binary blob encoding")

// legacyBlob is the JSON envelope older builds wrote for stored binaries.
type legacyBlob struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// NormalizeBinary canonicalises a stored blob to raw bytes. Current rows hold
// raw JPEG bytes; rows written by legacy builds hold a JSON envelope
// {"type":"blob","data":"<base64>"}. Repositories call this on every blob
// read so the rest of the code only ever sees raw bytes.
func NormalizeBinary(raw []byte) ([]byte, error) {
	if len(raw) == 0 || raw[0] != '{' {
		return raw, nil
	}
	var lb legacyBlob
	if err := json.Unmarshal(raw, &lb); err != nil || lb.Type != "blob" {
		// Not the legacy envelope, treat as raw bytes.
		return raw, nil
	}
	b, err := base64.StdEncoding.DecodeString(lb.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBinaryBlob, err)
	}
	return b, nil
}

// EncodeLegacyBlob wraps raw bytes in the legacy JSON envelope. Only used by
// tests and migration tooling; new writes always store raw bytes.
func EncodeLegacyBlob(raw []byte) []byte {
	b, _ := json.Marshal(legacyBlob{Type: "blob", Data: base64.StdEncoding.EncodeToString(raw)})
	return b
}
