// Package telemetry reads raw match documents from disk and converts them to
// model.MatchTelemetry.
//
// A document is either the bare match object or the API envelope
// {"status": 200, "data": {...}}. Files may be zstd-compressed.
package telemetry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/tidwall/gjson"

	"github.com/pable/go-val-metrics/internal/model"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Load reads and decodes the telemetry file at path. Files ending in .zst or
// starting with the zstd frame magic are decompressed first.
func Load(path string) (*model.MatchTelemetry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		src = dec
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(data)
}

// Decode parses one telemetry document.
func Decode(data []byte) (*model.MatchTelemetry, error) {
	if bytes.HasPrefix(data, zstdMagic) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		if data, err = dec.DecodeAll(data, nil); err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
	}

	doc, err := unwrap(data)
	if err != nil {
		return nil, err
	}

	var m apiMatch
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, &model.ValidationError{Field: "telemetry", Reason: err.Error()}
	}
	return m.toModel(), nil
}

// unwrap returns the match object, stripping the API envelope if present.
func unwrap(data []byte) ([]byte, error) {
	if !gjson.ValidBytes(data) {
		return nil, &model.ValidationError{Field: "telemetry", Reason: "not valid JSON"}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &model.ValidationError{Field: "telemetry", Reason: "document is not an object"}
	}

	if status := root.Get("status"); status.Exists() && status.Int() != 200 {
		msg := root.Get("errors.0.message").String()
		if msg == "" {
			msg = "request failed"
		}
		return nil, fmt.Errorf("telemetry source returned status %d: %s", status.Int(), msg)
	}

	if inner := root.Get("data"); inner.IsObject() {
		if !inner.Get("metadata").Exists() {
			return nil, &model.ValidationError{Field: "data.metadata", Reason: "missing"}
		}
		return []byte(inner.Raw), nil
	}
	if !root.Get("metadata").Exists() {
		return nil, &model.ValidationError{Field: "metadata", Reason: "missing"}
	}
	return data, nil
}
