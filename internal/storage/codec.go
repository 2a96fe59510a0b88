package storage

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/pable/go-val-metrics/internal/model"
)

// Shared coders. EncodeAll and DecodeAll are safe for concurrent use.
var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	decoder, _ = zstd.NewReader(nil)
)

// encodeResult serializes a match document as zstd-compressed JSON.
func encodeResult(r *model.MatchResult) ([]byte, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal match %s: %w", r.MatchID, err)
	}
	return encoder.EncodeAll(raw, nil), nil
}

func decodeResult(blob []byte) (*model.MatchResult, error) {
	raw, err := decoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	var r model.MatchResult
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("unmarshal match: %w", err)
	}
	return &r, nil
}
