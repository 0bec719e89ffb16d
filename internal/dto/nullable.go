package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yukikurage/okr-dashboard/internal/constants"
)

var jsonNull = []byte("null")

// NullableTime tells an absent field apart from an explicit null.
// Timestamps are RFC 3339; a bare YYYY-MM-DD date is accepted as midnight UTC.
type NullableTime struct {
	Set   bool
	Value *time.Time
}

func (n *NullableTime) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, jsonNull) {
		n.Value = nil
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		n.Value = nil
		return nil
	}

	for _, layout := range []string{time.RFC3339Nano, constants.DateLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			n.Value = &t
			return nil
		}
	}
	return fmt.Errorf("invalid time %q", raw)
}

// NullableID tells an absent id apart from an explicit null.
type NullableID struct {
	Set   bool
	Value *uint64
}

func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, jsonNull) {
		n.Value = nil
		return nil
	}

	var id uint64
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}
