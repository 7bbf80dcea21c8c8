// Package api defines the splitsmart RPC messages and the Connect bindings
// for AuthService, GroupService and LedgerService.
//
// Messages are plain Go structs carried by a JSON codec registered under the
// "json" name, so any Connect client speaking application/json can call the
// services. Money travels as decimal strings ("12.50"); timestamps as
// RFC 3339 strings.
package api

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// CodecName is the Connect codec name; requests use Content-Type application/json.
const CodecName = "json"

// Codec marshals messages with encoding/json, or protojson for protobuf messages.
type Codec struct{}

func (Codec) Name() string { return CodecName }

func (Codec) Marshal(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		return protojson.Unmarshal(data, m)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %T: %w", v, err)
	}
	return nil
}

// Time is a wire timestamp encoded the way protobuf's Timestamp is in JSON.
type Time struct {
	ts *timestamppb.Timestamp
}

// NewTime converts Unix seconds to a wire timestamp.
func NewTime(unix int64) Time {
	return Time{ts: timestamppb.New(time.Unix(unix, 0))}
}

// Unix returns the timestamp in Unix seconds, or 0 when unset.
func (t Time) Unix() int64 {
	return t.ts.GetSeconds()
}

// IsZero reports whether the timestamp is unset.
func (t Time) IsZero() bool {
	return t.ts == nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.ts == nil {
		return []byte("null"), nil
	}
	return protojson.Marshal(t.ts)
}

func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.ts = nil
		return nil
	}
	ts := &timestamppb.Timestamp{}
	if err := protojson.Unmarshal(data, ts); err != nil {
		return err
	}
	t.ts = ts
	return nil
}
