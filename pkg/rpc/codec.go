package rpc

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"reflect"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content-subtype the beetle wire codec registers under.
const CodecName = "beetle-gob"

func init() {
	encoding.RegisterCodec(wireCodec{})
}

// wireCodec encodes RPC messages with encoding/gob. The store service
// messages are plain structs of byte slices, so gob carries them without
// any generated code; both ends of a connection agree on the codec via
// the gRPC content-subtype.
type wireCodec struct{}

func (wireCodec) Name() string { return CodecName }

func (wireCodec) Marshal(v any) ([]byte, error) {
	if emptyMessage(v) {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return buf.Bytes(), nil
}

func (wireCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}

// emptyMessage reports whether v is a struct with no exported fields.
// Such messages (empty requests and acks) carry no payload, and gob
// refuses to encode them.
func emptyMessage(v any) bool {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			return false
		}
	}
	return true
}
