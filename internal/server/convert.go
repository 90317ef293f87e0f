package server

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// toStruct renders any JSON-marshalable value as a Struct.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

func stringField(s *structpb.Struct, key string) string {
	if v, ok := s.GetFields()[key]; ok {
		return v.GetStringValue()
	}
	return ""
}

func boolField(s *structpb.Struct, key string, def bool) bool {
	v, ok := s.GetFields()[key]
	if !ok {
		return def
	}
	if _, isBool := v.GetKind().(*structpb.Value_BoolValue); !isBool {
		return def
	}
	return v.GetBoolValue()
}

// documentBytes returns the analysis payload under key: a nested object is
// re-encoded as JSON, a string is taken as JSON text.
func documentBytes(s *structpb.Struct, key string) ([]byte, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return nil, fmt.Errorf("%s is required", key)
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return []byte(k.StringValue), nil
	case *structpb.Value_StructValue:
		return json.Marshal(k.StructValue.AsMap())
	default:
		return nil, fmt.Errorf("%s must be an object or a JSON string", key)
	}
}
