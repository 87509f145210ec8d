package diaryrpc

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/swapdiary/internal/common"

	"google.golang.org/protobuf/types/known/structpb"
)

// Encode converts v to a Struct through its JSON form. A nil v yields an
// empty Struct.
func Encode(v any) (*structpb.Struct, error) {
	if v == nil {
		return &structpb.Struct{Fields: map[string]*structpb.Value{}}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("encode: message must be a JSON object: %w", err)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return s, nil
}

// Decode fills v from s. A shape mismatch wraps common.ErrValidation.
func Decode(s *structpb.Struct, v any) error {
	raw, err := s.MarshalJSON()
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: decode: %v", common.ErrValidation, err)
	}
	return nil
}
