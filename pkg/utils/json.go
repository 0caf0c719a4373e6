package utils

import (
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// UnmarshalJson converts a message payload into T. Payloads read off the
// wire arrive as generic maps and go through a json round trip; a payload
// that already holds a T is returned as is.
func UnmarshalJson[T any](v any) (T, error) {
	var result T
	switch payload := v.(type) {
	case nil:
		return result, nil
	case T:
		return payload, nil
	case []byte:
		if err := json.Unmarshal(payload, &result); err != nil {
			return *new(T), errors.WithMessage(err, "unmarshal json")
		}
		return result, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return *new(T), errors.WithMessage(err, "marshal json")
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return *new(T), errors.WithMessage(err, "unmarshal json")
	}
	return result, nil
}

// DecodeJson reads a single json value of type T from r.
func DecodeJson[T any](r io.Reader) (T, error) {
	var result T
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return *new(T), errors.WithMessage(err, "decode json")
	}
	return result, nil
}

func EncodeJson(w io.Writer, v any) error {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return errors.WithMessage(err, "encode json")
	}
	return nil
}
