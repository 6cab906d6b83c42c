package jsonhelper

import (
	jsoniter "github.com/json-iterator/go"

	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Encode marshals a value that is known to be encodable; an error here is a
// programming mistake, not a runtime condition.
func Encode[T any](t T) []byte {
	b, err := json.Marshal(t)
	if err != nil {
		zap.S().With("t", t).Fatalln("couldn't encode the variable", "error", err)
	}
	return b
}

// EncodeIndent is Encode with human-readable output, for files people read.
func EncodeIndent[T any](t T) []byte {
	b, err := json.MarshalIndent(t, "", "    ")
	if err != nil {
		zap.S().With("t", t).Fatalln("couldn't encode the variable", "error", err)
	}
	return b
}

// Decode unmarshals untrusted bytes and hands the error back to the caller.
func Decode[T any](b []byte) (T, error) {
	var t T
	err := json.Unmarshal(b, &t)
	return t, err
}

// Get exposes jsoniter's lazy path lookup for payloads whose shape is only
// partially known.
func Get(data []byte, path ...interface{}) jsoniter.Any {
	return jsoniter.Get(data, path...)
}
