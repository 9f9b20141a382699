package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

func init() {
	MustRegister(jsonCodec{})
}

// jsonCodec 解码时保留数字字面量（json.Number），避免大整数在 float64 中丢精度。
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("json: unexpected data after top-level value")
	}
	return nil
}
