package codec

import (
	"bytes"
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

func init() {
	MustRegister(yamlCodec{})
}

type yamlCodec struct{}

func (yamlCodec) Name() string { return "yaml" }

func (yamlCodec) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (yamlCodec) Unmarshal(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("yaml: empty document")
		}
		return err
	}
	return nil
}
