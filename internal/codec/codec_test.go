package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `json:"name" yaml:"name"`
	Tags  []string `json:"tags" yaml:"tags"`
	Count int64    `json:"count" yaml:"count"`
}

func TestBuiltinCodecsRegistered(t *testing.T) {
	assert.Equal(t, []string{"json", "yaml"}, Names())

	c, ok := Resolve(" JSON ")
	require.True(t, ok, "resolve should be case-insensitive")
	assert.Equal(t, "json", c.Name())
	assert.Equal(t, "json", Default().Name())

	_, ok = Resolve("gob")
	assert.False(t, ok)
	_, ok = Resolve("")
	assert.False(t, ok)
}

func TestCodecsRoundTripTypedValues(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			c, ok := Resolve(name)
			require.True(t, ok)

			in := sample{Name: "Ann", Tags: []string{"a", "b"}, Count: 1 << 60}
			raw, err := c.Marshal(in)
			require.NoError(t, err)

			var out sample
			require.NoError(t, c.Unmarshal(raw, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestCodecsConvertGenericIntoTyped(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			c, _ := Resolve(name)
			raw, err := c.Marshal(map[string]any{"name": "Ann", "tags": []string{"x"}, "count": 42})
			require.NoError(t, err)

			var generic any
			require.NoError(t, c.Unmarshal(raw, &generic))

			var out sample
			require.NoError(t, Convert(c, generic, &out))
			assert.Equal(t, sample{Name: "Ann", Tags: []string{"x"}, Count: 42}, out)
		})
	}
}

func TestJSONKeepsNumberLiterals(t *testing.T) {
	c, _ := Resolve("json")
	var out any
	require.NoError(t, c.Unmarshal([]byte(`{"big": 9007199254740993}`), &out))

	m, ok := out.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, json.Number("9007199254740993"), m["big"])
}

func TestCodecsRejectMalformedInput(t *testing.T) {
	cases := []struct {
		codec string
		input string
	}{
		{"json", `{"data": "abc", "info": {"key": "12`},
		{"json", `{"data": 1} trailing`},
		{"json", ``},
		{"yaml", "data: [1, 2\ninfo: {"},
		{"yaml", ""},
	}
	for _, tc := range cases {
		t.Run(tc.codec+"/"+tc.input, func(t *testing.T) {
			c, ok := Resolve(tc.codec)
			require.True(t, ok)
			var out map[string]any
			assert.Error(t, c.Unmarshal([]byte(tc.input), &out))
		})
	}
}

func TestRegisterDuplicateFails(t *testing.T) {
	prev := globalRegistry
	globalRegistry = newRegistry()
	t.Cleanup(func() { globalRegistry = prev })

	require.NoError(t, Register(jsonCodec{}))
	assert.Error(t, Register(jsonCodec{}))
	assert.Error(t, Register(nil))
	assert.Panics(t, func() { MustRegister(jsonCodec{}) })
}
