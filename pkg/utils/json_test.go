package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestUnmarshalJson(t *testing.T) {
	want := payload{Name: "cruiser", Count: 3}
	tests := []struct {
		name string
		in   any
		want payload
	}{
		{name: "same type", in: want, want: want},
		{name: "generic map", in: map[string]any{"name": "cruiser", "count": 3.0}, want: want},
		{name: "raw bytes", in: []byte(`{"name":"cruiser","count":3}`), want: want},
		{name: "nil", in: nil, want: payload{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := UnmarshalJson[payload](test.in)
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}

	_, err := UnmarshalJson[payload]([]byte(`{"count":"three"}`))
	assert.Error(t, err)
}

func TestEncodeDecodeJson(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJson(&buf, payload{Name: "boat", Count: 1}))

	got, err := DecodeJson[payload](&buf)
	require.NoError(t, err)
	assert.Equal(t, payload{Name: "boat", Count: 1}, got)

	_, err = DecodeJson[map[string]payload](strings.NewReader("not json"))
	assert.Error(t, err)
}
