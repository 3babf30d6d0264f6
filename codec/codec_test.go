package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testChild struct {
	K string `json:"k"`
	V int64  `json:"v"`
}

type testPayload struct {
	Count    uint64      `json:"count"`
	Digest   string      `json:"digest"`
	Fleet    []int       `json:"fleet"`
	Children []testChild `json:"children"`
}

func TestCodecs(t *testing.T) {
	in := testPayload{
		Count:    213723152,
		Digest:   "ab12",
		Fleet:    []int{4, 4, 4, 3, 3, 3, 3, 3},
		Children: []testChild{{K: "a", V: 1}},
	}

	for _, name := range []string{"json", "go-json"} {
		t.Run(name, func(t *testing.T) {
			c, err := ByName(name)
			require.NoError(t, err)
			assert.Equal(t, name, c.Name())

			data, err := c.Marshal(in)
			require.NoError(t, err)

			var out testPayload
			require.NoError(t, c.Unmarshal(data, &out))
			assert.Equal(t, in, out)

			pretty, err := MarshalIndent(c, in)
			require.NoError(t, err)
			assert.Contains(t, string(pretty), "\n  \"count\": 213723152")
		})
	}

	_, err := ByName("msgpack")
	require.ErrorIs(t, err, ErrUnknownCodec)
	assert.Contains(t, err.Error(), "[go-json json]")

	c, err := ByName("")
	require.NoError(t, err)
	assert.Equal(t, Default, c)
	assert.Equal(t, []string{"go-json", "json"}, Names())
}

func TestCodecsAgree(t *testing.T) {
	in := testPayload{Count: 7, Fleet: []int{3}}
	std, err := JSON{}.Marshal(in)
	require.NoError(t, err)
	fast, err := GoJSON{}.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, std, fast)

	var back testPayload
	require.NoError(t, GoJSON{}.Unmarshal(std, &back))
	assert.Equal(t, in, back)
}

func BenchmarkMarshal(b *testing.B) {
	v := testPayload{Count: 213723152, Digest: "ab12", Fleet: []int{4, 4, 4, 3, 3, 3, 3, 3}}
	for _, c := range []Codec{JSON{}, GoJSON{}} {
		b.Run(c.Name(), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if _, err := c.Marshal(v); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
