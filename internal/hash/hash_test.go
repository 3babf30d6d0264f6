package hash

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC32C(t *testing.T) {
	// Known answer for the CRC32C check string.
	assert.Equal(t, uint32(0xE3069283), CRC32C([]byte("123456789")))

	var c FileChecksum
	_, _ = io.Copy(&c, strings.NewReader("123456789"))
	assert.Equal(t, CRC32C([]byte("123456789")), c.Sum32())
}

func TestFileChecksum(t *testing.T) {
	var c FileChecksum
	assert.Zero(t, c.Sum32())
	assert.Zero(t, c.Size())

	_, _ = c.Write([]byte("1234"))
	_, _ = c.Write(nil)
	_, _ = c.Write([]byte("56789"))
	assert.Equal(t, uint32(0xE3069283), c.Sum32())
	assert.Equal(t, int64(9), c.Size())
}

func TestContentDigest(t *testing.T) {
	d := NewContentDigest()
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", d.Hex())

	_, _ = d.Write([]byte("abc"))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", d.Hex())
}
