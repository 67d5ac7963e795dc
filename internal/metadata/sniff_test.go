package metadata

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSniffMIME(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, "image/png"},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, "image/jpeg"},
		{"gif", []byte("GIF89a....."), "image/gif"},
		{"pdf", []byte("%PDF-1.7"), "application/pdf"},
		{"wav", []byte("RIFF\x24\x08\x00\x00WAVEfmt "), "audio/wav"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "image/webp"},
		{"riff unknown", []byte("RIFF\x00\x00\x00\x00XXXX"), ""},
		{"mp4", []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm'}, "video/mp4"},
		{"webm", []byte{0x1A, 0x45, 0xDF, 0xA3, 0x01, 0x00}, "video/webm"},
		{"mp3 id3", []byte("ID3\x04\x00"), "audio/mpeg"},
		{"ogg", []byte("OggS\x00\x02"), "audio/ogg"},
		{"zip", []byte("PK\x03\x04"), "application/zip"},
		{"ole", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1}, "application/x-ole-storage"},
		{"unknown", []byte("hello world"), ""},
		{"too short", []byte{0x89, 'P'}, ""},
		{"empty", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SniffMIME(tc.data))
		})
	}
}

func TestCompressionEstimate(t *testing.T) {
	// Uniform over all 256 byte values: 8 bits per byte.
	high := make([]byte, 0, 256*16)
	for i := 0; i < 16; i++ {
		for b := 0; b < 256; b++ {
			high = append(high, byte(b))
		}
	}
	assert.Equal(t, "compressed", CompressionEstimate(high))

	// Uniform over 128 values: exactly 7 bits per byte.
	mid := make([]byte, 0, 128*16)
	for i := 0; i < 16; i++ {
		for b := 0; b < 128; b++ {
			mid = append(mid, byte(b))
		}
	}
	assert.Equal(t, "partial", CompressionEstimate(mid))

	assert.Equal(t, "uncompressed", CompressionEstimate(bytes.Repeat([]byte{0x00}, 4096)))
	assert.Equal(t, "unknown", CompressionEstimate(nil))
}

func TestSizeClass(t *testing.T) {
	assert.Equal(t, "tiny", SizeClass(5<<10))
	assert.Equal(t, "small", SizeClass(50<<10))
	assert.Equal(t, "medium", SizeClass(500<<10))
	assert.Equal(t, "large", SizeClass(5<<20))
	assert.Equal(t, "huge", SizeClass(50<<20))
	assert.Equal(t, "tiny", SizeClass(0))
}
