package metadata

import (
	"bytes"
	"math"
)

// SniffMIME detects a content type from the payload's magic bytes.
// Returns empty when no known signature matches.
func SniffMIME(data []byte) string {
	if len(data) < 4 {
		return ""
	}
	switch {
	case bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G'}):
		return "image/png"
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return "image/jpeg"
	case bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a")):
		return "image/gif"
	case bytes.HasPrefix(data, []byte("BM")):
		return "image/bmp"
	case bytes.HasPrefix(data, []byte("%PDF")):
		return "application/pdf"
	case bytes.HasPrefix(data, []byte("OggS")):
		return "audio/ogg"
	case bytes.HasPrefix(data, []byte("ID3")) || bytes.HasPrefix(data, []byte{0xFF, 0xFB}):
		return "audio/mpeg"
	case bytes.HasPrefix(data, []byte("fLaC")):
		return "audio/flac"
	case bytes.HasPrefix(data, []byte("RIFF")) && len(data) >= 12:
		switch string(data[8:12]) {
		case "WAVE":
			return "audio/wav"
		case "WEBP":
			return "image/webp"
		case "AVI ":
			return "video/x-msvideo"
		}
		return ""
	case len(data) >= 12 && bytes.Equal(data[4:8], []byte("ftyp")):
		return "video/mp4"
	case bytes.HasPrefix(data, []byte{0x1A, 0x45, 0xDF, 0xA3}):
		return "video/webm"
	case bytes.HasPrefix(data, []byte("PK")):
		return "application/zip"
	case bytes.HasPrefix(data, []byte{0xD0, 0xCF, 0x11, 0xE0}):
		return "application/x-ole-storage"
	}
	return ""
}

// entropySample bounds the bytes fed to the entropy estimate; the first
// window is representative enough for a coarse classification.
const entropySample = 64 * 1024

// CompressionEstimate classifies the payload by Shannon entropy:
// already-compressed data sits near 8 bits/byte, flat data much lower.
func CompressionEstimate(data []byte) string {
	if len(data) == 0 {
		return "unknown"
	}
	sample := data
	if len(sample) > entropySample {
		sample = sample[:entropySample]
	}
	var counts [256]int
	for _, b := range sample {
		counts[b]++
	}
	total := float64(len(sample))
	entropy := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		entropy -= p * math.Log2(p)
	}
	switch {
	case entropy > 7.5:
		return "compressed"
	case entropy > 6.0:
		return "partial"
	default:
		return "uncompressed"
	}
}

// SizeClass buckets a byte count into a coarse size classification.
func SizeClass(size int64) string {
	switch {
	case size < 10<<10:
		return "tiny"
	case size < 100<<10:
		return "small"
	case size < 1<<20:
		return "medium"
	case size < 10<<20:
		return "large"
	default:
		return "huge"
	}
}
