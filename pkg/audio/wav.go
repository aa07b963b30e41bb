// Package audio wraps raw speech samples in a playable container.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	// HeaderSize is the length of the canonical RIFF/WAVE header.
	HeaderSize = 44
	// DefaultSampleRate is the rate speech synthesis returns samples at.
	DefaultSampleRate = 24000

	channels      = 1
	bitsPerSample = 16
	blockAlign    = channels * bitsPerSample / 8
	formatPCM     = 1
	fmtChunkSize  = 16
)

var (
	ErrShortHeader = errors.New("wav: header shorter than 44 bytes")
	ErrNotWAV      = errors.New("wav: missing RIFF/WAVE markers")
)

// Header is the decoded form of a canonical WAV header.
type Header struct {
	RIFFSize      uint32
	Format        uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataSize      uint32
}

// EncodeWAV returns pcm (mono, 16-bit little-endian) behind a 44-byte header.
// The result is always HeaderSize+len(pcm) bytes.
func EncodeWAV(pcm []byte, sampleRate int) ([]byte, error) {
	if sampleRate <= 0 || sampleRate > math.MaxUint32/blockAlign {
		return nil, fmt.Errorf("wav: invalid sample rate %d", sampleRate)
	}
	if uint64(len(pcm)) > math.MaxUint32-36 {
		return nil, fmt.Errorf("wav: %d bytes of pcm exceeds container limit", len(pcm))
	}
	n := uint32(len(pcm))
	rate := uint32(sampleRate)

	out := make([]byte, HeaderSize+len(pcm))
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], 36+n)
	copy(out[8:12], "WAVE")
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], fmtChunkSize)
	binary.LittleEndian.PutUint16(out[20:22], formatPCM)
	binary.LittleEndian.PutUint16(out[22:24], channels)
	binary.LittleEndian.PutUint32(out[24:28], rate)
	binary.LittleEndian.PutUint32(out[28:32], rate*blockAlign)
	binary.LittleEndian.PutUint16(out[32:34], blockAlign)
	binary.LittleEndian.PutUint16(out[34:36], bitsPerSample)
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], n)
	copy(out[HeaderSize:], pcm)
	return out, nil
}

// ParseHeader reads back the header written by EncodeWAV.
func ParseHeader(wav []byte) (Header, error) {
	if len(wav) < HeaderSize {
		return Header{}, ErrShortHeader
	}
	if !bytes.Equal(wav[0:4], []byte("RIFF")) || !bytes.Equal(wav[8:12], []byte("WAVE")) ||
		!bytes.Equal(wav[12:16], []byte("fmt ")) || !bytes.Equal(wav[36:40], []byte("data")) {
		return Header{}, ErrNotWAV
	}
	le := binary.LittleEndian
	return Header{
		RIFFSize:      le.Uint32(wav[4:8]),
		Format:        le.Uint16(wav[20:22]),
		Channels:      le.Uint16(wav[22:24]),
		SampleRate:    le.Uint32(wav[24:28]),
		ByteRate:      le.Uint32(wav[28:32]),
		BlockAlign:    le.Uint16(wav[32:34]),
		BitsPerSample: le.Uint16(wav[34:36]),
		DataSize:      le.Uint32(wav[40:44]),
	}, nil
}

// Duration of the data chunk in milliseconds.
func (h Header) DurationMillis() int64 {
	if h.ByteRate == 0 {
		return 0
	}
	return int64(h.DataSize) * 1000 / int64(h.ByteRate)
}
