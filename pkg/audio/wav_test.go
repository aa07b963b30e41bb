package audio

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
)

func TestEncodeWAVMatchesGolden(t *testing.T) {
	pcm := []byte{0x00, 0x00, 0xff, 0x7f, 0x00, 0x80, 0x34, 0x12}
	wav, err := EncodeWAV(pcm, DefaultSampleRate)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "wav_header_24k", []byte(hex.EncodeToString(wav)+"\n"))
}

func TestEncodeParseRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		pcm  []byte
		rate int
	}{
		{name: "empty", pcm: nil, rate: DefaultSampleRate},
		{name: "one sample", pcm: []byte{0x01, 0x02}, rate: 8000},
		{name: "one second at 24k", pcm: make([]byte, 48000), rate: DefaultSampleRate},
		{name: "odd length", pcm: []byte{1, 2, 3}, rate: 44100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wav, err := EncodeWAV(tc.pcm, tc.rate)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if len(wav) != HeaderSize+len(tc.pcm) {
				t.Fatalf("expected %d bytes, got %d", HeaderSize+len(tc.pcm), len(wav))
			}
			h, err := ParseHeader(wav)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if int(h.DataSize) != len(tc.pcm) {
				t.Fatalf("data size %d, want %d", h.DataSize, len(tc.pcm))
			}
			if int(h.SampleRate) != tc.rate {
				t.Fatalf("sample rate %d, want %d", h.SampleRate, tc.rate)
			}
			if h.RIFFSize != uint32(36+len(tc.pcm)) {
				t.Fatalf("riff size %d", h.RIFFSize)
			}
			if h.Format != 1 || h.Channels != 1 || h.BitsPerSample != 16 || h.BlockAlign != 2 {
				t.Fatalf("unexpected format fields %+v", h)
			}
			if h.ByteRate != uint32(tc.rate*2) {
				t.Fatalf("byte rate %d", h.ByteRate)
			}
			if string(wav[HeaderSize:]) != string(tc.pcm) {
				t.Fatalf("samples not copied verbatim")
			}
		})
	}
}

func TestEncodeWAVDoesNotAliasInput(t *testing.T) {
	pcm := []byte{9, 9}
	wav, err := EncodeWAV(pcm, DefaultSampleRate)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	pcm[0] = 0
	if wav[HeaderSize] != 9 {
		t.Fatalf("output shares memory with input")
	}
}

func TestEncodeWAVRejectsBadRate(t *testing.T) {
	for _, rate := range []int{0, -1} {
		if _, err := EncodeWAV([]byte{0, 0}, rate); err == nil {
			t.Fatalf("expected error for rate %d", rate)
		}
	}
}

func TestParseHeaderErrors(t *testing.T) {
	if _, err := ParseHeader(make([]byte, 10)); !errors.Is(err, ErrShortHeader) {
		t.Fatalf("expected ErrShortHeader, got %v", err)
	}
	if _, err := ParseHeader(make([]byte, HeaderSize)); !errors.Is(err, ErrNotWAV) {
		t.Fatalf("expected ErrNotWAV, got %v", err)
	}
}

func TestDurationMillis(t *testing.T) {
	wav, err := EncodeWAV(make([]byte, 48000), DefaultSampleRate)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	h, _ := ParseHeader(wav)
	if got := h.DurationMillis(); got != 1000 {
		t.Fatalf("expected 1000ms, got %d", got)
	}
	if (Header{}).DurationMillis() != 0 {
		t.Fatalf("zero header should report zero duration")
	}
}
