package stt

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestEncodeWAV_Header(t *testing.T) {
	samples := make([]float32, 16000) // 1s of silence
	data, err := encodeWAV(samples, 16000)
	if err != nil {
		t.Fatalf("encodeWAV: %v", err)
	}

	if len(data) < 44 {
		t.Fatalf("wav too short: %d bytes", len(data))
	}
	if !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WAVE")) {
		t.Error("missing RIFF/WAVE markers")
	}

	rate := binary.LittleEndian.Uint32(data[24:28])
	if rate != 16000 {
		t.Errorf("sample rate = %d, want 16000", rate)
	}
	channels := binary.LittleEndian.Uint16(data[22:24])
	if channels != 1 {
		t.Errorf("channels = %d, want 1", channels)
	}
	bits := binary.LittleEndian.Uint16(data[34:36])
	if bits != 16 {
		t.Errorf("bit depth = %d, want 16", bits)
	}
}

func TestEncodeWAV_ClampsOutOfRange(t *testing.T) {
	data, err := encodeWAV([]float32{2.0, -2.0}, 16000)
	if err != nil {
		t.Fatalf("encodeWAV: %v", err)
	}

	// Last 4 bytes are the two 16-bit samples.
	hi := int16(binary.LittleEndian.Uint16(data[len(data)-4 : len(data)-2]))
	lo := int16(binary.LittleEndian.Uint16(data[len(data)-2:]))
	if hi != 32767 {
		t.Errorf("clamped high sample = %d, want 32767", hi)
	}
	if lo != -32767 {
		t.Errorf("clamped low sample = %d, want -32767", lo)
	}
}

func TestSeekBuffer_OverwriteMidStream(t *testing.T) {
	var b seekBuffer
	if _, err := b.Write([]byte("abcdef")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := b.Seek(1, 0); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if _, err := b.Write([]byte("XY")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if string(b.data) != "aXYdef" {
		t.Errorf("buffer = %q, want %q", b.data, "aXYdef")
	}
}
