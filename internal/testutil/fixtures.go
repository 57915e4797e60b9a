package testutil

import (
	"encoding/binary"
)

// RawSound builds a raw game-format buffer. length and loop are header word
// counts; the payload must hold (length+loop)*2 bytes to be fully playable.
func RawSound(length, loop uint16, payload []byte) []byte {
	buf := make([]byte, 8, 8+len(payload))
	binary.BigEndian.PutUint16(buf[0:], length)
	binary.BigEndian.PutUint16(buf[2:], loop)
	return append(buf, payload...)
}

// Chunk is one RIFF sub-chunk for WAVBytes.
type Chunk struct {
	ID   string
	Data []byte
}

// FmtChunk builds a "fmt " chunk. When short is set the bits-per-sample
// field is omitted, as in early WAV files.
func FmtChunk(tag, channels uint16, rate uint32, bits uint16, short bool) Chunk {
	blockAlign := channels * bits / 8
	d := make([]byte, 16)
	binary.LittleEndian.PutUint16(d[0:], tag)
	binary.LittleEndian.PutUint16(d[2:], channels)
	binary.LittleEndian.PutUint32(d[4:], rate)
	binary.LittleEndian.PutUint32(d[8:], rate*uint32(blockAlign))
	binary.LittleEndian.PutUint16(d[12:], blockAlign)
	binary.LittleEndian.PutUint16(d[14:], bits)
	if short {
		d = d[:14]
	}
	return Chunk{ID: "fmt ", Data: d}
}

// DataChunk builds a "data" chunk.
func DataChunk(pcm []byte) Chunk {
	return Chunk{ID: "data", Data: pcm}
}

// WAVBytes assembles a RIFF/WAVE container from chunks, padding odd chunks.
func WAVBytes(chunks ...Chunk) []byte {
	body := []byte("WAVE")
	for _, c := range chunks {
		var hdr [8]byte
		copy(hdr[:4], c.ID)
		binary.LittleEndian.PutUint32(hdr[4:], uint32(len(c.Data)))
		body = append(body, hdr[:]...)
		body = append(body, c.Data...)
		if len(c.Data)&1 != 0 {
			body = append(body, 0)
		}
	}
	out := make([]byte, 8, 8+len(body))
	copy(out, "RIFF")
	binary.LittleEndian.PutUint32(out[4:], uint32(len(body)))
	return append(out, body...)
}

// PCM16 encodes samples as little-endian 16-bit PCM.
func PCM16(samples ...int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

// AIFFBytes builds a FORM/AIFF container of big-endian 16-bit PCM at
// 44100 Hz.
func AIFFBytes(channels uint16, samples ...int16) []byte {
	comm := make([]byte, 18)
	binary.BigEndian.PutUint16(comm[0:], channels)
	binary.BigEndian.PutUint32(comm[2:], uint32(len(samples)/int(channels)))
	binary.BigEndian.PutUint16(comm[6:], 16)
	// 44100 as an 80-bit IEEE extended float.
	copy(comm[8:], []byte{0x40, 0x0E, 0xAC, 0x44, 0, 0, 0, 0, 0, 0})

	ssnd := make([]byte, 8+2*len(samples))
	for i, s := range samples {
		binary.BigEndian.PutUint16(ssnd[8+2*i:], uint16(s))
	}

	body := []byte("AIFF")
	for _, c := range []Chunk{{"COMM", comm}, {"SSND", ssnd}} {
		var hdr [8]byte
		copy(hdr[:4], c.ID)
		binary.BigEndian.PutUint32(hdr[4:], uint32(len(c.Data)))
		body = append(body, hdr[:]...)
		body = append(body, c.Data...)
	}
	out := make([]byte, 8, 8+len(body))
	copy(out, "FORM")
	binary.BigEndian.PutUint32(out[4:], uint32(len(body)))
	return append(out, body...)
}
