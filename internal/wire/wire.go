package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version   byte = 1
	kindEntry byte = 1
)

var (
	ErrCorrupt = errors.New("verstore: corrupt entry")
	magic4     = [...]byte{'V', 'S', 'T', 'E'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Header is the metadata stored in front of every payload.
type Header struct {
	CreatedAt int64 // epoch ms
	Version   string
}

// Entry: magic(4) | ver(1) | kind(1=entry) | createdAt(i64 be) | verLen(u16 be) | version(verLen) | vlen(u32 be) | payload(vlen)
func EncodeEntry(h Header, payload []byte) []byte {
	if len(h.Version) > 0xFFFF {
		panic("verstore: version string too long")
	}

	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 8 + 2 + len(h.Version) + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindEntry)

	var u8 [8]byte
	var u4 [4]byte
	var u2 [2]byte

	binary.BigEndian.PutUint64(u8[:], uint64(h.CreatedAt))
	buf.Write(u8[:])

	binary.BigEndian.PutUint16(u2[:], uint16(len(h.Version)))
	buf.Write(u2[:])
	buf.WriteString(h.Version)

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// DecodeHeader parses only the metadata. Sweeps use it to avoid touching payloads.
func DecodeHeader(b []byte) (Header, error) {
	h, _, err := DecodeEntry(b)
	return h, err
}

func DecodeEntry(b []byte) (Header, []byte, error) {
	const fixed = 4 + 1 + 1 + 8 + 2
	if len(b) < fixed || !hasMagic(b) || b[4] != version || b[5] != kindEntry {
		return Header{}, nil, ErrCorrupt
	}

	off := 6

	// createdAt
	createdAt := int64(binary.BigEndian.Uint64(b[off : off+8]))
	off += 8

	// version
	vl := int(binary.BigEndian.Uint16(b[off : off+2]))
	off += 2
	if vl > len(b)-off {
		return Header{}, nil, ErrCorrupt
	}
	ver := string(b[off : off+vl])
	off += vl

	// payload
	if off+4 > len(b) {
		return Header{}, nil, ErrCorrupt
	}
	plen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if plen < 0 || plen != len(b)-off { // exact: no trailing bytes
		return Header{}, nil, ErrCorrupt
	}

	return Header{CreatedAt: createdAt, Version: ver}, b[off : off+plen], nil
}
