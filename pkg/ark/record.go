package ark

import (
	"encoding/binary"
)

// packHeader serializes h into the version-appropriate header layout.
func packHeader(h Header) []byte {
	buf := make([]byte, h.Version.HeaderSize())
	binary.LittleEndian.PutUint32(buf[0:4], h.FileCount)
	binary.LittleEndian.PutUint32(buf[4:8], h.MetadataOffset)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(h.Version))
	if h.Version != Version1 {
		binary.LittleEndian.PutUint32(buf[12:16], h.MetadataLength)
		copy(buf[16:32], h.Reserved[:])
	}
	return buf
}

// unpackHeader reads a Header from the first bytes of buf. The version
// field at offset 8 determines whether the remaining 20 v3/v4 bytes are
// present; callers must supply at least v3v4HeaderSize bytes when unsure.
func unpackHeader(buf []byte) (Header, error) {
	if len(buf) < v1HeaderSize {
		return Header{}, ErrInvalidLength
	}
	var h Header
	h.FileCount = binary.LittleEndian.Uint32(buf[0:4])
	h.MetadataOffset = binary.LittleEndian.Uint32(buf[4:8])
	h.Version = Version(binary.LittleEndian.Uint32(buf[8:12]))

	switch h.Version {
	case Version1:
		return h, nil
	case Version3, Version4:
		if len(buf) < v3v4HeaderSize {
			return Header{}, ErrInvalidLength
		}
		h.MetadataLength = binary.LittleEndian.Uint32(buf[12:16])
		copy(h.Reserved[:], buf[16:32])
		return h, nil
	default:
		return Header{}, ErrUnsupportedVersion
	}
}

// packRecord serializes one FileMetadata entry per the version's on-disk
// layout. Filename/Pathname are NUL-padded into their fixed-width fields
// and truncated (never NUL-terminated beyond the field) if too long.
func packRecord(m FileMetadata, version Version) []byte {
	buf := make([]byte, version.RecordSize())

	putFixedString(buf[0:filenameFieldSize], m.Filename)
	off := filenameFieldSize
	putFixedString(buf[off:off+pathnameFieldSize], m.Pathname)
	off += pathnameFieldSize

	binary.LittleEndian.PutUint32(buf[off:], m.FileLocation)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], m.OriginalSize)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], m.CompressedSize)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], m.EncryptedSize)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], m.Timestamp)
	off += 4

	if version == Version4 {
		binary.LittleEndian.PutUint32(buf[off:], m.Unknown1)
		off += 4
		copy(buf[off:off+40], m.Unknown2[:])
		off += 40
	}

	copy(buf[off:off+16], m.MD5Sum[:])
	off += 16
	binary.LittleEndian.PutUint32(buf[off:], m.Priority)

	return buf
}

// unpackRecord is the inverse of packRecord.
func unpackRecord(buf []byte, version Version) (FileMetadata, error) {
	if len(buf) < version.RecordSize() {
		return FileMetadata{}, ErrInvalidLength
	}

	var m FileMetadata
	m.Filename = readFixedString(buf[0:filenameFieldSize])
	off := filenameFieldSize
	m.Pathname = readFixedString(buf[off : off+pathnameFieldSize])
	off += pathnameFieldSize

	m.FileLocation = binary.LittleEndian.Uint32(buf[off:])
	off += 4
	m.OriginalSize = binary.LittleEndian.Uint32(buf[off:])
	off += 4
	m.CompressedSize = binary.LittleEndian.Uint32(buf[off:])
	off += 4
	m.EncryptedSize = binary.LittleEndian.Uint32(buf[off:])
	off += 4
	m.Timestamp = binary.LittleEndian.Uint32(buf[off:])
	off += 4

	if version == Version4 {
		m.Unknown1 = binary.LittleEndian.Uint32(buf[off:])
		off += 4
		copy(m.Unknown2[:], buf[off:off+40])
		off += 40
	}

	copy(m.MD5Sum[:], buf[off:off+16])
	off += 16
	m.Priority = binary.LittleEndian.Uint32(buf[off:])

	return m, nil
}

// putFixedString writes s into dst, NUL-padding or truncating to len(dst).
func putFixedString(dst []byte, s string) {
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

// readFixedString reads a NUL-terminated (or fully-occupied) string out
// of a fixed-width field.
func readFixedString(src []byte) string {
	for i, b := range src {
		if b == 0 {
			return string(src[:i])
		}
	}
	return string(src)
}
