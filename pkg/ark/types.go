// Package ark reads, mutates, and rewrites .ark archives: a header, a
// payload region, and an XXTEA-encrypted (optionally Zstandard-compressed)
// metadata directory describing where each logical file lives.
//
// Three on-disk versions are supported: v1 (raw, uncompressed metadata,
// Zlib payload compression) and v3/v4 (Zstandard-compressed metadata and
// payloads, differing only in 44 bytes of opaque per-entry data carried by
// v4). All three round-trip losslessly through Open/Write.
package ark

import "time"

// Version identifies the on-disk archive format.
type Version uint32

const (
	Version1 Version = 1
	Version3 Version = 3
	Version4 Version = 4
)

// HeaderSize returns the serialized header size for this version.
func (v Version) HeaderSize() int {
	if v == Version1 {
		return v1HeaderSize
	}
	return v3v4HeaderSize
}

// RecordSize returns the serialized per-entry metadata record size for
// this version.
func (v Version) RecordSize() int {
	if v == Version4 {
		return v4RecordSize
	}
	return v1v3RecordSize
}

const (
	v1HeaderSize   = 12
	v3v4HeaderSize = 32

	filenameFieldSize = 128
	pathnameFieldSize = 128

	v1v3RecordSize = filenameFieldSize + pathnameFieldSize + 4*5 + 16 + 4 // 296
	v4ExtraSize    = 4 + 40                                              // unknown1 + unknown2
	v4RecordSize   = v1v3RecordSize + v4ExtraSize                        // 340
)

// DefaultKey is the archive-wide XXTEA key used by every known .ark
// archive in the wild. Callers that know an archive uses a non-default
// key pass it to OpenWithKey or OpenReaderAtWithKey; the Archive then
// uses that key for both reading and writing.
var DefaultKey = [4]uint32{0x3d5b2a34, 0x923fff10, 0x00e346a4, 0x0c74902b}

// Header is the unified, version-agnostic archive header.
type Header struct {
	Version        Version
	FileCount      uint32
	MetadataOffset uint32
	MetadataLength uint32 // 0 for v1, where it's derived from EOF instead
	Reserved       [16]byte
}

// FileMetadata describes one logical file packed into the archive.
type FileMetadata struct {
	Filename string // base filename, e.g. "b.bin"
	Pathname string // directory portion, e.g. "dir"

	FileLocation   uint32 // byte offset from start of archive
	OriginalSize   uint32 // uncompressed payload size
	CompressedSize uint32 // size after compression; == OriginalSize if uncompressed
	EncryptedSize  uint32 // size after encryption, or 0 if not encrypted
	Timestamp      uint32 // Unix seconds
	MD5Sum         [16]byte
	Priority       uint32

	// Unknown1/Unknown2 are opaque v4-only bytes preceding MD5Sum on disk.
	// They are never interpreted, only round-tripped.
	Unknown1 uint32
	Unknown2 [40]byte
}

// Path returns the logical "pathname/filename" path, joined with '/'
// regardless of host OS.
func (m *FileMetadata) Path() string {
	if m.Pathname == "" {
		return m.Filename
	}
	return m.Pathname + "/" + m.Filename
}

// SetPath splits a logical path into Pathname/Filename.
func (m *FileMetadata) SetPath(path string) {
	slash := -1
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			slash = i
			break
		}
	}
	if slash < 0 {
		m.Pathname = ""
		m.Filename = path
		return
	}
	m.Pathname = path[:slash]
	m.Filename = path[slash+1:]
}

// OnDiskSize is the number of bytes this entry actually occupies in the
// payload region: the encrypted size if encrypted, else the compressed
// size.
func (m *FileMetadata) OnDiskSize() uint32 {
	if m.EncryptedSize != 0 {
		return m.EncryptedSize
	}
	return m.CompressedSize
}

// Compressed reports whether the payload underwent compression.
func (m *FileMetadata) Compressed() bool {
	return m.CompressedSize != m.OriginalSize
}

// Encrypted reports whether the payload underwent XXTEA encryption.
func (m *FileMetadata) Encrypted() bool {
	return m.EncryptedSize != 0
}

// Time returns Timestamp as a time.Time in the local zone, matching the
// Unix-seconds convention used by every archive version.
func (m *FileMetadata) Time() time.Time {
	return time.Unix(int64(m.Timestamp), 0)
}

// PutFlags configures how AddFile encodes a new or replacement payload.
type PutFlags struct {
	Compress  bool
	Encrypt   bool
	Priority  uint32
	Timestamp uint32 // Unix seconds; 0 means "now" at call time
}

// LogicalFile is the result of extracting one entry: its logical path,
// decoded bytes, and the flags recorded in its metadata.
type LogicalFile struct {
	Path          string
	Bytes         []byte
	WasCompressed bool
	WasEncrypted  bool
	Priority      uint32
	Timestamp     uint32

	// IntegrityOK is false when the extracted bytes' MD5 does not match
	// the directory's recorded md5sum. The bytes are still returned;
	// this is a recoverable warning, not a fatal error.
	IntegrityOK bool
}
