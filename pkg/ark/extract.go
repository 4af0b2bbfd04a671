package ark

import (
	"bytes"
	"crypto/md5"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"

	"github.com/go-ark/arkengine/pkg/xxtea"
)

// ReadFile extracts and decodes the payload stored at path: decrypt (if
// Encrypted), decompress (if Compressed, using Zlib for v1 and
// Zstandard for v3/v4), then truncate to OriginalSize.
//
// A payload whose MD5 doesn't match the directory's recorded sum is
// still returned in full. LogicalFile.IntegrityOK reports the
// mismatch rather than failing the call, matching the archive's own
// tolerance for partially-corrupt entries.
func (a *Archive) ReadFile(path string) (LogicalFile, error) {
	if err := a.checkOpen(); err != nil {
		return LogicalFile{}, err
	}
	i, ok := a.byPath[path]
	if !ok {
		return LogicalFile{}, ErrNotFound
	}
	m := a.entries[i]

	var raw []byte
	if ov, ok := a.overrides[path]; ok {
		raw = ov
	} else {
		raw = make([]byte, m.OnDiskSize())
		if _, err := a.src.ReadAt(raw, a.sourceOffset[i]); err != nil {
			return LogicalFile{}, err
		}
	}

	decoded, err := decodePayload(raw, m, a.header.Version, a.key)
	if err != nil {
		return LogicalFile{}, err
	}

	sum := md5.Sum(decoded)
	return LogicalFile{
		Path:          path,
		Bytes:         decoded,
		WasCompressed: m.Compressed(),
		WasEncrypted:  m.Encrypted(),
		Priority:      m.Priority,
		Timestamp:     m.Timestamp,
		IntegrityOK:   bytes.Equal(sum[:], m.MD5Sum[:]),
	}, nil
}

// decodePayload reverses the on-disk transforms applied to one entry's
// bytes: XXTEA decryption first (outermost transform on disk), then
// decompression, then truncation to the recorded original size.
func decodePayload(raw []byte, m FileMetadata, version Version, key xxtea.Key) ([]byte, error) {
	data := raw

	if m.Encrypted() {
		dec, err := xxtea.Decrypt(data, key)
		if err != nil {
			return nil, err
		}
		data = dec
	}

	if m.Compressed() {
		// Encryption pads to a whole word; the compressed stream is only
		// the first CompressedSize bytes.
		if uint32(len(data)) > m.CompressedSize {
			data = data[:m.CompressedSize]
		}
		decompressed, err := decompress(data, version)
		if err != nil {
			return nil, err
		}
		data = decompressed
	}

	if uint32(len(data)) < m.OriginalSize {
		return nil, ErrCorruptMetadata
	}
	return data[:m.OriginalSize], nil
}

func decompress(data []byte, version Version) ([]byte, error) {
	if version == Version1 {
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

// encodePayload applies compression (per version, if requested) and
// XXTEA encryption (if requested) to produce the bytes that will be
// written to the payload region, along with the metadata sizes that
// describe them.
func encodePayload(plain []byte, version Version, compress, encrypt bool, key xxtea.Key) (onDisk []byte, compressedSize, encryptedSize uint32, err error) {
	data := plain
	compressedSize = uint32(len(data))

	if compress {
		data, err = compressPayload(data, version)
		if err != nil {
			return nil, 0, 0, err
		}
		compressedSize = uint32(len(data))
	}

	if encrypt {
		data, err = xxtea.Encrypt(data, key)
		if err != nil {
			return nil, 0, 0, err
		}
		encryptedSize = uint32(len(data))
	}

	return data, compressedSize, encryptedSize, nil
}

func compressPayload(data []byte, version Version) ([]byte, error) {
	if version == Version1 {
		var buf bytes.Buffer
		w := zlib.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(9)))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}
