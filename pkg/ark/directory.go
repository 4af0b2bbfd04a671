package ark

import (
	"github.com/klauspost/compress/zstd"

	"github.com/go-ark/arkengine/pkg/xxtea"
)

// EncodeDirectory serializes entries into the version-appropriate
// metadata blob: concatenated fixed-width records, Zstandard-compressed
// for v3/v4 (never for v1), then XXTEA-encrypted as a whole.
func EncodeDirectory(entries []FileMetadata, version Version, key xxtea.Key) ([]byte, error) {
	raw := make([]byte, 0, len(entries)*version.RecordSize())
	for _, m := range entries {
		raw = append(raw, packRecord(m, version)...)
	}

	if version != Version1 {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(9)))
		if err != nil {
			return nil, err
		}
		raw = enc.EncodeAll(raw, nil)
		enc.Close()
	}

	// A v1 archive with no entries has nothing to encrypt; the cipher
	// needs at least two words.
	if len(raw) == 0 {
		return nil, nil
	}

	return xxtea.Encrypt(raw, key)
}

// DecodeDirectory is the inverse of EncodeDirectory: it decrypts,
// decompresses (v3/v4 only), and splits the blob into count fixed-width
// records.
func DecodeDirectory(blob []byte, version Version, count uint32, key xxtea.Key) ([]FileMetadata, error) {
	if len(blob) == 0 {
		if count == 0 {
			return []FileMetadata{}, nil
		}
		return nil, ErrCorruptMetadata
	}

	raw, err := xxtea.Decrypt(blob, key)
	if err != nil {
		return nil, ErrCorruptMetadata
	}

	if version != Version1 {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		// Encryption padded the frame to a whole number of words, so up
		// to three bytes may follow it; try each possible frame length.
		var out []byte
		for pad := 0; pad < 4 && pad < len(raw); pad++ {
			out, err = dec.DecodeAll(raw[:len(raw)-pad], nil)
			if err == nil {
				break
			}
		}
		if err != nil {
			return nil, ErrCorruptMetadata
		}
		raw = out
	}

	recSize := version.RecordSize()
	if len(raw) < int(count)*recSize {
		return nil, ErrCorruptMetadata
	}

	entries := make([]FileMetadata, count)
	for i := range entries {
		m, err := unpackRecord(raw[i*recSize:(i+1)*recSize], version)
		if err != nil {
			return nil, ErrCorruptMetadata
		}
		entries[i] = m
	}
	return entries, nil
}
