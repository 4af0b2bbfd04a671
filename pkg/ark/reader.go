package ark

import (
	"io"

	"github.com/go-ark/arkengine/pkg/xxtea"
)

// readArchive parses the header and metadata directory of an archive
// held in r, whose total length is size bytes.
func readArchive(r io.ReaderAt, size int64, key xxtea.Key) (Header, []FileMetadata, error) {
	probe := make([]byte, v3v4HeaderSize)
	n, err := r.ReadAt(probe, 0)
	if err != nil && err != io.EOF {
		return Header{}, nil, err
	}
	probe = probe[:n]

	header, err := unpackHeader(probe)
	if err != nil {
		return Header{}, nil, err
	}

	metaLen := header.MetadataLength
	if header.Version == Version1 {
		metaLen = uint32(size) - header.MetadataOffset
	}

	blob := make([]byte, metaLen)
	if metaLen > 0 {
		if _, err := r.ReadAt(blob, int64(header.MetadataOffset)); err != nil {
			return Header{}, nil, err
		}
	}

	entries, err := DecodeDirectory(blob, header.Version, header.FileCount, key)
	if err != nil {
		return Header{}, nil, err
	}

	return header, entries, nil
}
