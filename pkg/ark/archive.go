package ark

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"sort"

	"github.com/go-ark/arkengine/pkg/xxtea"
)

// Archive is a handle on an open .ark container: its header, its
// metadata directory, and the underlying byte source used to satisfy
// reads and (on Write) a full rewrite. The source is a file when
// opened with Open and an in-memory buffer when opened with
// OpenReaderAt.
type Archive struct {
	// path and closer are empty/nil for in-memory sources.
	path   string
	src    io.ReaderAt
	closer io.Closer
	key    xxtea.Key
	header Header

	entries []FileMetadata
	byPath  map[string]int

	// sourceOffset[i] is where entries[i]'s on-disk bytes currently live
	// in the originally-opened source, valid only when overrides[path]
	// is absent. AddFile updates entries[i].FileLocation to its new
	// layout position immediately but leaves sourceOffset pointing at
	// the old bytes until a write flushes everything out.
	sourceOffset []int64
	overrides    map[string][]byte // path -> new on-disk (encoded) bytes
	dirty        bool

	closed bool
}

// Open opens path using the default archive-wide XXTEA key.
func Open(path string) (*Archive, error) {
	return OpenWithKey(path, xxtea.Key(DefaultKey))
}

// OpenWithKey opens path, parsing its header and metadata directory. The
// returned Archive owns the file exclusively until Close.
func OpenWithKey(path string, key xxtea.Key) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	a, err := newArchive(f, info.Size(), key)
	if err != nil {
		f.Close()
		return nil, err
	}
	a.path = path
	a.closer = f
	return a, nil
}

// OpenReaderAt parses an archive held in an arbitrary byte source (an
// in-memory buffer, a section of a larger file) using the default key.
// size is the total archive length in bytes.
func OpenReaderAt(r io.ReaderAt, size int64) (*Archive, error) {
	return OpenReaderAtWithKey(r, size, xxtea.Key(DefaultKey))
}

// OpenReaderAtWithKey is OpenReaderAt with an explicit XXTEA key. The
// returned Archive has no backing path: Write fails, but WriteTo and
// WriteFile work as usual.
func OpenReaderAtWithKey(r io.ReaderAt, size int64, key xxtea.Key) (*Archive, error) {
	return newArchive(r, size, key)
}

func newArchive(r io.ReaderAt, size int64, key xxtea.Key) (*Archive, error) {
	header, entries, err := readArchive(r, size, key)
	if err != nil {
		return nil, err
	}

	byPath := make(map[string]int, len(entries))
	sourceOffset := make([]int64, len(entries))
	for i, m := range entries {
		byPath[m.Path()] = i
		sourceOffset[i] = int64(m.FileLocation)
	}

	return &Archive{
		src:          r,
		key:          key,
		header:       header,
		entries:      entries,
		byPath:       byPath,
		sourceOffset: sourceOffset,
		overrides:    make(map[string][]byte),
	}, nil
}

// Version reports the archive's on-disk format version.
func (a *Archive) Version() Version { return a.header.Version }

// Files returns the logical paths of every entry, in directory order
// (not archive-filename priority order; use SortedPaths for that).
func (a *Archive) Files() []string {
	paths := make([]string, len(a.entries))
	for i, m := range a.entries {
		paths[i] = m.Path()
	}
	return paths
}

// Entries returns a copy of every metadata record, in directory order.
// Mutating the returned slice does not affect the archive.
func (a *Archive) Entries() []FileMetadata {
	out := make([]FileMetadata, len(a.entries))
	copy(out, a.entries)
	return out
}

// Stat returns the metadata record for path without reading its payload.
func (a *Archive) Stat(path string) (FileMetadata, error) {
	i, ok := a.byPath[path]
	if !ok {
		return FileMetadata{}, ErrNotFound
	}
	return a.entries[i], nil
}

// Close releases the underlying file descriptor, if any. It is safe to
// call multiple times.
func (a *Archive) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

func (a *Archive) checkOpen() error {
	if a.closed {
		return ErrClosed
	}
	return nil
}

// dataVersionEntry is the well-known logical path carrying the archive
// set's data version stamp.
const dataVersionEntry = "data_ver.xml"

// DataVersion extracts the archive's data_ver.xml entry (if present)
// and returns its root element's Value attribute. Archives without the
// entry return "" with a nil error, since most do not carry one.
func (a *Archive) DataVersion() (string, error) {
	if err := a.checkOpen(); err != nil {
		return "", err
	}
	if _, ok := a.byPath[dataVersionEntry]; !ok {
		return "", nil
	}
	lf, err := a.ReadFile(dataVersionEntry)
	if err != nil {
		return "", err
	}

	// The root element's name varies between archive sets; only its
	// Value attribute is meaningful.
	dec := xml.NewDecoder(bytes.NewReader(lf.Bytes))
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return "", nil
			}
			return "", err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		for _, attr := range se.Attr {
			if attr.Name.Local == "Value" {
				return attr.Value, nil
			}
		}
		return "", nil
	}
}

// SortedPaths returns every logical path ordered by ParseArchiveFilename
// priority rules, falling back to a plain string comparison for paths
// that don't parse as archive filenames.
func (a *Archive) SortedPaths() []string {
	paths := a.Files()
	sort.Slice(paths, func(i, j int) bool {
		return LessArchiveFilename(paths[i], paths[j])
	})
	return paths
}
