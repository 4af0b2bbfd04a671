package ark

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Write flushes every pending AddFile change back to the path the
// archive was opened from. It is equivalent to WriteFile with that
// path; archives opened from memory have no path and return ErrNoPath.
func (a *Archive) Write() error {
	if a.path == "" {
		return ErrNoPath
	}
	return a.WriteFile(a.path)
}

// WriteFile assembles the header, payload region, and metadata
// directory from the archive's current in-memory state and atomically
// replaces dest: the new content is built in a temporary file in the
// same directory, then renamed over dest, so a crash mid-write never
// leaves a truncated archive in its place.
//
// On success, the Archive reopens dest as its backing file and clears
// all pending overrides; further reads and writes operate on the
// freshly written content.
func (a *Archive) WriteFile(dest string) error {
	if err := a.checkOpen(); err != nil {
		return err
	}

	out, err := a.assemble()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".ark-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return err
	}

	return a.reopen(dest)
}

// WriteTo assembles the archive and streams it to w, implementing
// io.WriterTo. Nothing reaches w until the full output is built in
// memory, so a failed assembly leaves w untouched.
//
// On success, the assembled bytes become the archive's backing source
// (replacing the originally opened file or buffer) and all pending
// overrides are cleared.
func (a *Archive) WriteTo(w io.Writer) (int64, error) {
	if err := a.checkOpen(); err != nil {
		return 0, err
	}

	out, err := a.assemble()
	if err != nil {
		return 0, err
	}

	n, err := w.Write(out)
	if err != nil {
		return int64(n), err
	}

	return int64(n), a.adopt(bytes.NewReader(out), int64(len(out)))
}

// assemble builds the complete on-disk image: header, payload region,
// metadata directory. It also settles the header fields that depend on
// the directory's encoded size.
func (a *Archive) assemble() ([]byte, error) {
	payload, err := a.assemblePayload()
	if err != nil {
		return nil, err
	}

	directory, err := EncodeDirectory(a.entries, a.header.Version, a.key)
	if err != nil {
		return nil, err
	}
	if a.header.Version != Version1 {
		a.header.MetadataLength = uint32(len(directory))
	}

	out := bytes.NewBuffer(make([]byte, 0, a.header.Version.HeaderSize()+len(payload)+len(directory)))
	out.Write(packHeader(a.header))
	out.Write(payload)
	out.Write(directory)
	return out.Bytes(), nil
}

// assemblePayload lays out every entry's on-disk bytes back to back, in
// FileLocation order, using AddFile overrides where present and
// re-reading unchanged entries from the original source otherwise.
func (a *Archive) assemblePayload() ([]byte, error) {
	order := make([]int, len(a.entries))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return a.entries[order[i]].FileLocation < a.entries[order[j]].FileLocation
	})

	size := int(a.header.MetadataOffset) - a.header.Version.HeaderSize()
	if size < 0 {
		return nil, ErrInvariantViolation
	}
	buf := bytes.NewBuffer(make([]byte, 0, size))

	for _, i := range order {
		m := a.entries[i]
		path := m.Path()

		if ov, ok := a.overrides[path]; ok {
			buf.Write(ov)
			continue
		}

		raw := make([]byte, m.OnDiskSize())
		if _, err := a.src.ReadAt(raw, a.sourceOffset[i]); err != nil {
			return nil, err
		}
		buf.Write(raw)
	}

	if buf.Len() != size {
		return nil, ErrInvariantViolation
	}
	return buf.Bytes(), nil
}

func (a *Archive) reopen(dest string) error {
	f, err := os.Open(dest)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}

	if err := a.adopt(f, info.Size()); err != nil {
		f.Close()
		return err
	}
	a.path = dest
	a.closer = f
	return nil
}

// adopt re-parses src as the archive's new backing source, releasing
// the previous one. The re-parse keeps the in-memory directory honest
// against what was actually written.
func (a *Archive) adopt(src io.ReaderAt, size int64) error {
	header, entries, err := readArchive(src, size, a.key)
	if err != nil {
		return err
	}

	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			return err
		}
	}

	byPath := make(map[string]int, len(entries))
	sourceOffset := make([]int64, len(entries))
	for i, m := range entries {
		byPath[m.Path()] = i
		sourceOffset[i] = int64(m.FileLocation)
	}

	a.path = ""
	a.src = src
	a.closer = nil
	a.header = header
	a.entries = entries
	a.byPath = byPath
	a.sourceOffset = sourceOffset
	a.overrides = make(map[string][]byte)
	a.dirty = false
	return nil
}
