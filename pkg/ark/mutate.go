package ark

import (
	"crypto/md5"
	"time"
)

// AddFile inserts or replaces the payload at path.
//
// A new path is appended: its FileLocation is set to the current end of
// the payload region (the archive's MetadataOffset before this call),
// and the directory grows by one entry.
//
// An existing path is replaced in place: it keeps its original
// FileLocation, but every other entry whose FileLocation falls after
// it (and the archive's MetadataOffset itself) shifts by the payload's
// size delta, since the replacement payload is rarely the same size as
// what it displaces.
//
// Changes are only reflected on disk once Write is called.
func (a *Archive) AddFile(path string, content []byte, flags PutFlags) error {
	if err := a.checkOpen(); err != nil {
		return err
	}

	onDisk, compressedSize, encryptedSize, err := encodePayload(content, a.header.Version, flags.Compress, flags.Encrypt, a.key)
	if err != nil {
		return err
	}
	sum := md5.Sum(content)
	onDiskSize := uint32(len(onDisk))
	originalSize := uint32(len(content))

	timestamp := flags.Timestamp
	if timestamp == 0 {
		timestamp = uint32(time.Now().Unix())
	}

	if i, ok := a.byPath[path]; ok {
		a.replaceEntry(i, path, onDisk, onDiskSize, originalSize, compressedSize, encryptedSize, sum, timestamp, flags.Priority)
	} else {
		a.appendEntry(path, onDisk, onDiskSize, originalSize, compressedSize, encryptedSize, sum, timestamp, flags.Priority)
	}

	a.dirty = true
	return nil
}

func (a *Archive) replaceEntry(i int, path string, onDisk []byte, onDiskSize, originalSize, compressedSize, encryptedSize uint32, sum [16]byte, timestamp, priority uint32) {
	old := a.entries[i]
	delta := int64(onDiskSize) - int64(old.OnDiskSize())

	updated := old
	updated.OriginalSize = originalSize
	updated.CompressedSize = compressedSize
	updated.EncryptedSize = encryptedSize
	updated.Timestamp = timestamp
	updated.MD5Sum = sum
	updated.Priority = priority
	// FileLocation and Unknown1/Unknown2 are carried over unchanged.
	a.entries[i] = updated
	a.overrides[path] = onDisk

	if delta != 0 {
		for j := range a.entries {
			if j == i {
				continue
			}
			if a.entries[j].FileLocation > old.FileLocation {
				a.entries[j].FileLocation = uint32(int64(a.entries[j].FileLocation) + delta)
			}
		}
		a.header.MetadataOffset = uint32(int64(a.header.MetadataOffset) + delta)
	}
}

func (a *Archive) appendEntry(path string, onDisk []byte, onDiskSize, originalSize, compressedSize, encryptedSize uint32, sum [16]byte, timestamp, priority uint32) {
	var m FileMetadata
	m.SetPath(path)
	m.FileLocation = a.header.MetadataOffset
	m.OriginalSize = originalSize
	m.CompressedSize = compressedSize
	m.EncryptedSize = encryptedSize
	m.Timestamp = timestamp
	m.MD5Sum = sum
	m.Priority = priority

	a.entries = append(a.entries, m)
	a.sourceOffset = append(a.sourceOffset, 0)
	a.byPath[path] = len(a.entries) - 1
	a.overrides[path] = onDisk

	a.header.MetadataOffset += onDiskSize
	a.header.FileCount++
}
