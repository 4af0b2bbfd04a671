package ark

import "testing"

func TestHeaderRoundTripV1(t *testing.T) {
	h := Header{Version: Version1, FileCount: 3, MetadataOffset: 1024}
	buf := packHeader(h)
	if len(buf) != v1HeaderSize {
		t.Fatalf("len = %d, want %d", len(buf), v1HeaderSize)
	}

	got, err := unpackHeader(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != h {
		t.Fatalf("got %+v, want %+v", got, h)
	}
}

func TestHeaderRoundTripV3(t *testing.T) {
	h := Header{
		Version:        Version3,
		FileCount:      7,
		MetadataOffset: 4096,
		MetadataLength: 512,
		Reserved:       [16]byte{1, 2, 3},
	}
	buf := packHeader(h)
	if len(buf) != v3v4HeaderSize {
		t.Fatalf("len = %d, want %d", len(buf), v3v4HeaderSize)
	}

	got, err := unpackHeader(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != h {
		t.Fatalf("got %+v, want %+v", got, h)
	}
}

func TestUnpackHeaderUnsupportedVersion(t *testing.T) {
	buf := make([]byte, v3v4HeaderSize)
	buf[8] = 9 // version = 9
	if _, err := unpackHeader(buf); err != ErrUnsupportedVersion {
		t.Fatalf("err = %v, want ErrUnsupportedVersion", err)
	}
}

func TestUnpackHeaderTooShort(t *testing.T) {
	if _, err := unpackHeader([]byte{1, 2, 3}); err != ErrInvalidLength {
		t.Fatalf("err = %v, want ErrInvalidLength", err)
	}
}

func sampleRecord() FileMetadata {
	m := FileMetadata{
		FileLocation:   12,
		OriginalSize:   100,
		CompressedSize: 80,
		EncryptedSize:  80,
		Timestamp:      1700000000,
		Priority:       5,
	}
	m.SetPath("dir/sub/file.bin")
	m.MD5Sum = [16]byte{0xde, 0xad, 0xbe, 0xef}
	return m
}

func TestRecordRoundTripV1V3(t *testing.T) {
	m := sampleRecord()
	buf := packRecord(m, Version1)
	if len(buf) != v1v3RecordSize {
		t.Fatalf("len = %d, want %d", len(buf), v1v3RecordSize)
	}

	got, err := unpackRecord(buf, Version1)
	if err != nil {
		t.Fatal(err)
	}
	if got != m {
		t.Fatalf("got %+v, want %+v", got, m)
	}
}

func TestRecordRoundTripV4(t *testing.T) {
	m := sampleRecord()
	m.Unknown1 = 0xcafef00d
	copy(m.Unknown2[:], []byte("opaque engine-private bytes"))

	buf := packRecord(m, Version4)
	if len(buf) != v4RecordSize {
		t.Fatalf("len = %d, want %d", len(buf), v4RecordSize)
	}

	got, err := unpackRecord(buf, Version4)
	if err != nil {
		t.Fatal(err)
	}
	if got != m {
		t.Fatalf("got %+v, want %+v", got, m)
	}
}

func TestPathRoundTrip(t *testing.T) {
	cases := []string{"file.bin", "dir/file.bin", "a/b/c/file.bin"}
	for _, p := range cases {
		var m FileMetadata
		m.SetPath(p)
		if got := m.Path(); got != p {
			t.Errorf("SetPath(%q).Path() = %q", p, got)
		}
	}
}

func TestFixedStringTruncation(t *testing.T) {
	dst := make([]byte, 8)
	putFixedString(dst, "toolongforthisfield")
	if got := readFixedString(dst); len(got) != 8 {
		t.Fatalf("truncated string = %q, want length 8", got)
	}
}

func TestFixedStringPadding(t *testing.T) {
	dst := make([]byte, 8)
	putFixedString(dst, "hi")
	if got := readFixedString(dst); got != "hi" {
		t.Fatalf("got %q, want %q", got, "hi")
	}
	for i := 2; i < 8; i++ {
		if dst[i] != 0 {
			t.Fatalf("byte %d = %d, want 0 padding", i, dst[i])
		}
	}
}
