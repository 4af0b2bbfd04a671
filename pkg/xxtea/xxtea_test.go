package xxtea

import (
	"bytes"
	"encoding/hex"
	"testing"
)

var defaultKey = Key{0x3d5b2a34, 0x923fff10, 0x00e346a4, 0x0c74902b}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestEncryptZeroKeyVector(t *testing.T) {
	src := mustHex(t, "0000000000000000")
	got, err := Encrypt(src, Key{0, 0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	want := mustHex(t, "ab043705808c5d57")
	if !bytes.Equal(got, want) {
		t.Fatalf("ciphertext = %x, want %x", got, want)
	}
}

func TestEncryptDefaultKeyVector(t *testing.T) {
	src := mustHex(t, "0000000000000000")
	got, err := Encrypt(src, defaultKey)
	if err != nil {
		t.Fatal(err)
	}
	want := mustHex(t, "bcb07119b7769ef9")
	if !bytes.Equal(got, want) {
		t.Fatalf("ciphertext = %x, want %x", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	cases := [][]byte{
		{0, 0, 0, 0, 0, 0, 0, 0},
		bytes.Repeat([]byte{0xAB}, 16),
		mustHex(t, "9421e05d62e76d7a2255a32ef60c337d0011223344556677"),
	}
	keys := []Key{
		{0, 0, 0, 0},
		defaultKey,
		{0x11223344, 0x55667788, 0x99aabbcc, 0xddeeff00},
	}

	for _, key := range keys {
		for _, src := range cases {
			src := src[:len(src)-len(src)%4]
			if len(src)/4 < 2 {
				continue
			}
			enc, err := Encrypt(src, key)
			if err != nil {
				t.Fatalf("Encrypt: %v", err)
			}
			dec, err := Decrypt(enc, key)
			if err != nil {
				t.Fatalf("Decrypt: %v", err)
			}
			if !bytes.Equal(dec, src) {
				t.Fatalf("round trip mismatch: got %x, want %x", dec, src)
			}
		}
	}
}

func TestEncryptPadsToMultipleOf4(t *testing.T) {
	src := []byte{1, 2, 3, 4, 5}
	enc, err := Encrypt(src, defaultKey)
	if err != nil {
		t.Fatal(err)
	}
	if len(enc) != 8 {
		t.Fatalf("padded length = %d, want 8", len(enc))
	}
}

func TestAlignedSize(t *testing.T) {
	cases := map[int]int{0: 0, 1: 4, 3: 4, 4: 4, 5: 8, 8: 8, 9: 12}
	for in, want := range cases {
		if got := AlignedSize(in); got != want {
			t.Errorf("AlignedSize(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestDecryptInvalidLength(t *testing.T) {
	if _, err := Decrypt([]byte{1, 2, 3}, defaultKey); err != ErrInvalidLength {
		t.Fatalf("err = %v, want ErrInvalidLength", err)
	}
	if _, err := Decrypt([]byte{1, 2, 3, 4}, defaultKey); err != ErrInvalidLength {
		t.Fatalf("err = %v, want ErrInvalidLength (single word)", err)
	}
}
