// Package xxtea implements the Corrected Block TEA (XXTEA) cipher used to
// encrypt the metadata directory and, optionally, individual file payloads
// inside an .ark archive.
//
// The cipher operates on an array of 32-bit little-endian words using a
// 128-bit (four-word) key. Unlike crypto/cipher.Block, the block size here
// is variable: it is the whole buffer, padded up to a multiple of 4 bytes.
package xxtea

import (
	"encoding/binary"
	"errors"
)

// ErrInvalidLength is returned when a buffer cannot be interpreted as at
// least two 32-bit words after alignment.
var ErrInvalidLength = errors.New("xxtea: buffer too short to align to at least two words")

const delta uint32 = 0x9e3779b9

// AlignedSize returns the smallest multiple of 4 that is >= n.
func AlignedSize(n int) int {
	if n%4 == 0 {
		return n
	}
	return n + (4 - n%4)
}

// Key is the 128-bit XXTEA key, as four 32-bit words.
type Key [4]uint32

// Encrypt returns the XXTEA encryption of buf; buf itself is left
// unchanged. The copy is zero-padded to a multiple of 4 bytes before
// encryption; the returned slice is always that padded length. All arithmetic wraps modulo
// 2^32 and shifts are logical, matching the reference C implementation.
func Encrypt(buf []byte, key Key) ([]byte, error) {
	padded := pad(buf)
	v, err := bytesToWords(padded)
	if err != nil {
		return nil, err
	}

	n := uint32(len(v))
	rounds := 6 + 52/n

	var sum uint32
	z := v[n-1]
	for rounds > 0 {
		sum += delta
		e := (sum >> 2) & 3
		for p := uint32(0); p < n-1; p++ {
			y := v[p+1]
			v[p] += mx(sum, y, z, key, p, e)
			z = v[p]
		}
		y := v[0]
		v[n-1] += mx(sum, y, z, key, n-1, e)
		z = v[n-1]
		rounds--
	}

	wordsToBytes(v, padded)
	return padded, nil
}

// Decrypt returns the XXTEA decryption of buf; buf itself is left
// unchanged. buf's length must already be a multiple of 4 bytes (it is not padded);
// the caller is responsible for truncating the result to the logical
// plaintext length afterward, since padding is not tracked.
func Decrypt(buf []byte, key Key) ([]byte, error) {
	out := make([]byte, len(buf))
	copy(out, buf)

	v, err := bytesToWords(out)
	if err != nil {
		return nil, err
	}

	n := uint32(len(v))
	rounds := 6 + 52/n

	sum := rounds * delta
	y := v[0]
	for rounds > 0 {
		e := (sum >> 2) & 3
		for p := n - 1; p > 0; p-- {
			z := v[p-1]
			v[p] -= mx(sum, y, z, key, p, e)
			y = v[p]
		}
		z := v[n-1]
		v[0] -= mx(sum, y, z, key, 0, e)
		y = v[0]
		sum -= delta
		rounds--
	}

	wordsToBytes(v, out)
	return out, nil
}

// mx computes the XXTEA mixing function for round-local sum/y/z/key/e,
// indexed by word position p.
func mx(sum, y, z uint32, key Key, p, e uint32) uint32 {
	return ((z>>5 ^ y<<2) + (y>>3 ^ z<<4)) ^ ((sum ^ y) + (key[(p&3)^e] ^ z))
}

func pad(buf []byte) []byte {
	out := make([]byte, AlignedSize(len(buf)))
	copy(out, buf)
	return out
}

func bytesToWords(buf []byte) ([]uint32, error) {
	if len(buf)%4 != 0 || len(buf)/4 < 2 {
		return nil, ErrInvalidLength
	}
	v := make([]uint32, len(buf)/4)
	for i := range v {
		v[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return v, nil
}

func wordsToBytes(v []uint32, out []byte) {
	for i, word := range v {
		binary.LittleEndian.PutUint32(out[i*4:], word)
	}
}
