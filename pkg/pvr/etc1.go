package pvr

import "encoding/binary"

// etc1ModifierTable holds, per 3-bit table index, the four signed
// pixel deltas {+small, +big, -small, -big} selected by a pixel's
// 2-bit (lsb, msb) index.
var etc1ModifierTable = [8][4]int{
	{2, 8, -2, -8},
	{5, 17, -5, -17},
	{9, 29, -9, -29},
	{13, 42, -13, -42},
	{18, 60, -18, -60},
	{24, 80, -24, -80},
	{33, 106, -33, -106},
	{47, 183, -47, -183},
}

func clamp255(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

func expand4(v uint32) int { return int((v << 4) | v) }
func expand5(v uint32) int { return int((v << 3) | (v >> 2)) }

// decodeETC1Block decodes one 8-byte ETC1 block into a 4x4 RGB buffer
// (48 bytes, row-major, 3 bytes per pixel, alpha handled by the caller).
func decodeETC1Block(block []byte) [48]byte {
	high := binary.BigEndian.Uint32(block[0:4])
	low := binary.BigEndian.Uint32(block[4:8])

	flipped := high&1 != 0
	diff := high&2 != 0

	var r1, g1, b1, r2, g2, b2 int
	if diff {
		rBase := (high >> 27) & 0x1f
		gBase := (high >> 19) & 0x1f
		bBase := (high >> 11) & 0x1f
		rDelta := signExtend3((high >> 24) & 7)
		gDelta := signExtend3((high >> 16) & 7)
		bDelta := signExtend3((high >> 8) & 7)

		r1 = expand5(rBase)
		g1 = expand5(gBase)
		b1 = expand5(bBase)
		r2 = expand5(uint32(int(rBase) + rDelta))
		g2 = expand5(uint32(int(gBase) + gDelta))
		b2 = expand5(uint32(int(bBase) + bDelta))
	} else {
		r1 = expand4((high >> 28) & 0xf)
		r2 = expand4((high >> 24) & 0xf)
		g1 = expand4((high >> 20) & 0xf)
		g2 = expand4((high >> 16) & 0xf)
		b1 = expand4((high >> 12) & 0xf)
		b2 = expand4((high >> 8) & 0xf)
	}

	table1 := etc1ModifierTable[(high>>5)&7]
	table2 := etc1ModifierTable[(high>>2)&7]

	var out [48]byte
	decodeETC1Subblock(&out, r1, g1, b1, table1, low, false, flipped)
	decodeETC1Subblock(&out, r2, g2, b2, table2, low, true, flipped)
	return out
}

// signExtend3 sign-extends a 3-bit two's-complement value (0-7) to a
// signed Go int.
func signExtend3(v uint32) int {
	if v&4 != 0 {
		return int(v) - 8
	}
	return int(v)
}

// decodeETC1Subblock paints one half of the 4x4 block: the halves sit
// side by side (2x4 each) when the flip bit is clear, stacked (4x2)
// when set.
func decodeETC1Subblock(out *[48]byte, r, g, b int, table [4]int, low uint32, second, flipped bool) {
	x0, x1, y0, y1 := 0, 2, 0, 4
	if flipped {
		x0, x1, y0, y1 = 0, 4, 0, 2
	}
	if second {
		if flipped {
			y0, y1 = 2, 4
		} else {
			x0, x1 = 2, 4
		}
	}
	for x := x0; x < x1; x++ {
		for y := y0; y < y1; y++ {
			k := uint32(y + x*4)
			idx := ((low >> k) & 1) | ((low >> (k + 15)) & 2)
			delta := table[idx]

			off := 3 * (x + 4*y)
			out[off] = clamp255(r + delta)
			out[off+1] = clamp255(g + delta)
			out[off+2] = clamp255(b + delta)
		}
	}
}

// decodeETC1 decodes a raw ETC1 payload (4x4-block tiled, 8 bytes per
// block, row-major block order) into an RGBA8 buffer of size
// width*height*4, with alpha fixed at 255 (opaque); ETC1 has no alpha
// channel of its own.
func decodeETC1(data []byte, width, height int) ([]byte, error) {
	blocksWide := (width + 3) / 4
	blocksHigh := (height + 3) / 4
	need := blocksWide * blocksHigh * 8
	if len(data) < need {
		return nil, ErrTruncated
	}

	out := make([]byte, width*height*4)
	for i := range out {
		if i%4 == 3 {
			out[i] = 255
		}
	}

	for by := 0; by < blocksHigh; by++ {
		for bx := 0; bx < blocksWide; bx++ {
			blockIdx := by*blocksWide + bx
			block := decodeETC1Block(data[blockIdx*8 : blockIdx*8+8])

			for y := 0; y < 4; y++ {
				py := by*4 + y
				if py >= height {
					continue
				}
				for x := 0; x < 4; x++ {
					px := bx*4 + x
					if px >= width {
						continue
					}
					src := 3 * (x + 4*y)
					dst := (py*width + px) * 4
					out[dst] = block[src]
					out[dst+1] = block[src+1]
					out[dst+2] = block[src+2]
				}
			}
		}
	}

	return out, nil
}
