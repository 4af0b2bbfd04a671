package pvr

import (
	"bytes"
	"errors"
	"io"
)

// ErrMismatchedAlphaDimensions is returned when an external alpha
// sibling's decoded dimensions differ from the primary image's.
var ErrMismatchedAlphaDimensions = errors.New("pvr: external alpha dimensions do not match primary image")

// Decode parses a PVR3 container and decodes its surface to RGBA8.
// When externalAlpha is non-nil and the primary surface carries no
// alpha channel of its own, externalAlpha is decoded the same way and
// its luminance is spliced in as the primary's alpha plane.
func Decode(data []byte, externalAlpha []byte) (Image, error) {
	img, err := decodeOne(data)
	if err != nil {
		return Image{}, err
	}

	if img.HasSourceAlpha || externalAlpha == nil {
		return img, nil
	}

	alpha, err := decodeOne(externalAlpha)
	if err != nil {
		return Image{}, err
	}
	if alpha.Width != img.Width || alpha.Height != img.Height {
		return Image{}, ErrMismatchedAlphaDimensions
	}

	spliceAlpha(&img, &alpha)
	img.SourceAlphaFile = "external"
	return img, nil
}

// DecodeFile is Decode with both inputs fetched through open: primary
// names the texture and alphaName its external alpha sibling
// (conventionally "<stem>.alpha<ext>"). A missing primary is reported as
// ErrTruncated. A missing sibling is not an error; the image is simply
// returned opaque (or with whatever alpha its own format carries).
func DecodeFile(open func(name string) (io.ReadCloser, bool, error), primary, alphaName string) (Image, error) {
	rc, ok, err := open(primary)
	if err != nil {
		return Image{}, err
	}
	if !ok {
		return Image{}, ErrTruncated
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return Image{}, err
	}

	var alphaData []byte
	if arc, ok, err := open(alphaName); err == nil && ok {
		defer arc.Close()
		alphaData, err = io.ReadAll(arc)
		if err != nil {
			return Image{}, err
		}
	}

	return Decode(data, alphaData)
}

// decodeOne parses a single PVR3 container (header, metadata, surface)
// without any alpha splicing.
func decodeOne(data []byte) (Image, error) {
	r := bytes.NewReader(data)

	hdr, err := readHeader(r)
	if err != nil {
		return Image{}, err
	}

	orientation, err := readMetadata(r, hdr.MetadataSize)
	if err != nil {
		return Image{}, err
	}

	pixels, hasAlpha, err := decodeSurface(r, hdr)
	if err != nil {
		return Image{}, err
	}

	return Image{
		Width:           int(hdr.Width),
		Height:          int(hdr.Height),
		Pixels:          pixels,
		Orientation:     orientation,
		Premultiplied:   hdr.Flags&premultipliedFlag != 0,
		HasSourceAlpha:  hasAlpha,
		SourceAlphaFile: "",
	}, nil
}

// channelLayout splits the pixel format field into its two encodings:
// four ASCII channel chars plus four bit-rates, or (when every
// bit-rate is zero) a compressed-format enum in the low 32 bits.
func channelLayout(pf PixelFormat) (channels [4]byte, rates [4]byte, isChannel bool) {
	raw := uint64(pf)
	for i := 0; i < 4; i++ {
		channels[i] = byte(raw >> (8 * i))
		rates[i] = byte(raw >> (32 + 8*i))
	}
	for _, r := range rates {
		if r != 0 {
			return channels, rates, true
		}
	}
	return channels, rates, false
}

func decodeSurface(r io.Reader, hdr Header) (pixels []byte, hasAlpha bool, err error) {
	channels, rates, isChannelFormat := channelLayout(hdr.PixelFormat)

	if isChannelFormat {
		if string(channels[:]) == "rgba" && rates == [4]byte{8, 8, 8, 8} {
			size := int(hdr.Width) * int(hdr.Height) * 4
			buf := make([]byte, size)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, false, ErrTruncated
			}
			return buf, true, nil
		}
		return nil, false, ErrUnsupportedFormat
	}

	rest, err := io.ReadAll(r)
	if err != nil {
		return nil, false, ErrTruncated
	}

	switch hdr.PixelFormat {
	case FormatASTC8x8:
		pixels, err := decodeASTC8x8(rest, int(hdr.Width), int(hdr.Height))
		return pixels, true, err
	case FormatETC1:
		pixels, err := decodeETC1(rest, int(hdr.Width), int(hdr.Height))
		return pixels, false, err
	default:
		return nil, false, ErrUnsupportedFormat
	}
}

// spliceAlpha replaces dst's alpha channel with src decoded as
// single-channel luminance (the average of its RGB channels, matching
// how an alpha-only PVR sibling is authored as a greyscale image).
func spliceAlpha(dst, src *Image) {
	for i := 0; i < len(dst.Pixels); i += 4 {
		r, g, b := src.Pixels[i], src.Pixels[i+1], src.Pixels[i+2]
		dst.Pixels[i+3] = byte((uint16(r) + uint16(g) + uint16(b)) / 3)
	}
	dst.HasSourceAlpha = true
}
