package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types.
const (
	TGATypeTrueColor    = 2
	TGATypeGray         = 3
	TGATypeTrueColorRLE = 10
	TGATypeGrayRLE      = 11
)

const tgaHeaderSize = 18

var errTGATruncated = errors.New("TGA data truncated")

// tgaHeader holds the fields of the 18-byte TGA header we use.
type tgaHeader struct {
	idLength   int
	colorMap   byte
	imageType  byte
	width      int
	height     int
	bpp        int
	topToBottom bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < tgaHeaderSize {
		return tgaHeader{}, fmt.Errorf("TGA data too short")
	}
	h := tgaHeader{
		idLength:   int(data[0]),
		colorMap:   data[1],
		imageType:  data[2],
		width:      int(data[12]) | int(data[13])<<8,
		height:     int(data[14]) | int(data[15])<<8,
		bpp:        int(data[16]),
		topToBottom: data[17]&0x20 != 0,
	}

	if h.colorMap != 0 {
		return h, fmt.Errorf("color-mapped TGA not supported")
	}
	switch h.imageType {
	case TGATypeTrueColor, TGATypeTrueColorRLE:
		if h.bpp != 24 && h.bpp != 32 {
			return h, fmt.Errorf("unsupported true-color TGA bit depth %d", h.bpp)
		}
	case TGATypeGray, TGATypeGrayRLE:
		if h.bpp != 8 {
			return h, fmt.Errorf("unsupported gray TGA bit depth %d", h.bpp)
		}
	default:
		return h, fmt.Errorf("unsupported TGA type %d", h.imageType)
	}
	if h.width == 0 || h.height == 0 {
		return h, fmt.Errorf("empty TGA image")
	}
	return h, nil
}

// DecodeTGA decodes uncompressed or RLE TGA images, true-color (24/32 bit)
// or 8-bit gray.
func DecodeTGA(data []byte) (image.Image, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}
	offset := tgaHeaderSize + h.idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}
	src := data[offset:]
	bytesPerPixel := h.bpp / 8

	img := image.NewNRGBA(image.Rect(0, 0, h.width, h.height))
	put := func(i int, px []byte) {
		x, y := i%h.width, i/h.width
		if !h.topToBottom {
			y = h.height - 1 - y
		}
		img.SetNRGBA(x, y, tgaColor(px))
	}

	count := h.width * h.height
	rle := h.imageType == TGATypeTrueColorRLE || h.imageType == TGATypeGrayRLE

	if !rle {
		if len(src) < count*bytesPerPixel {
			return nil, errTGATruncated
		}
		for i := 0; i < count; i++ {
			put(i, src[i*bytesPerPixel:(i+1)*bytesPerPixel])
		}
		return img, nil
	}

	pos := 0
	for i := 0; i < count; {
		if pos >= len(src) {
			return nil, errTGATruncated
		}
		packet := src[pos]
		pos++
		n := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// run: one pixel repeated n times
			if pos+bytesPerPixel > len(src) {
				return nil, errTGATruncated
			}
			px := src[pos : pos+bytesPerPixel]
			pos += bytesPerPixel
			for k := 0; k < n && i < count; k++ {
				put(i, px)
				i++
			}
			continue
		}

		if pos+n*bytesPerPixel > len(src) {
			return nil, errTGATruncated
		}
		for k := 0; k < n && i < count; k++ {
			put(i, src[pos:pos+bytesPerPixel])
			pos += bytesPerPixel
			i++
		}
	}
	return img, nil
}

// tgaColor converts a BGR(A) or gray pixel.
func tgaColor(px []byte) color.NRGBA {
	switch len(px) {
	case 1:
		return color.NRGBA{R: px[0], G: px[0], B: px[0], A: 255}
	case 3:
		return color.NRGBA{R: px[2], G: px[1], B: px[0], A: 255}
	default:
		return color.NRGBA{R: px[2], G: px[1], B: px[0], A: px[3]}
	}
}
