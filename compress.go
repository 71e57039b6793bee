package tablecsv

import (
	"bufio"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// detectCompression sniffs the magic bytes at the head of br and wraps it
// in the matching decompressor, transparently, per spec.md §4.8 step 1.
// br is a *bufio.Reader so Peek doesn't consume bytes the chosen
// decompressor still needs to see.
func detectCompression(br *bufio.Reader) (io.Reader, error) {
	head, _ := br.Peek(6)

	switch {
	case hasPrefix(head, gzipMagic):
		gr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return gr, nil
	case hasPrefix(head, xzMagic):
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, err
		}
		return xr, nil
	case hasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	default:
		return br, nil
	}
}

func hasPrefix(head, magic []byte) bool {
	if len(head) < len(magic) {
		return false
	}
	for i, b := range magic {
		if head[i] != b {
			return false
		}
	}
	return true
}
