package component

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// readerPool pools bytes.Reader instances to reduce allocations
var readerPool = sync.Pool{
	New: func() interface{} {
		return &bytes.Reader{}
	},
}

// getReader gets a pooled reader initialized with data
func getReader(data []byte) *bytes.Reader {
	r := readerPool.Get().(*bytes.Reader)
	r.Reset(data)
	return r
}

// putReader returns a reader to the pool
func putReader(r *bytes.Reader) {
	readerPool.Put(r)
}

// maxNameLength bounds allocations to prevent OOM from malformed binaries
const maxNameLength = 100000

// maxCount bounds vector lengths read from the binary
const maxCount = 100000

func readByte(r *bytes.Reader) (byte, error) {
	return r.ReadByte()
}

func readLEB128(r *bytes.Reader) (uint32, error) {
	var result uint32
	var shift uint
	for i := 0; i < 5; i++ { // Max 5 bytes for uint32
		b, err := readByte(r)
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 32 {
			return 0, fmt.Errorf("LEB128 value too large")
		}
	}
	return 0, fmt.Errorf("LEB128 encoding exceeded maximum length")
}

// skipLEB128 skips a LEB128 value of up to 64 bits
func skipLEB128(r *bytes.Reader) error {
	for i := 0; i < 10; i++ {
		b, err := readByte(r)
		if err != nil {
			return err
		}
		if b&0x80 == 0 {
			return nil
		}
	}
	return fmt.Errorf("LEB128 encoding exceeded maximum length")
}

func readCount(r *bytes.Reader, what string) (uint32, error) {
	n, err := readLEB128(r)
	if err != nil {
		return 0, fmt.Errorf("read %s count: %w", what, err)
	}
	if n > maxCount {
		return 0, fmt.Errorf("%s count %d exceeds maximum", what, n)
	}
	return n, nil
}

func readName(r *bytes.Reader) (string, error) {
	length, err := readLEB128(r)
	if err != nil {
		return "", err
	}

	if length > maxNameLength {
		return "", fmt.Errorf("name too long: %d (max %d)", length, maxNameLength)
	}
	if int64(length) > int64(r.Len()) {
		return "", fmt.Errorf("name length %d exceeds remaining %d bytes", length, r.Len())
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}

	return string(buf), nil
}

// readExternName reads importname' / exportname'. The leading discriminant
// byte is not interpreted.
func readExternName(r *bytes.Reader) (string, error) {
	if _, err := readByte(r); err != nil {
		return "", fmt.Errorf("read name kind: %w", err)
	}
	name, err := readName(r)
	if err != nil {
		return "", fmt.Errorf("read name: %w", err)
	}
	return name, nil
}
