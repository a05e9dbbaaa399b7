package binary

import (
	"bufio"
	"encoding/binary"
	"io"
)

// CountingWriter buffers writes to w and remembers how many bytes went
// through it.
type CountingWriter struct {
	w     *bufio.Writer
	count int64
}

func NewCountingWriter(w io.Writer) *CountingWriter {
	return &CountingWriter{
		w: bufio.NewWriter(w),
	}
}

func (cw *CountingWriter) Total() int64 {
	return cw.count
}

func (cw *CountingWriter) Write(p []byte) (n int, err error) {
	n, err = cw.w.Write(p)
	cw.count += int64(n)
	return n, err
}

func (cw *CountingWriter) Flush() error {
	return cw.w.Flush()
}

// ByteWriter writes length-prefixed strings and little-endian int64 values.
type ByteWriter struct {
	w *CountingWriter
}

func NewByteWriter(w io.Writer) *ByteWriter {
	return &ByteWriter{
		w: NewCountingWriter(w),
	}
}

func (bw *ByteWriter) WriteBytes(b []byte) error {
	var err error
	err = binary.Write(bw.w, binary.LittleEndian, int64(len(b)))
	if err != nil {
		return err
	}
	_, err = bw.w.Write(b)
	return err
}

func (bw *ByteWriter) WriteString(s string) error {
	return bw.WriteBytes([]byte(s))
}

func (bw *ByteWriter) WriteInt(i int) error {
	return binary.Write(bw.w, binary.LittleEndian, int64(i))
}

// Total is the number of bytes written so far, buffered ones included.
func (bw *ByteWriter) Total() int64 {
	return bw.w.Total()
}

func (bw *ByteWriter) Flush() error {
	return bw.w.Flush()
}
