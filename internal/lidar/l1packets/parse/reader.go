package parse

import "io"

// ExactReader reads exactly len(buf) bytes or fails. On failure n reports how
// many bytes arrived before the error; the contents of buf are not valid.
type ExactReader interface {
	ReadExact(buf []byte) (n int, err error)
}

// StreamSource adapts any io.Reader (a recorded stream, a pipe) to ExactReader.
type StreamSource struct {
	R io.Reader
}

// ReadExact implements ExactReader using io.ReadFull.
func (s StreamSource) ReadExact(buf []byte) (int, error) {
	return io.ReadFull(s.R, buf)
}

// FrameReader reads framed messages from an ExactReader. The header and body
// buffers are allocated once and reused; slices returned by ReadBody are only
// valid until the next call.
type FrameReader struct {
	src    ExactReader
	header [HeaderSize]byte
	body   []byte
}

// NewFrameReader creates a reader whose body buffer holds maxBody bytes.
// A non-positive maxBody selects MaxBodySize.
func NewFrameReader(src ExactReader, maxBody int) *FrameReader {
	if maxBody <= 0 {
		maxBody = MaxBodySize
	}
	return &FrameReader{
		src:  src,
		body: make([]byte, maxBody),
	}
}

// Reset switches the reader to a new source, keeping its buffers.
func (r *FrameReader) Reset(src ExactReader) {
	r.src = src
}

// BodyCapacity returns the size of the reusable body buffer.
func (r *FrameReader) BodyCapacity() int {
	return len(r.body)
}

// ReadHeader reads and decodes the fixed-size header.
func (r *FrameReader) ReadHeader() (FrameHeader, error) {
	n, err := r.src.ReadExact(r.header[:])
	if err != nil {
		return FrameHeader{}, &FrameError{Kind: ErrShortRead, Stage: "header", Want: HeaderSize, Got: n, Err: err}
	}
	return DecodeHeader(r.header[:])
}

// RawHeader returns the bytes of the last header read.
func (r *FrameReader) RawHeader() []byte {
	return r.header[:]
}

// ReadBody reads exactly the declared body length into the reusable buffer.
func (r *FrameReader) ReadBody(h FrameHeader) ([]byte, error) {
	if uint64(h.BodyLength) > uint64(len(r.body)) {
		return nil, &FrameError{Kind: ErrFrameTooLarge, Stage: "body", Want: len(r.body), Got: int(h.BodyLength)}
	}
	want := int(h.BodyLength)
	body := r.body[:want]
	n, err := r.src.ReadExact(body)
	if err != nil {
		return nil, &FrameError{Kind: ErrShortRead, Stage: "body", Want: want, Got: n, Err: err}
	}
	return body, nil
}
