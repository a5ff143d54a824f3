package adapter

import (
	"io"
	"os"
)

// stdioStream exposes the process's standard input/output as one
// bidirectional byte stream. The session owns it exclusively; Close releases
// both ends so the pump's blocked read unwinds.
type stdioStream struct {
	in  *os.File
	out *os.File
}

func newStdioStream() io.ReadWriteCloser {
	return &stdioStream{in: os.Stdin, out: os.Stdout}
}

func (s *stdioStream) Read(p []byte) (int, error) {
	return s.in.Read(p)
}

func (s *stdioStream) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *stdioStream) Close() error {
	err := s.in.Close()
	if cerr := s.out.Close(); err == nil {
		err = cerr
	}
	return err
}
