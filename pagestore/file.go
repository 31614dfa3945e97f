//go:build !(rp2040 || rp2350)

package pagestore

import (
	"os"
	"sync"
)

// File is a Store backed by a page image on the host filesystem. It stands in
// for the board's EEPROM when running the simulator.
type File struct {
	mu       sync.Mutex
	f        *os.File
	pageSize int
	pages    int
	stage    staging
}

// OpenFile opens or creates an image of pages*pageSize bytes. A new or short
// image is extended with 0xFF, the erased state of EEPROM.
func OpenFile(path string, pages, pageSize int) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	want := int64(pages * pageSize)
	if have := st.Size(); have < want {
		pad := make([]byte, want-have)
		for i := range pad {
			pad[i] = 0xFF
		}
		if _, err := f.WriteAt(pad, have); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.Sync(); err != nil {
			f.Close()
			return nil, err
		}
	}
	return &File{f: f, pageSize: pageSize, pages: pages}, nil
}

func (s *File) PageSize() int { return s.pageSize }
func (s *File) Pages() int    { return s.pages }

func (s *File) ReadPage(index int, buf []byte) error {
	if err := checkIndex(s, "read_page", index); err != nil {
		return err
	}
	if len(buf) < s.pageSize {
		return ErrShortBuffer
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return ErrClosed
	}
	if p, ok := s.stage.get(index); ok {
		copy(buf, p)
		return nil
	}
	_, err := s.f.ReadAt(buf[:s.pageSize], int64(index*s.pageSize))
	return err
}

func (s *File) WritePage(index int, data []byte) error {
	if err := checkIndex(s, "write_page", index); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return ErrClosed
	}
	s.stage.put(index, data, s.pageSize)
	return nil
}

// Commit writes staged pages in order and syncs the image.
func (s *File) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return ErrClosed
	}
	if err := s.stage.flush(func(i int, p []byte) error {
		_, err := s.f.WriteAt(p, int64(i*s.pageSize))
		return err
	}); err != nil {
		return err
	}
	return s.f.Sync()
}

func (s *File) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	s.stage.discard()
	err := s.f.Close()
	s.f = nil
	return err
}
