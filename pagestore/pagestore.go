// Package pagestore provides the fixed-size page collaborator behind the
// command log. Page 0 is reserved for the log header.
//
// Writes are staged until Commit; reads observe staged pages. Commit flushes
// staged pages in the order they were written.
package pagestore

import (
	"errors"

	"ledserial-go/errcode"
)

// Store reads and writes whole pages.
type Store interface {
	PageSize() int
	Pages() int
	ReadPage(index int, buf []byte) error
	WritePage(index int, data []byte) error
	Commit() error
}

var (
	ErrShortBuffer = errors.New("short_buffer")
	ErrClosed      = errors.New("store_closed")
)

func checkIndex(s Store, op string, index int) error {
	if index < 0 || index >= s.Pages() {
		return errcode.New(errcode.InvalidPage, op, "page out of range")
	}
	return nil
}

// staging keeps uncommitted pages in write order; a rewrite of a staged page
// keeps its original position.
type staging struct {
	order []int
	pages map[int][]byte
}

func (s *staging) put(index int, data []byte, size int) {
	if s.pages == nil {
		s.pages = make(map[int][]byte)
	}
	p, ok := s.pages[index]
	if !ok {
		p = make([]byte, size)
		s.pages[index] = p
		s.order = append(s.order, index)
	}
	n := copy(p, data)
	clear(p[n:])
}

func (s *staging) get(index int) ([]byte, bool) {
	p, ok := s.pages[index]
	return p, ok
}

// flush hands each staged page to write in order. Pages written successfully
// are dropped from staging; the first failure stops the flush.
func (s *staging) flush(write func(index int, data []byte) error) error {
	for len(s.order) > 0 {
		i := s.order[0]
		if err := write(i, s.pages[i]); err != nil {
			return err
		}
		delete(s.pages, i)
		s.order = s.order[1:]
	}
	return nil
}

func (s *staging) discard() {
	s.order = nil
	clear(s.pages)
}
