// Package cmdlog is the fixed-slot circular command log kept in a page store.
//
// Layout: page 0 is the header (byte 0 = next write slot in 1..N, byte 1 =
// flags). Pages 1..N each hold one zero-padded record.
package cmdlog

import (
	"bytes"
	"sync"

	"ledserial-go/errcode"
	"ledserial-go/pagestore"
	"ledserial-go/x/logx"
)

const (
	headerPage = 0

	hdrNext  = 0
	hdrFlags = 1

	flagWrapped = 0x01

	// The next-slot index is a single byte.
	maxSlots = 255
)

// Log appends records at a wrapping slot index. Safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	store   pagestore.Store
	width   int
	slots   int
	next    int
	wrapped bool
	scratch []byte
}

// Open loads the header from store. A header that does not hold a valid slot
// (fresh or erased memory) is rewritten as an empty log.
func Open(store pagestore.Store, recordWidth int) (*Log, error) {
	ps := store.PageSize()
	if store.Pages() < 2 || ps < 2 || recordWidth <= 0 || recordWidth > ps {
		return nil, errcode.New(errcode.InvalidPage, "open", "store geometry cannot hold the log")
	}
	l := &Log{
		store:   store,
		width:   recordWidth,
		slots:   min(store.Pages()-1, maxSlots),
		scratch: make([]byte, ps),
	}
	if err := store.ReadPage(headerPage, l.scratch); err != nil {
		return nil, errcode.Wrap(errcode.StorageFailure, "read_header", err)
	}
	next := int(l.scratch[hdrNext])
	if next < 1 || next > l.slots {
		logx.Warn("command log header invalid, formatting", "next", next, "slots", l.slots)
		l.next, l.wrapped = 1, false
		if err := l.commitHeader(1, false); err != nil {
			return nil, err
		}
		return l, nil
	}
	l.next = next
	l.wrapped = l.scratch[hdrFlags]&flagWrapped != 0
	return l, nil
}

// Capacity is the number of record slots N.
func (l *Log) Capacity() int { return l.slots }

// RecordWidth is the maximum stored length of one line.
func (l *Log) RecordWidth() int { return l.width }

// Next returns the slot the next Append will occupy.
func (l *Log) Next() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.next
}

// Len is the number of records Replay will yield.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.wrapped {
		return l.slots
	}
	return l.next - 1
}

// Append stores line (truncated to the record width) in the next slot and
// advances the index, wrapping N back to 1. The record page is written before
// the header and both are committed before Append returns. On failure the
// in-memory index is left unchanged.
func (l *Log) Append(line []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := l.scratch
	clear(rec)
	copy(rec[:l.width], line)
	if err := l.store.WritePage(l.next, rec); err != nil {
		return errcode.Wrap(errcode.StorageFailure, "write_record", err)
	}

	next, wrapped := l.next+1, l.wrapped
	if next > l.slots {
		next, wrapped = 1, true
	}
	if err := l.commitHeader(next, wrapped); err != nil {
		return err
	}
	l.next, l.wrapped = next, wrapped
	return nil
}

// Reset makes every record invisible by pointing the header back at slot 1.
// Record bodies stay in place until overwritten.
func (l *Log) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.commitHeader(1, false); err != nil {
		return err
	}
	l.next, l.wrapped = 1, false
	return nil
}

// caller holds l.mu (or owns l exclusively)
func (l *Log) commitHeader(next int, wrapped bool) error {
	hdr := make([]byte, l.store.PageSize())
	hdr[hdrNext] = byte(next)
	if wrapped {
		hdr[hdrFlags] = flagWrapped
	}
	if err := l.store.WritePage(headerPage, hdr); err != nil {
		return errcode.Wrap(errcode.StorageFailure, "write_header", err)
	}
	if err := l.store.Commit(); err != nil {
		return errcode.Wrap(errcode.StorageFailure, "commit", err)
	}
	return nil
}

// Replay returns a lazy iterator over the visible records, oldest first.
// The iterator is bound to the index at the time of the call.
func (l *Log) Replay() *Iterator {
	l.mu.Lock()
	defer l.mu.Unlock()
	it := &Iterator{log: l, start: 1, count: l.next - 1}
	if l.wrapped {
		it.start, it.count = l.next, l.slots
	}
	return it
}

// Iterator walks a snapshot of the log's slot range. It is finite and can be
// restarted with Reset.
type Iterator struct {
	log   *Log
	start int
	count int
	pos   int
	err   error
}

// Next returns the next record with trailing padding removed.
func (it *Iterator) Next() ([]byte, bool) {
	if it.err != nil || it.pos >= it.count {
		return nil, false
	}
	l := it.log
	slot := (it.start-1+it.pos)%l.slots + 1
	page := make([]byte, l.store.PageSize())

	l.mu.Lock()
	err := l.store.ReadPage(slot, page)
	l.mu.Unlock()
	if err != nil {
		it.err = errcode.Wrap(errcode.StorageFailure, "read_record", err)
		return nil, false
	}
	it.pos++
	rec := page[:l.width]
	if i := bytes.IndexByte(rec, 0); i >= 0 {
		rec = rec[:i]
	}
	return rec, true
}

// Err reports the read error that stopped iteration, if any.
func (it *Iterator) Err() error { return it.err }

// Len is the total number of records in the snapshot.
func (it *Iterator) Len() int { return it.count }

// Reset rewinds the iterator to the oldest record.
func (it *Iterator) Reset() {
	it.pos = 0
	it.err = nil
}
