package pagestore

import "sync"

// Mem is an in-memory Store. Hooks allow tests to inject faults.
type Mem struct {
	mu       sync.Mutex
	pageSize int
	pages    [][]byte
	stage    staging

	// Optional fault hooks; a non-nil error fails the operation.
	FailRead   func(index int) error
	FailWrite  func(index int) error
	FailCommit func(index int) error // called per page as it is flushed
}

// NewMem returns a zero-filled store of pages pages.
func NewMem(pages, pageSize int) *Mem {
	m := &Mem{pageSize: pageSize, pages: make([][]byte, pages)}
	for i := range m.pages {
		m.pages[i] = make([]byte, pageSize)
	}
	return m
}

func (m *Mem) PageSize() int { return m.pageSize }
func (m *Mem) Pages() int    { return len(m.pages) }

func (m *Mem) ReadPage(index int, buf []byte) error {
	if err := checkIndex(m, "read_page", index); err != nil {
		return err
	}
	if len(buf) < m.pageSize {
		return ErrShortBuffer
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRead != nil {
		if err := m.FailRead(index); err != nil {
			return err
		}
	}
	if p, ok := m.stage.get(index); ok {
		copy(buf, p)
		return nil
	}
	copy(buf, m.pages[index])
	return nil
}

func (m *Mem) WritePage(index int, data []byte) error {
	if err := checkIndex(m, "write_page", index); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrite != nil {
		if err := m.FailWrite(index); err != nil {
			return err
		}
	}
	m.stage.put(index, data, m.pageSize)
	return nil
}

func (m *Mem) Commit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stage.flush(func(i int, p []byte) error {
		if m.FailCommit != nil {
			if err := m.FailCommit(i); err != nil {
				return err
			}
		}
		copy(m.pages[i], p)
		return nil
	})
}

// PowerLoss drops every staged, uncommitted page.
func (m *Mem) PowerLoss() {
	m.mu.Lock()
	m.stage.discard()
	m.mu.Unlock()
}

// Committed returns a copy of the durable contents of page index.
func (m *Mem) Committed(index int) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.pages[index]...)
}
