package cmdlog

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"ledserial-go/errcode"
	"ledserial-go/pagestore"
)

const width = 55

func collect(t *testing.T, l *Log) []string {
	t.Helper()
	it := l.Replay()
	var out []string
	for {
		rec, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, string(rec))
	}
	if err := it.Err(); err != nil {
		t.Fatalf("replay: %v", err)
	}
	return out
}

func mustOpen(t *testing.T, s pagestore.Store) *Log {
	t.Helper()
	l, err := Open(s, width)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return l
}

func appendN(t *testing.T, l *Log, from, to int) {
	t.Helper()
	for i := from; i <= to; i++ {
		if err := l.Append([]byte(fmt.Sprintf("cmd %d", i))); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
}

func TestFreshStoreIsFormatted(t *testing.T) {
	m := pagestore.NewMem(9, 64)
	l := mustOpen(t, m)
	if l.Capacity() != 8 || l.Next() != 1 {
		t.Fatalf("capacity=%d next=%d", l.Capacity(), l.Next())
	}
	if hdr := m.Committed(0); hdr[0] != 1 || hdr[1] != 0 {
		t.Fatalf("header not committed: % x", hdr[:2])
	}
	if got := collect(t, l); len(got) != 0 {
		t.Fatalf("fresh log not empty: %q", got)
	}
}

func TestErasedHeaderIsFormatted(t *testing.T) {
	m := pagestore.NewMem(5, 64)
	erased := make([]byte, 64)
	for i := range erased {
		erased[i] = 0xFF
	}
	_ = m.WritePage(0, erased)
	_ = m.Commit()

	l := mustOpen(t, m)
	if l.Next() != 1 {
		t.Fatalf("next = %d, want 1", l.Next())
	}
}

func TestAppendReplayInOrder(t *testing.T) {
	l := mustOpen(t, pagestore.NewMem(9, 64))
	appendN(t, l, 1, 3)

	got := collect(t, l)
	want := []string{"cmd 1", "cmd 2", "cmd 3"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("replay = %q, want %q", got, want)
	}
	if l.Len() != 3 || l.Next() != 4 {
		t.Fatalf("len=%d next=%d", l.Len(), l.Next())
	}
}

func TestExactlyCapacityRoundTrips(t *testing.T) {
	l := mustOpen(t, pagestore.NewMem(5, 64))
	appendN(t, l, 1, 4)

	if l.Next() != 1 {
		t.Fatalf("index should wrap to 1, got %d", l.Next())
	}
	got := collect(t, l)
	if len(got) != 4 || got[0] != "cmd 1" || got[3] != "cmd 4" {
		t.Fatalf("replay = %q", got)
	}
}

func TestOverflowDropsOldest(t *testing.T) {
	l := mustOpen(t, pagestore.NewMem(5, 64))
	appendN(t, l, 1, 6)

	got := collect(t, l)
	want := []string{"cmd 3", "cmd 4", "cmd 5", "cmd 6"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("replay = %q, want %q", got, want)
	}
}

func TestIndexNeverZero(t *testing.T) {
	l := mustOpen(t, pagestore.NewMem(4, 64))
	for i := 0; i < 20; i++ {
		if err := l.Append([]byte("x")); err != nil {
			t.Fatal(err)
		}
		if n := l.Next(); n < 1 || n > l.Capacity() {
			t.Fatalf("index %d outside 1..%d", n, l.Capacity())
		}
	}
}

func TestRecordTruncatedToWidth(t *testing.T) {
	l := mustOpen(t, pagestore.NewMem(3, 64))
	long := make([]byte, 80)
	for i := range long {
		long[i] = 'a'
	}
	if err := l.Append(long); err != nil {
		t.Fatal(err)
	}
	got := collect(t, l)
	if len(got) != 1 || len(got[0]) != width {
		t.Fatalf("record length = %d, want %d", len(got[0]), width)
	}
}

func TestResetEmptiesLog(t *testing.T) {
	m := pagestore.NewMem(5, 64)
	l := mustOpen(t, m)
	appendN(t, l, 1, 6)

	if err := l.Reset(); err != nil {
		t.Fatal(err)
	}
	if got := collect(t, l); len(got) != 0 {
		t.Fatalf("replay after reset = %q", got)
	}
	if hdr := m.Committed(0); hdr[0] != 1 || hdr[1] != 0 {
		t.Fatalf("reset header = % x", hdr[:2])
	}

	appendN(t, l, 7, 7)
	if got := collect(t, l); len(got) != 1 || got[0] != "cmd 7" {
		t.Fatalf("replay = %q", got)
	}
}

func TestIteratorRestartable(t *testing.T) {
	l := mustOpen(t, pagestore.NewMem(5, 64))
	appendN(t, l, 1, 2)

	it := l.Replay()
	first, _ := it.Next()
	it.Reset()
	again, _ := it.Next()
	if string(first) != string(again) {
		t.Fatalf("restart mismatch %q vs %q", first, again)
	}
	if it.Len() != 2 {
		t.Fatalf("len = %d", it.Len())
	}
}

func TestCommitFailureIsStorageFailure(t *testing.T) {
	m := pagestore.NewMem(5, 64)
	l := mustOpen(t, m)
	appendN(t, l, 1, 1)

	boom := errors.New("bus nack")
	m.FailCommit = func(int) error { return boom }

	err := l.Append([]byte("lost"))
	if !errcode.Is(err, errcode.StorageFailure) {
		t.Fatalf("err = %v, want storage_failure", err)
	}
	if !errors.Is(err, boom) {
		t.Fatal("cause not preserved")
	}
	if l.Next() != 2 {
		t.Fatalf("index advanced on failure: %d", l.Next())
	}
}

func TestWriteFailureIsStorageFailure(t *testing.T) {
	m := pagestore.NewMem(5, 64)
	l := mustOpen(t, m)
	m.FailWrite = func(int) error { return errors.New("wp asserted") }

	if err := l.Append([]byte("x")); !errcode.Is(err, errcode.StorageFailure) {
		t.Fatalf("err = %v", err)
	}
}

func TestReplayReadFailureStopsIteration(t *testing.T) {
	m := pagestore.NewMem(5, 64)
	l := mustOpen(t, m)
	appendN(t, l, 1, 3)
	m.FailRead = func(i int) error {
		if i == 2 {
			return errors.New("read nack")
		}
		return nil
	}

	it := l.Replay()
	n := 0
	for {
		if _, ok := it.Next(); !ok {
			break
		}
		n++
	}
	if n != 1 || !errcode.Is(it.Err(), errcode.StorageFailure) {
		t.Fatalf("n=%d err=%v", n, it.Err())
	}
}

func TestBadGeometryRejected(t *testing.T) {
	if _, err := Open(pagestore.NewMem(1, 64), width); err == nil {
		t.Fatal("single page store accepted")
	}
	if _, err := Open(pagestore.NewMem(4, 32), width); err == nil {
		t.Fatal("record wider than page accepted")
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.img")
	f, err := pagestore.OpenFile(path, 5, 64)
	if err != nil {
		t.Fatal(err)
	}
	l := mustOpen(t, f)
	appendN(t, l, 1, 5)
	_ = f.Close()

	f, err = pagestore.OpenFile(path, 5, 64)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	l = mustOpen(t, f)
	got := collect(t, l)
	want := []string{"cmd 2", "cmd 3", "cmd 4", "cmd 5"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("replay after reopen = %q, want %q", got, want)
	}
}
