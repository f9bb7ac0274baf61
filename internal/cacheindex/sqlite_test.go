package cacheindex

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "manifest.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndList(t *testing.T) {
	db := openTestDB(t)

	e := Entry{
		Path:       "pdf/paper.pdf",
		IntraHash:  strings.Repeat("a", 32),
		User:       "jaeschke",
		SourceFile: "paper_oa.pdf",
		Kind:       "document",
		Size:       1234,
		FetchedAt:  time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
	}
	if err := db.Record(e); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	entries, err := db.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("List() returned %d entries, want 1", len(entries))
	}

	got := entries[0]
	if got.Path != e.Path || got.SourceFile != e.SourceFile || got.Size != e.Size {
		t.Errorf("List() = %+v, want %+v", got, e)
	}
	if !got.FetchedAt.Equal(e.FetchedAt) {
		t.Errorf("FetchedAt = %v, want %v", got.FetchedAt, e.FetchedAt)
	}
}

func TestRecord_UpsertsByPath(t *testing.T) {
	db := openTestDB(t)

	e := Entry{Path: "pdf/p.pdf", IntraHash: strings.Repeat("a", 32), User: "u", SourceFile: "p.pdf", Kind: "document", Size: 1, FetchedAt: time.Now()}
	if err := db.Record(e); err != nil {
		t.Fatal(err)
	}
	e.Size = 99
	if err := db.Record(e); err != nil {
		t.Fatal(err)
	}

	entries, _ := db.List()
	if len(entries) != 1 {
		t.Fatalf("upsert created %d rows, want 1", len(entries))
	}
	if entries[0].Size != 99 {
		t.Errorf("Size = %d, want updated value 99", entries[0].Size)
	}
}

func TestByHash(t *testing.T) {
	db := openTestDB(t)

	hashA := strings.Repeat("a", 32)
	hashB := strings.Repeat("b", 32)
	db.Record(Entry{Path: "pdf/a.pdf", IntraHash: hashA, User: "u", SourceFile: "a.pdf", Kind: "document", FetchedAt: time.Now()})
	db.Record(Entry{Path: "previews/small/a.pdf.jpg", IntraHash: hashA, User: "u", SourceFile: "a.pdf", Kind: "preview", FetchedAt: time.Now()})
	db.Record(Entry{Path: "pdf/b.pdf", IntraHash: hashB, User: "u", SourceFile: "b.pdf", Kind: "document", FetchedAt: time.Now()})

	entries, err := db.ByHash(hashA)
	if err != nil {
		t.Fatalf("ByHash() error: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("ByHash() returned %d entries, want 2", len(entries))
	}
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)

	db.Record(Entry{Path: "pdf/a.pdf", IntraHash: strings.Repeat("a", 32), User: "u", SourceFile: "a.pdf", Kind: "document", Size: 100, FetchedAt: time.Now()})
	db.Record(Entry{Path: "previews/small/a.pdf.jpg", IntraHash: strings.Repeat("a", 32), User: "u", SourceFile: "a.pdf", Kind: "preview", Size: 10, FetchedAt: time.Now()})

	s, err := db.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	if s.Documents != 1 || s.Previews != 1 || s.TotalSize != 110 {
		t.Errorf("GetStats() = %+v", s)
	}
}

func TestList_EmptyManifest(t *testing.T) {
	db := openTestDB(t)
	entries, err := db.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List() = %v, want empty", entries)
	}
}
