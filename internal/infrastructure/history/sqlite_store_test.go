package history

import (
	"testing"
	"time"

	"github.com/doeshing/exa-go/internal/domain"
)

func TestSaveAndRecords(t *testing.T) {
	store := NewSQLiteStore(t.TempDir())
	defer store.Close()

	recs := []domain.InvocationRecord{
		{Timestamp: time.Now().Add(-2 * time.Minute), Command: "search", Query: "golang generics", Status: "success", KeyIndex: 0, CacheHit: false, DurationMS: 240},
		{Timestamp: time.Now().Add(-time.Minute), Command: "search", Query: "golang generics", Status: "success", KeyIndex: 0, CacheHit: true, DurationMS: 3},
		{Timestamp: time.Now(), Command: "content", Query: "https://example.com", Status: "error", KeyIndex: 1, DurationMS: 90},
	}
	for _, rec := range recs {
		if err := store.Save(rec); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	got, err := store.Records(10, "")
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	if got[0].Command != "content" {
		t.Fatalf("newest record = %+v, want the content invocation first", got[0])
	}
	if !got[1].CacheHit {
		t.Fatal("cache hit flag lost in round trip")
	}
}

func TestRecordsSearchFilter(t *testing.T) {
	store := NewSQLiteStore(t.TempDir())
	defer store.Close()

	store.Save(domain.InvocationRecord{Timestamp: time.Now(), Command: "search", Query: "rust ownership", Status: "success"})
	store.Save(domain.InvocationRecord{Timestamp: time.Now(), Command: "search", Query: "go channels", Status: "success"})

	got, err := store.Records(10, "channels")
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}
	if len(got) != 1 || got[0].Query != "go channels" {
		t.Fatalf("filtered records = %+v", got)
	}
}

func TestDegradedStoreIsNoOp(t *testing.T) {
	store := &SQLiteStore{}
	if err := store.Save(domain.InvocationRecord{Command: "search"}); err != nil {
		t.Fatalf("degraded Save() error = %v", err)
	}
	recs, err := store.Records(10, "")
	if err != nil || recs != nil {
		t.Fatalf("degraded Records() = %v, %v", recs, err)
	}
}
