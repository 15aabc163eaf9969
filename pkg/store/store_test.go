package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/relayout/pkg/document"
	"github.com/matzehuels/relayout/pkg/errors"
)

func testDocument(name string) *document.Document {
	return &document.Document{
		Name: name,
		Components: []document.Component{
			{ID: "A", Width: 40, Height: 10, Left: document.Anchor(0), Right: document.Ref("B")},
			{ID: "B", Width: 50, Height: 10, Right: document.Anchor(1)},
		},
	}
}

// clock returns a fake time source that advances one second per call.
func clock() func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	first := &Record{Document: testDocument("first")}
	if err := s.Put(ctx, first); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if first.ID == "" {
		t.Fatal("Put did not assign an ID")
	}
	if first.Name != "first" {
		t.Errorf("Name = %q, want the document name", first.Name)
	}
	if first.CreatedAt.IsZero() || !first.CreatedAt.Equal(first.UpdatedAt) {
		t.Errorf("times = %v / %v", first.CreatedAt, first.UpdatedAt)
	}

	second := &Record{Document: testDocument("second")}
	if err := s.Put(ctx, second); err != nil {
		t.Fatalf("Put second: %v", err)
	}

	got, err := s.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "first" || len(got.Document.Components) != 2 {
		t.Errorf("Get = %+v", got)
	}
	if r := got.Document.Components[0].Right; r == nil || r.Component != "B" {
		t.Errorf("reference lost in round trip: %+v", got.Document.Components[0])
	}
	if a := got.Document.Components[0].Left; a == nil || a.Anchor == nil || *a.Anchor != 0 {
		t.Errorf("anchor lost in round trip: %+v", got.Document.Components[0])
	}

	// Replacing keeps CreatedAt and moves UpdatedAt.
	replaced := &Record{ID: first.ID, Document: testDocument("renamed")}
	if err := s.Put(ctx, replaced); err != nil {
		t.Fatalf("Put replace: %v", err)
	}
	if !replaced.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", replaced.CreatedAt, first.CreatedAt)
	}
	if !replaced.UpdatedAt.After(first.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want after %v", replaced.UpdatedAt, first.UpdatedAt)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("List = %+v, want [first second]", list)
	}
	if list[0].Name != "renamed" {
		t.Errorf("List[0].Name = %q, want renamed", list[0].Name)
	}

	if err := s.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, first.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get after Delete error = %v", err)
	}
	if err := s.Delete(ctx, first.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("second Delete error = %v", err)
	}
}

func testStoreRejects(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	tests := []struct {
		name string
		rec  *Record
	}{
		{"nil", nil},
		{"no document", &Record{}},
		{"bad id", &Record{ID: "not-a-uuid", Document: testDocument("x")}},
		{"bad document", &Record{Document: &document.Document{Components: []document.Component{{ID: ""}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Put(ctx, tt.rec); err == nil {
				t.Error("Put should fail")
			}
		})
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	s.now = clock()
	defer s.Close()
	testStore(t, s)
	testStoreRejects(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "layouts.db"))
	if err != nil {
		t.Fatal(err)
	}
	s.now = clock()
	defer s.Close()
	testStore(t, s)
	testStoreRejects(t, s)
}

func TestSQLiteStoreInMemory(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	rec := &Record{Document: testDocument("mem")}
	if err := s.Put(context.Background(), rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := s.Get(context.Background(), rec.ID); err != nil {
		t.Errorf("Get: %v", err)
	}
}

func TestSQLiteStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layouts.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	rec := &Record{Document: testDocument("kept")}
	if err := s.Put(context.Background(), rec); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.Get(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got.Name != "kept" {
		t.Errorf("Name = %q", got.Name)
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("RELAYOUT_TEST_MONGO")
	if uri == "" {
		t.Skip("RELAYOUT_TEST_MONGO not set")
	}
	ctx := context.Background()
	s, err := OpenMongo(ctx, MongoConfig{URI: uri, Database: "relayout_test"})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.coll.Drop(ctx); err != nil {
		t.Fatal(err)
	}
	s.now = clock()
	testStore(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, "", "")
	if err != nil {
		t.Fatalf("Open default: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("default backend = %T, want *MemoryStore", s)
	}

	s, err = Open(ctx, BackendSQLite, filepath.Join(t.TempDir(), "x.db"))
	if err != nil {
		t.Fatalf("Open sqlite: %v", err)
	}
	s.Close()

	if _, err := Open(ctx, "postgres", ""); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown backend error = %v", err)
	}
	if _, err := Open(ctx, BackendMongo, ""); err == nil {
		t.Error("mongo without uri should fail")
	}
}
