package storage

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/goccy/go-json"
	"github.com/pixil98/go-testutil"
)

// mockStoreSpec implements ValidatingSpec for testing Store
type mockStoreSpec struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func (s *mockStoreSpec) Validate() error {
	return nil
}

func assetFile(t *testing.T, id string, spec *mockStoreSpec) *fstest.MapFile {
	t.Helper()
	data, err := json.Marshal(Asset[*mockStoreSpec]{Version: 1, Identifier: Identifier(id), Spec: spec})
	if err != nil {
		t.Fatalf("failed to marshal test asset: %v", err)
	}
	return &fstest.MapFile{Data: data}
}

func TestNewStore(t *testing.T) {
	tests := map[string]struct {
		files    func(t *testing.T) fstest.MapFS
		expCount int
		expErr   string
	}{
		"empty directory": {
			files: func(t *testing.T) fstest.MapFS {
				return fstest.MapFS{"items/.keep": &fstest.MapFile{}}
			},
		},
		"loads nested assets": {
			files: func(t *testing.T) fstest.MapFS {
				return fstest.MapFS{
					"items/item-1.json":      assetFile(t, "item-1", &mockStoreSpec{Name: "First", Value: 1}),
					"items/deep/item-2.json": assetFile(t, "item-2", &mockStoreSpec{Name: "Second", Value: 2}),
					"rooms/room-1.json":      assetFile(t, "room-1", &mockStoreSpec{Name: "Room"}),
				}
			},
			expCount: 2,
		},
		"ignores non json files": {
			files: func(t *testing.T) fstest.MapFS {
				return fstest.MapFS{
					"items/valid.json": assetFile(t, "valid", &mockStoreSpec{Name: "Valid"}),
					"items/readme.txt": &fstest.MapFile{Data: []byte("ignore me")},
					"items/data.yaml":  &fstest.MapFile{Data: []byte("ignore: me")},
				}
			},
			expCount: 1,
		},
		"missing directory": {
			files: func(t *testing.T) fstest.MapFS {
				return fstest.MapFS{}
			},
			expErr: "listing items",
		},
		"invalid json": {
			files: func(t *testing.T) fstest.MapFS {
				return fstest.MapFS{"items/bad.json": &fstest.MapFile{Data: []byte(`{invalid json`)}}
			},
			expErr: "unmarshalling asset",
		},
		"validation error": {
			files: func(t *testing.T) fstest.MapFS {
				return fstest.MapFS{"items/test.json": &fstest.MapFile{Data: []byte(`{"id":"test","spec":{"name":"Test"}}`)}}
			},
			expErr: "version must be set",
		},
		"duplicate key": {
			files: func(t *testing.T) fstest.MapFS {
				return fstest.MapFS{
					"items/file1.json":        assetFile(t, "duplicate-id", &mockStoreSpec{Name: "Test"}),
					"items/subdir/file2.json": assetFile(t, "duplicate-id", &mockStoreSpec{Name: "Test"}),
				}
			},
			expErr: "duplicate key detected: duplicate-id",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			store, err := NewStore[*mockStoreSpec](NewFSSource(tt.files(t)), "items")
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "record count", store.Len(), tt.expCount)
		})
	}
}

func TestStore_Get(t *testing.T) {
	src := NewFSSource(fstest.MapFS{
		"items/existing.json": assetFile(t, "existing", &mockStoreSpec{Name: "Test", Value: 42}),
	})
	store, err := NewStore[*mockStoreSpec](src, "items")
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}

	tests := map[string]struct {
		id       string
		expNil   bool
		expName  string
		expValue int
	}{
		"get existing record": {
			id:       "existing",
			expName:  "Test",
			expValue: 42,
		},
		"get non-existing record": {
			id:     "nonexistent",
			expNil: true,
		},
		"get empty id": {
			id:     "",
			expNil: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			result := store.Get(tt.id)

			if tt.expNil {
				if result != nil {
					t.Errorf("expected nil, got %v", result)
				}
				return
			}
			if result == nil {
				t.Fatal("expected non-nil result")
			}
			testutil.AssertEqual(t, "name", result.Name, tt.expName)
			testutil.AssertEqual(t, "value", result.Value, tt.expValue)
		})
	}
}

func TestStore_GetAllIsCopy(t *testing.T) {
	src := NewFSSource(fstest.MapFS{
		"items/one.json": assetFile(t, "one", &mockStoreSpec{Name: "One"}),
		"items/two.json": assetFile(t, "two", &mockStoreSpec{Name: "Two"}),
	})
	store, err := NewStore[*mockStoreSpec](src, "items")
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}

	all := store.GetAll()
	delete(all, "one")

	testutil.AssertEqual(t, "store count", store.Len(), 2)
	ids := store.Ids()
	testutil.AssertEqual(t, "id count", len(ids), 2)
	testutil.AssertEqual(t, "first id", ids[0], "one")
	testutil.AssertEqual(t, "second id", ids[1], "two")
}

func TestDirSource(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, "rooms", "town"), 0755); err != nil {
		t.Fatalf("failed to create dirs: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "rooms", "town", "square.json"), []byte("square"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "rooms", "gate.json"), []byte("gate"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	src, err := NewDirSource(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	files, err := src.List("rooms")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "file count", len(files), 2)
	testutil.AssertEqual(t, "first file", files[0], "rooms/gate.json")
	testutil.AssertEqual(t, "second file", files[1], "rooms/town/square.json")

	text, err := src.ReadText("/rooms/town/square.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "text", text, "square")

	_, err = src.ReadBytes("rooms/missing.json")
	testutil.AssertErrorContains(t, err, "reading rooms/missing.json")
}

func TestNewDirSource_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := NewDirSource(file)
	testutil.AssertErrorContains(t, err, "is not a directory")

	_, err = NewDirSource("/nonexistent/path/that/does/not/exist")
	testutil.AssertErrorContains(t, err, "opening world directory")
}

func TestZipSource(t *testing.T) {
	bundle := filepath.Join(t.TempDir(), "world.zip")
	f, err := os.Create(bundle)
	if err != nil {
		t.Fatalf("failed to create bundle: %v", err)
	}
	zw := zip.NewWriter(f)
	data, err := json.Marshal(Asset[*mockStoreSpec]{Version: 1, Identifier: "zipped", Spec: &mockStoreSpec{Name: "Zipped", Value: 7}})
	if err != nil {
		t.Fatalf("failed to marshal test asset: %v", err)
	}
	w, err := zw.Create("items/zipped.json")
	if err != nil {
		t.Fatalf("failed to add file: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close bundle: %v", err)
	}

	src, err := OpenZipSource(bundle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = src.Close() }()

	store, err := NewStore[*mockStoreSpec](src, "items")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := store.Get("zipped")
	if got == nil {
		t.Fatal("expected zipped asset to be loaded")
	}
	testutil.AssertEqual(t, "value", got.Value, 7)
}
