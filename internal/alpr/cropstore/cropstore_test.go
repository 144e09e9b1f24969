package cropstore

import (
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileStoreCreatesLayout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "media")
	if _, err := NewFileStore(root); err != nil {
		t.Fatal(err)
	}
	for _, sub := range []string{"plates", "cars"} {
		info, err := os.Stat(filepath.Join(root, sub))
		if err != nil {
			t.Fatalf("stat %s: %v", sub, err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", sub)
		}
	}
}

func TestSaveCrop(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))

	tests := []struct {
		kind    string
		wantDir string
	}{
		{"plate", "plates"},
		{"car", "cars"},
	}
	for _, tt := range tests {
		rel, err := store.SaveCrop(img, tt.kind)
		if err != nil {
			t.Fatalf("SaveCrop(%s): %v", tt.kind, err)
		}
		if !strings.HasPrefix(rel, tt.wantDir+"/") {
			t.Errorf("SaveCrop(%s) path = %q, want %s/ prefix", tt.kind, rel, tt.wantDir)
		}
		if !strings.HasSuffix(rel, ".jpg") {
			t.Errorf("SaveCrop(%s) path = %q, want .jpg suffix", tt.kind, rel)
		}

		f, err := os.Open(filepath.Join(store.Root, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatalf("open saved crop: %v", err)
		}
		decoded, err := jpeg.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode saved crop: %v", err)
		}
		if decoded.Bounds().Dx() != 40 || decoded.Bounds().Dy() != 20 {
			t.Errorf("saved crop bounds = %v, want 40x20", decoded.Bounds())
		}
	}
}

func TestSaveCropUniqueNames(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		rel, err := store.SaveCrop(img, "plate")
		if err != nil {
			t.Fatal(err)
		}
		if seen[rel] {
			t.Fatalf("duplicate crop name %q", rel)
		}
		seen[rel] = true
	}
}
