package imaging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEncodeEdgeMap(t *testing.T) {
	edges, err := Apply(splitBGR(12, 16, 8, black, white))
	if err != nil {
		t.Fatal(err)
	}

	result, err := EncodeEdgeMap(edges)
	if err != nil {
		t.Fatalf("EncodeEdgeMap failed: %v", err)
	}
	if result.Width != 16 || result.Height != 12 {
		t.Errorf("dimensions: got %dx%d, want 16x12", result.Width, result.Height)
	}
	if result.EdgePixels != edges.EdgeCount() {
		t.Errorf("EdgePixels: got %d, want %d", result.EdgePixels, edges.EdgeCount())
	}

	img := decodeResultPNG(t, result)
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			if byte(r>>8) != edges.At(x, y) {
				t.Fatalf("pixel (%d, %d): PNG has %d, edge map has %d", x, y, r>>8, edges.At(x, y))
			}
		}
	}
}

func TestSaveEdgeMap(t *testing.T) {
	edges, err := Apply(splitBGR(10, 10, 5, black, white))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "edges.png")
	if err := SaveEdgeMap(edges, path); err != nil {
		t.Fatalf("SaveEdgeMap failed: %v", err)
	}

	loaded, err := LoadColorImage(NewImageCache(), path, 0)
	if err != nil {
		t.Fatalf("reloading saved edge map: %v", err)
	}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if loaded.Pix[(y*10+x)*Channels] != edges.At(x, y) {
				t.Fatalf("pixel (%d, %d) changed after save", x, y)
			}
		}
	}
}

func TestSaveImage_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.xyz")
	if err := SaveEdgeMap(NewEdgeMap(2, 2), path); err == nil {
		t.Error("SaveEdgeMap should fail for an unknown extension")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written on failure")
	}
}
