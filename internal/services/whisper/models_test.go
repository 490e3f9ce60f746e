package whisper_test

import (
	"path/filepath"
	"testing"

	"github.com/aaronmeis/utility-mp4tomp3/internal/services/whisper"
)

func TestModelCatalog(t *testing.T) {
	if !whisper.IsKnownModelSize("base") || !whisper.IsKnownModelSize("large-v3-turbo") {
		t.Fatal("expected published sizes to be known")
	}
	if whisper.IsKnownModelSize("enormous") {
		t.Fatal("unknown size accepted")
	}

	if got := whisper.ModelFileName("base.en"); got != "ggml-base.en.bin" {
		t.Fatalf("ModelFileName = %q", got)
	}
	if got := whisper.ModelPath("/cache/models", "tiny"); got != filepath.Join("/cache/models", "ggml-tiny.bin") {
		t.Fatalf("ModelPath = %q", got)
	}

	sizes := whisper.ModelSizes()
	if len(sizes) == 0 || sizes[0] != "tiny" {
		t.Fatalf("ModelSizes = %v", sizes)
	}
	sizes[0] = "mutated"
	if whisper.ModelSizes()[0] != "tiny" {
		t.Fatal("ModelSizes returned shared slice")
	}
}
