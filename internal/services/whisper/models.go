package whisper

import "path/filepath"

// DefaultModelSize balances accuracy against CPU cost for short intros.
const DefaultModelSize = "base"

// modelSizes lists the ggml models published for whisper.cpp, smallest
// first. The .en variants are English-only and slightly more accurate for
// English speech at the same size.
var modelSizes = []string{
	"tiny",
	"tiny.en",
	"base",
	"base.en",
	"small",
	"small.en",
	"medium",
	"medium.en",
	"large-v1",
	"large-v2",
	"large-v3",
	"large-v3-turbo",
}

// ModelSizes returns the known model sizes in ascending size order.
func ModelSizes() []string {
	cp := make([]string, len(modelSizes))
	copy(cp, modelSizes)
	return cp
}

// IsKnownModelSize reports whether size names a published ggml model.
func IsKnownModelSize(size string) bool {
	for _, known := range modelSizes {
		if known == size {
			return true
		}
	}
	return false
}

// ModelFileName returns the conventional ggml file name for a model size,
// e.g. "ggml-base.bin".
func ModelFileName(size string) string {
	return "ggml-" + size + ".bin"
}

// ModelPath resolves the on-disk location of a model size under the cache
// directory.
func ModelPath(cacheDir, size string) string {
	return filepath.Join(cacheDir, ModelFileName(size))
}
