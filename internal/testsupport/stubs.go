package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// InstallConversionStubs places fake ffmpeg and whisper-cli binaries on
// PATH. The ffmpeg stub copies the file named by -i to its last argument,
// and the whisper stub copies the -f input to the -of prefix plus ".txt".
// Chained through the pipeline, a source video's bytes become its
// transcript text, which lets tests drive name detection with plain
// strings instead of real media.
func InstallConversionStubs(t testing.TB) {
	t.Helper()
	binDir := t.TempDir()

	ffmpegScript := `#!/bin/sh
src=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "-i" ]; then src="$arg"; fi
  prev="$arg"
done
for last in "$@"; do :; done
cp "$src" "$last"
`
	whisperScript := `#!/bin/sh
src=""
out=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "-f" ]; then src="$arg"; fi
  if [ "$prev" = "-of" ]; then out="$arg"; fi
  prev="$arg"
done
cp "$src" "$out.txt"
`
	if err := os.WriteFile(filepath.Join(binDir, "ffmpeg"), []byte(ffmpegScript), 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}
	if err := os.WriteFile(filepath.Join(binDir, "whisper-cli"), []byte(whisperScript), 0o755); err != nil {
		t.Fatalf("write whisper-cli stub: %v", err)
	}

	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
}
