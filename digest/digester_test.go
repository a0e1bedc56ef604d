package digest

import (
	"compress/gzip"
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAsset(t *testing.T, root, name, content string) {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDigesterRun(t *testing.T) {
	t.Run("fingerprints files and writes manifest", func(t *testing.T) {
		input := t.TempDir()
		output := t.TempDir()
		writeAsset(t, input, "js/app.js", "console.log(1);")

		manifest, err := New(Config{}).Run(input, output)
		require.NoError(t, err)

		sum := md5.Sum([]byte("console.log(1);"))
		digested := "js/app-" + hex.EncodeToString(sum[:]) + ".js"

		got, ok := manifest.DigestedPath("js/app.js")
		require.True(t, ok)
		assert.Equal(t, digested, got)

		entry, ok := manifest.Lookup(digested)
		require.True(t, ok)
		assert.Equal(t, "js/app.js", entry.LogicalPath)
		assert.Equal(t, int64(15), entry.Size)
		assert.NotEmpty(t, entry.SHA256)

		assert.FileExists(t, filepath.Join(output, "js", "app.js"))
		assert.FileExists(t, filepath.Join(output, filepath.FromSlash(digested)))
		assert.FileExists(t, filepath.Join(output, ManifestName))
	})

	t.Run("emits gzip variants for compressible files", func(t *testing.T) {
		input := t.TempDir()
		output := t.TempDir()
		writeAsset(t, input, "app.css", strings.Repeat("body{color:red}", 50))
		writeAsset(t, input, "logo.png", "\x89PNG fake")

		manifest, err := New(Config{}).Run(input, output)
		require.NoError(t, err)

		digested, ok := manifest.DigestedPath("app.css")
		require.True(t, ok)

		zf, err := os.Open(filepath.Join(output, "app.css.gz"))
		require.NoError(t, err)
		defer zf.Close()

		zr, err := gzip.NewReader(zf)
		require.NoError(t, err)

		body, err := io.ReadAll(zr)
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("body{color:red}", 50), string(body))

		assert.FileExists(t, filepath.Join(output, digested+".gz"))
		assert.NoFileExists(t, filepath.Join(output, "logo.png.gz"))
	})

	t.Run("emits brotli variants when enabled", func(t *testing.T) {
		input := t.TempDir()
		output := t.TempDir()
		writeAsset(t, input, "app.js", "var a = 1;")

		_, err := New(Config{Brotli: true}).Run(input, output)
		require.NoError(t, err)

		bf, err := os.Open(filepath.Join(output, "app.js.br"))
		require.NoError(t, err)
		defer bf.Close()

		body, err := io.ReadAll(brotli.NewReader(bf))
		require.NoError(t, err)
		assert.Equal(t, "var a = 1;", string(body))
	})

	t.Run("skips hidden and already digested files", func(t *testing.T) {
		input := t.TempDir()
		output := t.TempDir()
		writeAsset(t, input, ".hidden/secret.js", "nope")
		writeAsset(t, input, ".DS_Store", "junk")
		writeAsset(t, input, "app-d41d8cd98f00b204e9800998ecf8427e.js", "old")
		writeAsset(t, input, "app.js", "new")

		manifest, err := New(Config{}).Run(input, output)
		require.NoError(t, err)

		assert.Len(t, manifest.Latest, 1)
		_, ok := manifest.DigestedPath("app.js")
		assert.True(t, ok)
	})

	t.Run("rewrites source map references in digested copies", func(t *testing.T) {
		input := t.TempDir()
		output := t.TempDir()
		writeAsset(t, input, "js/app.js", "var a=1;\n//# sourceMappingURL=app.js.map\n")
		writeAsset(t, input, "js/app.js.map", `{"version":3}`)

		manifest, err := New(Config{}).Run(input, output)
		require.NoError(t, err)

		digestedJS, ok := manifest.DigestedPath("js/app.js")
		require.True(t, ok)
		digestedMap, ok := manifest.DigestedPath("js/app.js.map")
		require.True(t, ok)

		body, err := os.ReadFile(filepath.Join(output, filepath.FromSlash(digestedJS)))
		require.NoError(t, err)
		assert.Contains(t, string(body), "sourceMappingURL="+filepath.Base(digestedMap))

		// The undigested copy keeps the undigested reference.
		body, err = os.ReadFile(filepath.Join(output, "js", "app.js"))
		require.NoError(t, err)
		assert.Contains(t, string(body), "sourceMappingURL=app.js.map")
	})

	t.Run("merges previous manifest entries on rerun", func(t *testing.T) {
		input := t.TempDir()
		output := t.TempDir()
		writeAsset(t, input, "app.js", "v1")

		first, err := New(Config{}).Run(input, output)
		require.NoError(t, err)
		oldDigested, _ := first.DigestedPath("app.js")

		writeAsset(t, input, "app.js", "v2")

		second, err := New(Config{}).Run(input, output)
		require.NoError(t, err)

		newDigested, _ := second.DigestedPath("app.js")
		assert.NotEqual(t, oldDigested, newDigested)

		_, ok := second.Lookup(oldDigested)
		assert.True(t, ok, "previous version stays in the manifest")
	})
}

func TestClean(t *testing.T) {
	t.Run("removes stale versions keeping current and newest", func(t *testing.T) {
		output := t.TempDir()

		manifest := NewManifest()
		manifest.Latest["app.js"] = "app-ccc.js"
		manifest.Digests["app-aaa.js"] = Entry{LogicalPath: "app.js", Mtime: time.Now().Add(-48 * time.Hour).Unix()}
		manifest.Digests["app-bbb.js"] = Entry{LogicalPath: "app.js", Mtime: time.Now().Add(-24 * time.Hour).Unix()}
		manifest.Digests["app-ccc.js"] = Entry{LogicalPath: "app.js", Mtime: time.Now().Unix()}
		require.NoError(t, manifest.write(output))

		for _, name := range []string{"app-aaa.js", "app-bbb.js", "app-ccc.js"} {
			writeAsset(t, output, name, "x")
		}

		require.NoError(t, Clean(output, time.Hour, 2))

		assert.NoFileExists(t, filepath.Join(output, "app-aaa.js"))
		assert.FileExists(t, filepath.Join(output, "app-bbb.js"))
		assert.FileExists(t, filepath.Join(output, "app-ccc.js"))

		reloaded, err := LoadManifest(output)
		require.NoError(t, err)
		_, ok := reloaded.Lookup("app-aaa.js")
		assert.False(t, ok)
	})

	t.Run("never removes the current version", func(t *testing.T) {
		output := t.TempDir()

		manifest := NewManifest()
		manifest.Latest["app.js"] = "app-aaa.js"
		manifest.Digests["app-aaa.js"] = Entry{LogicalPath: "app.js", Mtime: 0}
		require.NoError(t, manifest.write(output))
		writeAsset(t, output, "app-aaa.js", "x")

		require.NoError(t, Clean(output, time.Hour, 0))

		assert.FileExists(t, filepath.Join(output, "app-aaa.js"))
	})
}

func TestCleanAll(t *testing.T) {
	t.Run("removes digested files, variants and manifest", func(t *testing.T) {
		input := t.TempDir()
		output := t.TempDir()
		writeAsset(t, input, "app.js", "var a = 1;")

		manifest, err := New(Config{Brotli: true}).Run(input, output)
		require.NoError(t, err)
		digested, _ := manifest.DigestedPath("app.js")

		require.NoError(t, CleanAll(output))

		assert.FileExists(t, filepath.Join(output, "app.js"))
		assert.NoFileExists(t, filepath.Join(output, filepath.FromSlash(digested)))
		assert.NoFileExists(t, filepath.Join(output, "app.js.gz"))
		assert.NoFileExists(t, filepath.Join(output, "app.js.br"))
		assert.NoFileExists(t, filepath.Join(output, ManifestName))
	})

	t.Run("is a no-op without a manifest", func(t *testing.T) {
		assert.NoError(t, CleanAll(t.TempDir()))
	})
}
