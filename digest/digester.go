package digest

import (
	"compress/gzip"
	"crypto/md5"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/valyala/bytebufferpool"
)

// defaultCompressibleExtensions lists the file types worth emitting
// precompressed variants for. Already-compressed formats (images, fonts
// in woff2, archives) are excluded.
var defaultCompressibleExtensions = []string{
	".js", ".css", ".html", ".json", ".svg", ".txt", ".text", ".map", ".xml",
}

// digestedRe recognizes file names that already carry a content hash, so
// re-running the digester does not fingerprint fingerprints.
var digestedRe = regexp.MustCompile(`-[a-fA-F0-9]{32}(\.|$)`)

// sourceMapRe matches sourceMappingURL comments in JS and CSS files.
var sourceMapRe = regexp.MustCompile(`(//|/\*)#\s*sourceMappingURL=\s*(\S+?)(\s*\*/)?\s*$`)

// Config configures a Digester.
type Config struct {
	// Brotli additionally emits .br variants of compressible files.
	Brotli bool

	// NoGzip suppresses the .gz variants emitted by default.
	NoGzip bool

	// CompressibleExtensions overrides the file extensions that get
	// precompressed variants.
	CompressibleExtensions []string
}

// Digester fingerprints static assets and maintains the cache manifest.
type Digester struct {
	cfg          Config
	compressible map[string]struct{}
}

// New returns a Digester for the given configuration.
func New(cfg Config) *Digester {
	exts := cfg.CompressibleExtensions
	if exts == nil {
		exts = defaultCompressibleExtensions
	}

	compressible := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		compressible[ext] = struct{}{}
	}

	return &Digester{cfg: cfg, compressible: compressible}
}

// asset is one walked input file.
type asset struct {
	logical string // path relative to the input root, slash-separated
	data    []byte
	mtime   int64
	digest  string // md5 hex
}

// Run digests every asset under input into output (the two may be the
// same directory), emits precompressed variants, rewrites source map
// references inside digested JS/CSS, and writes the cache manifest.
//
// An existing manifest in output is merged so entries for older digested
// versions survive re-runs; Clean relies on that history.
func (d *Digester) Run(input, output string) (*Manifest, error) {
	assets, err := d.collect(input)
	if err != nil {
		return nil, err
	}

	manifest := NewManifest()
	if previous, err := LoadManifest(output); err == nil {
		for digested, entry := range previous.Digests {
			manifest.Digests[digested] = entry
		}
	}

	// Digested names for every asset up front: source map rewriting in
	// one file needs the digested name of another.
	digestedNames := make(map[string]string, len(assets))
	for _, a := range assets {
		digestedNames[a.logical] = digestedPath(a.logical, a.digest)
	}

	for _, a := range assets {
		digested := digestedNames[a.logical]

		digestedData := a.data
		if ext := filepath.Ext(a.logical); ext == ".js" || ext == ".css" {
			digestedData = rewriteSourceMap(a.data, a.logical, digestedNames)
		}

		if err := d.emit(output, a.logical, a.data); err != nil {
			return nil, err
		}
		if err := d.emit(output, digested, digestedData); err != nil {
			return nil, err
		}

		sum := sha256.Sum256(a.data)
		entry := Entry{
			LogicalPath: a.logical,
			Digest:      a.digest,
			SHA256:      base64.StdEncoding.EncodeToString(sum[:]),
			Mtime:       a.mtime,
			Size:        int64(len(a.data)),
		}
		manifest.Latest[a.logical] = digested
		manifest.Digests[digested] = entry
	}

	if err := manifest.write(output); err != nil {
		return nil, err
	}

	return manifest, nil
}

// collect walks the input tree gathering digestable files. Hidden files
// and directories, already-digested files and the manifest itself are
// skipped.
func (d *Digester) collect(input string) ([]asset, error) {
	var assets []asset

	err := filepath.WalkDir(input, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		if name == ManifestName || digestedRe.MatchString(name) || isCompressedVariant(name) {
			return nil
		}

		rel, err := filepath.Rel(input, path)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}

		sum := md5.Sum(data)
		assets = append(assets, asset{
			logical: filepath.ToSlash(rel),
			data:    data,
			mtime:   info.ModTime().Unix(),
			digest:  hex.EncodeToString(sum[:]),
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("digest: walk %s: %w", input, err)
	}

	return assets, nil
}

// emit writes one output file plus its precompressed variants.
func (d *Digester) emit(output, logical string, data []byte) error {
	path := filepath.Join(output, filepath.FromSlash(logical))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("digest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("digest: %w", err)
	}

	if _, ok := d.compressible[filepath.Ext(logical)]; !ok {
		return nil
	}

	if !d.cfg.NoGzip {
		if err := writeGzip(path+".gz", data); err != nil {
			return err
		}
	}
	if d.cfg.Brotli {
		if err := writeBrotli(path+".br", data); err != nil {
			return err
		}
	}

	return nil
}

func writeGzip(path string, data []byte) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	zw, err := gzip.NewWriterLevel(buf, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("digest: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		return fmt.Errorf("digest: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("digest: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("digest: %w", err)
	}
	return nil
}

func writeBrotli(path string, data []byte) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	bw := brotli.NewWriterLevel(buf, brotli.BestCompression)
	if _, err := bw.Write(data); err != nil {
		return fmt.Errorf("digest: %w", err)
	}
	if err := bw.Close(); err != nil {
		return fmt.Errorf("digest: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("digest: %w", err)
	}
	return nil
}

// digestedPath inserts the digest before the extension:
// "js/app.js" with digest "1a2b…" becomes "js/app-1a2b….js".
func digestedPath(logical, digest string) string {
	ext := filepath.Ext(logical)
	return strings.TrimSuffix(logical, ext) + "-" + digest + ext
}

// rewriteSourceMap replaces the sourceMappingURL reference in a digested
// JS/CSS copy with the digested map name, so browsers resolve the map
// that matches the fingerprinted file.
func rewriteSourceMap(data []byte, logical string, digestedNames map[string]string) []byte {
	dir := filepath.ToSlash(filepath.Dir(logical))

	return sourceMapRe.ReplaceAllFunc(data, func(match []byte) []byte {
		sub := sourceMapRe.FindSubmatch(match)
		mapRef := string(sub[2])

		mapLogical := mapRef
		if dir != "." {
			mapLogical = dir + "/" + mapRef
		}

		digested, ok := digestedNames[mapLogical]
		if !ok {
			return match
		}

		return []byte(strings.Replace(string(match), mapRef, filepath.Base(digested), 1))
	})
}

// isCompressedVariant reports whether a name is a precompressed variant
// emitted by a previous run.
func isCompressedVariant(name string) bool {
	return strings.HasSuffix(name, ".gz") || strings.HasSuffix(name, ".br")
}
