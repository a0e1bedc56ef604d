package digest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestName is the file name the digester writes its manifest under.
const ManifestName = "cache_manifest.json"

// manifestVersion is the schema version of the manifest format.
const manifestVersion = 1

// Entry describes one digested file in the manifest.
type Entry struct {
	// LogicalPath is the undigested path relative to the asset root,
	// e.g. "js/app.js".
	LogicalPath string `json:"logical_path"`

	// Digest is the lowercase hex content hash embedded in the file name.
	Digest string `json:"digest"`

	// SHA256 is the base64 content hash used for subresource integrity.
	SHA256 string `json:"sha256"`

	// Mtime is the source file's modification time in Unix seconds.
	Mtime int64 `json:"mtime"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`
}

// Manifest maps logical asset paths to their digested versions. It is
// written next to the digested assets as cache_manifest.json.
type Manifest struct {
	// Latest maps each logical path to its most recent digested path.
	Latest map[string]string `json:"latest"`

	// Digests maps each digested path to its entry.
	Digests map[string]Entry `json:"digests"`

	// Version is the manifest schema version.
	Version int `json:"version"`
}

// NewManifest returns an empty manifest at the current schema version.
func NewManifest() *Manifest {
	return &Manifest{
		Latest:  make(map[string]string),
		Digests: make(map[string]Entry),
		Version: manifestVersion,
	}
}

// DigestedPath returns the latest digested path for a logical path.
func (m *Manifest) DigestedPath(logical string) (string, bool) {
	digested, ok := m.Latest[logical]
	return digested, ok
}

// Lookup returns the entry for a digested path.
func (m *Manifest) Lookup(digested string) (Entry, bool) {
	entry, ok := m.Digests[digested]
	return entry, ok
}

// LoadManifest reads a manifest from the given directory.
func LoadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, fmt.Errorf("digest: read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("digest: parse manifest: %w", err)
	}

	if m.Version != manifestVersion {
		return nil, fmt.Errorf("digest: unsupported manifest version %d", m.Version)
	}

	return &m, nil
}

// write stores the manifest in the given directory.
func (m *Manifest) write(dir string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("digest: encode manifest: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ManifestName), data, 0o644); err != nil {
		return fmt.Errorf("digest: write manifest: %w", err)
	}

	return nil
}
