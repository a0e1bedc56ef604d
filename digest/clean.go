package digest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Clean removes stale digested versions from output. A version is
// removed when it is older than maxAge, it is not among the keep newest
// versions of its logical path, and it is not the current version. The
// manifest is rewritten to drop the removed entries.
func Clean(output string, maxAge time.Duration, keep int) error {
	manifest, err := LoadManifest(output)
	if err != nil {
		return err
	}

	versions := make(map[string][]string)
	for digested, entry := range manifest.Digests {
		versions[entry.LogicalPath] = append(versions[entry.LogicalPath], digested)
	}

	cutoff := time.Now().Add(-maxAge).Unix()

	for logical, digesteds := range versions {
		sort.Slice(digesteds, func(i, j int) bool {
			return manifest.Digests[digesteds[i]].Mtime > manifest.Digests[digesteds[j]].Mtime
		})

		current := manifest.Latest[logical]

		for i, digested := range digesteds {
			if digested == current || i < keep {
				continue
			}
			if manifest.Digests[digested].Mtime >= cutoff {
				continue
			}

			if err := removeVariants(output, digested); err != nil {
				return err
			}
			delete(manifest.Digests, digested)
		}
	}

	return manifest.write(output)
}

// CleanAll removes every digested file, every precompressed variant and
// the manifest itself, leaving only the original assets.
func CleanAll(output string) error {
	manifest, err := LoadManifest(output)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	for digested := range manifest.Digests {
		if err := removeVariants(output, digested); err != nil {
			return err
		}
	}

	for logical := range manifest.Latest {
		path := filepath.Join(output, filepath.FromSlash(logical))
		for _, variant := range []string{path + ".gz", path + ".br"} {
			if err := os.Remove(variant); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("digest: %w", err)
			}
		}
	}

	if err := os.Remove(filepath.Join(output, ManifestName)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("digest: %w", err)
	}

	return nil
}

// removeVariants deletes a digested file along with its precompressed
// variants.
func removeVariants(output, digested string) error {
	path := filepath.Join(output, filepath.FromSlash(digested))
	for _, target := range []string{path, path + ".gz", path + ".br"} {
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("digest: %w", err)
		}
	}
	return nil
}
