// Package digest implements the static asset digesting pipeline: walking
// an asset directory, fingerprinting each file with a content hash,
// emitting digested copies (app.js becomes app-1a2b3c….js) together with
// precompressed variants, rewriting source map references, and producing
// the cache manifest that maps logical paths to their latest digested
// versions.
//
// The manifest is the contract with the serving side: endpoint resolves
// logical paths through it and plugs.Static uses it for strong ETags and
// precompressed negotiation.
//
//	manifest, err := digest.New(digest.Config{}).Run("priv/static", "priv/static")
//
// Clean removes outdated digested versions while always keeping the
// latest, so deploys can prune old fingerprints without breaking cached
// pages mid-rollout.
package digest
