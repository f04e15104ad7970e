// Package javascript reads npm package manifests.
//
// # Overview
//
// Two documents are read per run:
//
//   - The project manifest, <basedir>/package.json, whose "dependencies" and
//     "devDependencies" map names to declared locators ([ReadManifest]).
//   - The installed descriptor of each dependency,
//     <basedir>/node_modules/<name>/package.json, which records the version
//     actually on disk and, usually, the repository it came from
//     ([ReadDescriptor]).
//
// Both are read-only snapshots. Failures to read or decode them are reported
// with the INVALID_MANIFEST and INVALID_DESCRIPTOR codes of
// [github.com/matzehuels/gitbump/pkg/errors].
//
// # Lookup Order
//
// [Manifest.Lookup] checks "dependencies" before "devDependencies", so a name
// listed in both resolves to its runtime declaration.
package javascript
