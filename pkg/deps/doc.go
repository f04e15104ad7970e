// Package deps models the dependencies declared in a package manifest.
//
// # Overview
//
// A manifest maps dependency names to locators: version ranges served by a
// registry, or sources pointing somewhere else (git remotes, hosted
// shorthands, tarball URLs, local paths). [Classify] turns one such entry into
// a [Spec] whose [Kind] decides whether the dependency can be checked for
// newer upstream tags:
//
//	spec := deps.Classify("lib", "git+ssh://git@github.com/acme/lib.git#1.0.0")
//	spec.Kind            // deps.KindGit
//	spec.Kind.Eligible() // true
//	spec.Ref             // "1.0.0"
//
// Registry, alias and local-path dependencies are never eligible.
//
// # Manifest Reading
//
// The [javascript] subpackage reads package.json manifests and the installed
// copy of each dependency under node_modules.
//
// [javascript]: github.com/matzehuels/gitbump/pkg/deps/javascript
package deps
