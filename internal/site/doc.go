// Package site assembles the generated site configuration. A Loader reads the
// repository descriptors, resolves them through a bounded fan-out, drops the
// repositories that failed and splices the remaining plugin entries, in
// descriptor order, into the static site settings.
package site
