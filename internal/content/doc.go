// Package content turns a repository tree listing into remote-content plugin
// entries: one entry per folder under docs/, carrying the folder's direct
// markdown/JSON documents or, for image folders, its PNG/GIF files.
//
// BuildPlugins is pure and deterministic; Resolver adds the tree fetch,
// retry and logging around it.
package content
