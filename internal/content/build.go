package content

import (
	"strings"

	"git.home.luguber.info/inful/remotedocs/internal/config"
	"git.home.luguber.info/inful/remotedocs/internal/forge"
)

// BuildPlugins classifies the folders under docs/ in entries and builds one
// plugin entry per folder, in tree order. Folders without matching files still
// yield an entry with an empty document list.
func BuildPlugins(d config.Descriptor, entries []forge.TreeEntry, rawBaseURL string) []PluginEntry {
	docs := make([]forge.TreeEntry, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Path, DocsPrefix) {
			docs = append(docs, e)
		}
	}

	var plugins []PluginEntry
	for _, folder := range docs {
		if folder.Type != forge.EntryTree {
			continue
		}
		plugins = append(plugins, buildFolder(d, docs, FolderName(folder.Path), rawBaseURL))
	}
	return plugins
}

func buildFolder(d config.Descriptor, docs []forge.TreeEntry, folderName, rawBaseURL string) PluginEntry {
	kind := Classify(folderName)
	exts := kind.Extensions()

	documents := []string{}
	for _, e := range docs {
		rel, ok := directChild(e, folderName)
		if !ok || !hasExtension(e.Path, exts) {
			continue
		}
		documents = append(documents, EncodeURIComponent(rel))
	}

	return PluginEntry{
		Name:          folderName + "_" + string(kind),
		SourceBaseURL: SourceBaseURL(rawBaseURL, d, folderName),
		OutDir:        DocsPrefix + folderName,
		Documents:     documents,
		RequestConfig: RequestConfig{ResponseType: kind.ResponseType()},
	}
}

// SourceBaseURL is the raw-content URL of a docs folder on the descriptor's branch.
func SourceBaseURL(rawBaseURL string, d config.Descriptor, folderName string) string {
	return strings.TrimSuffix(rawBaseURL, "/") + "/" + d.Author + "/" + d.Repo + "/" + d.Branch + "/" + DocsPrefix + folderName
}
