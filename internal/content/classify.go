package content

import (
	"net/url"
	"strings"

	"git.home.luguber.info/inful/remotedocs/internal/forge"
)

// DocsPrefix is the repository folder that gets mirrored.
const DocsPrefix = "docs/"

// Kind is the classification of a docs folder.
type Kind string

const (
	KindDocuments Kind = "docs"
	KindImages    Kind = "imgs"
)

// ResponseType returns the plugin response type for the kind.
func (k Kind) ResponseType() string {
	if k == KindImages {
		return ResponseArrayBuffer
	}
	return ResponseText
}

// Extensions lists the file suffixes kept for the kind.
func (k Kind) Extensions() []string {
	if k == KindImages {
		return []string{".png", ".gif"}
	}
	return []string{".md", ".mdx", ".json"}
}

// Classify decides whether a folder (relative to docs/) holds images.
// It is a substring test on "/img": "guide/img" and "guide/imgx" are image
// folders, a top-level "img" folder is not.
func Classify(folderName string) Kind {
	if strings.Contains(folderName, "/img") {
		return KindImages
	}
	return KindDocuments
}

// FolderName strips the docs/ prefix from a folder path.
func FolderName(path string) string {
	return strings.TrimPrefix(path, DocsPrefix)
}

// directChild returns the path of a blob relative to folder and whether it sits
// directly inside it. Names whose percent-decoding yields a separator, or that
// do not decode at all, are not direct children.
func directChild(e forge.TreeEntry, folderName string) (string, bool) {
	if e.Type != forge.EntryBlob {
		return "", false
	}
	folderPath := DocsPrefix + folderName
	if !strings.HasPrefix(e.Path, folderPath) {
		return "", false
	}
	rel := strings.TrimPrefix(e.Path, folderPath+"/")
	if strings.Contains(rel, "/") {
		return "", false
	}
	decoded, err := url.PathUnescape(rel)
	if err != nil || strings.Contains(decoded, "/") {
		return "", false
	}
	return rel, true
}

func hasExtension(path string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
