package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPluginEntry_MarshalsAsTuple(t *testing.T) {
	p := PluginEntry{
		Name:          "intro_docs",
		SourceBaseURL: "https://raw.githubusercontent.com/acme/widgets/main/docs/intro",
		OutDir:        "docs/intro",
		Documents:     []string{"page.md"},
		RequestConfig: RequestConfig{ResponseType: ResponseText},
	}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `["docusaurus-plugin-remote-content", {
		"name": "intro_docs",
		"sourceBaseUrl": "https://raw.githubusercontent.com/acme/widgets/main/docs/intro",
		"outDir": "docs/intro",
		"documents": ["page.md"],
		"requestConfig": {"responseType": "text"}
	}]`, string(data))

	var back PluginEntry
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p, back)
}

func TestPluginEntry_NilDocumentsMarshalAsEmptyList(t *testing.T) {
	data, err := json.Marshal(PluginEntry{Name: "x_docs"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"documents":[]`)
}

func TestPluginEntry_UnmarshalRejectsOtherShapes(t *testing.T) {
	var p PluginEntry
	assert.Error(t, json.Unmarshal([]byte(`{"name": "x"}`), &p))
	assert.Error(t, json.Unmarshal([]byte(`["other-plugin", {}]`), &p))
	assert.Error(t, json.Unmarshal([]byte(`["docusaurus-plugin-remote-content"]`), &p))
}

func TestPluginEntry_Kind(t *testing.T) {
	assert.Equal(t, KindImages, PluginEntry{RequestConfig: RequestConfig{ResponseType: ResponseArrayBuffer}}.Kind())
	assert.Equal(t, KindDocuments, PluginEntry{RequestConfig: RequestConfig{ResponseType: ResponseText}}.Kind())
}
