package content

import (
	"encoding/json"
	"fmt"
)

// PluginName is the site generator plugin that consumes the entries.
const PluginName = "docusaurus-plugin-remote-content"

// Response types the plugin uses when downloading documents.
const (
	ResponseText        = "text"
	ResponseArrayBuffer = "arraybuffer"
)

// RequestConfig is passed through to the plugin's HTTP client.
type RequestConfig struct {
	ResponseType string `json:"responseType"`
}

// PluginEntry tells the remote-content plugin where to fetch a flat list of
// documents from and where to place them.
type PluginEntry struct {
	Name          string        `json:"name"`
	SourceBaseURL string        `json:"sourceBaseUrl"`
	OutDir        string        `json:"outDir"`
	Documents     []string      `json:"documents"`
	RequestConfig RequestConfig `json:"requestConfig"`
}

// Kind reports the classification encoded in the entry's response type.
func (p PluginEntry) Kind() Kind {
	if p.RequestConfig.ResponseType == ResponseArrayBuffer {
		return KindImages
	}
	return KindDocuments
}

// pluginOptions avoids recursing into PluginEntry.MarshalJSON.
type pluginOptions PluginEntry

// MarshalJSON renders the entry as the generator's [plugin, options] tuple.
func (p PluginEntry) MarshalJSON() ([]byte, error) {
	opts := pluginOptions(p)
	if opts.Documents == nil {
		opts.Documents = []string{}
	}
	return json.Marshal([2]any{PluginName, opts})
}

// UnmarshalJSON accepts the tuple form produced by MarshalJSON.
func (p *PluginEntry) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) != 2 {
		return fmt.Errorf("plugin entry: expected [name, options], got %d elements", len(tuple))
	}
	var name string
	if err := json.Unmarshal(tuple[0], &name); err != nil {
		return fmt.Errorf("plugin entry name: %w", err)
	}
	if name != PluginName {
		return fmt.Errorf("plugin entry: unexpected plugin %q", name)
	}
	var opts pluginOptions
	if err := json.Unmarshal(tuple[1], &opts); err != nil {
		return fmt.Errorf("plugin entry options: %w", err)
	}
	*p = PluginEntry(opts)
	return nil
}
