package router

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestEntry is one route in a table manifest.
type ManifestEntry struct {
	Verb        string         `json:"verb" yaml:"verb"`
	Path        string         `json:"path" yaml:"path"`
	Helper      string         `json:"helper,omitempty" yaml:"helper,omitempty"`
	Host        string         `json:"host,omitempty" yaml:"host,omitempty"`
	Plug        string         `json:"plug" yaml:"plug"`
	PlugOpts    any            `json:"plug_opts,omitempty" yaml:"plug_opts,omitempty"`
	PipeThrough []string       `json:"pipe_through,omitempty" yaml:"pipe_through,omitempty"`
	Log         string         `json:"log" yaml:"log"`
	Metadata    map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Manifest is the generator-facing export of a route table: the full
// route list in declaration order, serializable to JSON and YAML for
// tooling that builds URLs, docs or clients from it.
type Manifest struct {
	Routes []ManifestEntry `json:"routes" yaml:"routes"`
}

// Manifest exports the table's routes in declaration order.
func (t *Table) Manifest() *Manifest {
	entries := make([]ManifestEntry, 0, len(t.routes))
	for _, r := range t.routes {
		plug, opts := r.target.Describe()
		entries = append(entries, ManifestEntry{
			Verb:        r.verb,
			Path:        r.path,
			Helper:      r.helper,
			Host:        r.Host(),
			Plug:        plug,
			PlugOpts:    opts,
			PipeThrough: r.PipeThrough(),
			Log:         r.logLevel.String(),
			Metadata:    r.Metadata(),
		})
	}
	return &Manifest{Routes: entries}
}

// ToJSON renders the manifest as indented JSON.
func (m *Manifest) ToJSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// ToYAML renders the manifest as YAML.
func (m *Manifest) ToYAML() ([]byte, error) {
	return yaml.Marshal(m)
}

// FormatRoutes renders the table as an aligned plain-text listing, one
// route per line:
//
//	user_path  GET     /users/:id       UserController :show
//	           POST    /users           UserController :create
func (t *Table) FormatRoutes() string {
	manifest := t.Manifest()

	var helperW, verbW, pathW int
	for _, e := range manifest.Routes {
		helperW = max(helperW, len(e.Helper))
		verbW = max(verbW, len(e.Verb))
		pathW = max(pathW, len(e.Path))
	}

	var sb strings.Builder
	for _, e := range manifest.Routes {
		target := e.Plug
		if s, ok := e.PlugOpts.(string); ok && s != "" {
			target = fmt.Sprintf("%s :%s", e.Plug, s)
		}
		fmt.Fprintf(&sb, "%-*s  %-*s  %-*s  %s\n", helperW, e.Helper, verbW, e.Verb, pathW, e.Path, target)
	}
	return sb.String()
}
