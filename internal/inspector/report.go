package inspector

import (
	"github.com/mj1618/element-inspector/internal/locator"
	"github.com/mj1618/element-inspector/internal/model"
)

// Report is the outcome of one inspection. A nil *Report means the
// inspection was skipped; a Report with a nil Match means nothing on the
// page resembled the locator.
type Report struct {
	Locator string `yaml:"locator" json:"locator"`
	Term    string `yaml:"term"    json:"term"`
	Match   *Match `yaml:"match,omitempty" json:"match,omitempty"`
}

// Match describes the node closest to the failed locator. All fields are
// copies, so a Match outlives the snapshot it came from.
type Match struct {
	Score          int                  `yaml:"score"           json:"score"`
	Class          string               `yaml:"class"           json:"class"`
	Path           string               `yaml:"path"            json:"path"`
	Attributes     []model.Attr         `yaml:"attributes"      json:"attributes"`
	Suggestions    []locator.Suggestion `yaml:"suggestions"     json:"suggestions"`
	ContainerClass string               `yaml:"container_class" json:"container_class"`
	Context        []string             `yaml:"context"         json:"context"`
}

// Attr returns the named attribute of the matched node, or "" when absent.
func (m *Match) Attr(name string) string {
	for _, a := range m.Attributes {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// Found reports whether a similar element was located.
func (r *Report) Found() bool {
	return r != nil && r.Match != nil
}

// Ranking lists every node that scored against a locator, best first.
type Ranking struct {
	Locator    string   `yaml:"locator"    json:"locator"`
	Term       string   `yaml:"term"       json:"term"`
	Total      int      `yaml:"total"      json:"total"`
	Candidates []Ranked `yaml:"candidates" json:"candidates"`
}

// Ranked is one scored node in a Ranking.
type Ranked struct {
	Score       int    `yaml:"score"                  json:"score"`
	Order       int    `yaml:"order"                  json:"order"`
	Class       string `yaml:"class"                  json:"class"`
	Path        string `yaml:"path"                   json:"path"`
	Text        string `yaml:"text,omitempty"         json:"text,omitempty"`
	ResourceID  string `yaml:"resource_id,omitempty"  json:"resource_id,omitempty"`
	ContentDesc string `yaml:"content_desc,omitempty" json:"content_desc,omitempty"`
}
