package talents

import (
	"golang.org/x/text/language"

	"github.com/louisbranch/talentcalc/internal/talent/catalog"
	"github.com/louisbranch/talentcalc/internal/talent/session"
)

// ClassView is one entry of the class list.
type ClassView struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Default     bool   `json:"default,omitempty"`
}

// BuildView is the decoded state of a share path.
type BuildView struct {
	session.State
	DisplayName string        `json:"display_name"`
	Valid       bool          `json:"valid"`
	Lines       session.Lines `json:"lines"`
}

// ApplyResponse is the state after a batch of ops plus each op's decision.
type ApplyResponse struct {
	Build   BuildView        `json:"build"`
	Results []session.Result `json:"results"`
}

// SavedResponse identifies a saved build.
type SavedResponse struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	URL  string `json:"url"`
}

func classViews(tag language.Tag) []ClassView {
	names := catalog.Classes()
	out := make([]ClassView, 0, len(names))
	for _, name := range names {
		out = append(out, ClassView{
			Name:        name,
			DisplayName: catalog.DisplayName(name, tag),
			Default:     name == catalog.DefaultClass,
		})
	}
	return out
}

func buildView(state session.State, valid bool, tag language.Tag) BuildView {
	return BuildView{
		State:       state,
		DisplayName: catalog.DisplayName(state.Class, tag),
		Valid:       valid,
		Lines:       state.Lines(tag),
	}
}
