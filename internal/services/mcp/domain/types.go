package domain

// ClassesInput represents the MCP tool input for listing classes.
type ClassesInput struct {
	Lang string `json:"lang,omitempty" jsonschema:"language for display names (en-US or pt-BR)"`
}

// ClassEntry is one selectable class.
type ClassEntry struct {
	Name        string `json:"name" jsonschema:"class identifier used in share paths"`
	DisplayName string `json:"display_name" jsonschema:"localized class name"`
	Default     bool   `json:"default,omitempty" jsonschema:"true for the class selected by an empty path"`
}

// ClassesResult represents the MCP tool output for listing classes.
type ClassesResult struct {
	Classes []ClassEntry `json:"classes" jsonschema:"known classes"`
}

// BuildShowInput represents the MCP tool input for decoding a share path.
type BuildShowInput struct {
	Path string `json:"path,omitempty" jsonschema:"share path such as /warrior/0Ac; empty selects the default class"`
	Lang string `json:"lang,omitempty" jsonschema:"language for summary lines (en-US or pt-BR)"`
}

// TalentEntry is one node with its points and affordances.
type TalentEntry struct {
	ID           string `json:"id" jsonschema:"node identifier"`
	Name         string `json:"name" jsonschema:"talent name"`
	Row          int    `json:"row" jsonschema:"tier row, zero based"`
	Col          int    `json:"col" jsonschema:"column, zero based"`
	Points       int    `json:"points" jsonschema:"points spent in the node"`
	MaxPoints    int    `json:"max_points" jsonschema:"rank cap"`
	Requires     string `json:"requires,omitempty" jsonschema:"prerequisite node identifier"`
	Locked       bool   `json:"locked" jsonschema:"true while tier or prerequisite rules block the node"`
	CanIncrement bool   `json:"can_increment" jsonschema:"true when an increment would be accepted"`
	CanDecrement bool   `json:"can_decrement" jsonschema:"true when a decrement would be accepted"`
}

// TreeEntry is one tree with its nodes.
type TreeEntry struct {
	Index       int           `json:"index" jsonschema:"tree index used by ops"`
	Name        string        `json:"name" jsonschema:"tree name"`
	PointsSpent int           `json:"points_spent" jsonschema:"points spent in the tree"`
	Talents     []TalentEntry `json:"talents" jsonschema:"nodes in declaration order"`
}

// OrderEntry is one spent point in spend order.
type OrderEntry struct {
	Tree   int    `json:"tree" jsonschema:"tree index"`
	NodeID string `json:"node_id" jsonschema:"node identifier"`
	Name   string `json:"name" jsonschema:"talent name"`
	Rank   int    `json:"rank" jsonschema:"rank granted by this point"`
}

// SummaryLines are the summary counters rendered in the requested language.
type SummaryLines struct {
	Spent     string   `json:"spent"`
	Remaining string   `json:"remaining"`
	Level     string   `json:"level"`
	Primary   string   `json:"primary"`
	Trees     []string `json:"trees"`
}

// BuildResult represents a decoded build.
type BuildResult struct {
	Class            string       `json:"class" jsonschema:"class identifier"`
	DisplayName      string       `json:"display_name" jsonschema:"localized class name"`
	Path             string       `json:"path" jsonschema:"canonical share path of the build"`
	Valid            bool         `json:"valid" jsonschema:"true when every tree satisfies tier and prerequisite rules"`
	Dropped          int          `json:"dropped,omitempty" jsonschema:"decoded points that could not be applied"`
	TotalPointsSpent int          `json:"total_points_spent" jsonschema:"points spent across all trees"`
	PointsRemaining  int          `json:"points_remaining" jsonschema:"unspent points"`
	Budget           int          `json:"budget" jsonschema:"total points available"`
	CurrentLevel     int          `json:"current_level" jsonschema:"lowest character level covering the spend"`
	PrimaryTree      string       `json:"primary_tree,omitempty" jsonschema:"tree with the most points once above the floor"`
	Trees            []TreeEntry  `json:"trees" jsonschema:"trees with their nodes"`
	Order            []OrderEntry `json:"order" jsonschema:"points in spend order"`
	Lines            SummaryLines `json:"lines" jsonschema:"localized summary"`
}

// OpInput is one build operation.
type OpInput struct {
	Op   string `json:"op" jsonschema:"increment, decrement, reset_tree or reset_all"`
	Tree int    `json:"tree,omitempty" jsonschema:"tree index"`
	Node string `json:"node,omitempty" jsonschema:"node identifier for increment and decrement"`
}

// BuildApplyInput represents the MCP tool input for applying operations.
type BuildApplyInput struct {
	Path string    `json:"path,omitempty" jsonschema:"share path to start from"`
	Ops  []OpInput `json:"ops" jsonschema:"operations applied in order"`
	Lang string    `json:"lang,omitempty" jsonschema:"language for summary lines (en-US or pt-BR)"`
}

// OpResult is the outcome of one operation.
type OpResult struct {
	Op       string `json:"op" jsonschema:"operation kind"`
	Tree     int    `json:"tree" jsonschema:"tree index"`
	Node     string `json:"node,omitempty" jsonschema:"node identifier"`
	Accepted bool   `json:"accepted" jsonschema:"true when the operation changed the build"`
	Code     string `json:"code,omitempty" jsonschema:"rejection code"`
	Message  string `json:"message,omitempty" jsonschema:"rejection message"`
}

// BuildApplyResult represents the MCP tool output for applying operations.
type BuildApplyResult struct {
	Build   BuildResult `json:"build" jsonschema:"build after all operations"`
	Results []OpResult  `json:"results" jsonschema:"one result per operation"`
}

// BuildValidateInput represents the MCP tool input for validating a share path.
type BuildValidateInput struct {
	Path string `json:"path" jsonschema:"share path to validate"`
}

// BuildValidateResult represents the MCP tool output for validation.
type BuildValidateResult struct {
	Class            string   `json:"class" jsonschema:"class identifier"`
	Path             string   `json:"path" jsonschema:"canonical share path"`
	Canonical        bool     `json:"canonical" jsonschema:"true when the input already is the canonical path"`
	Valid            bool     `json:"valid" jsonschema:"true when the build has no issues"`
	Dropped          int      `json:"dropped" jsonschema:"decoded points that could not be applied"`
	TotalPointsSpent int      `json:"total_points_spent" jsonschema:"points spent across all trees"`
	CurrentLevel     int      `json:"current_level" jsonschema:"lowest character level covering the spend"`
	Issues           []string `json:"issues,omitempty" jsonschema:"problems found in the build"`
}
