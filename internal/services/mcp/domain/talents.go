package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/text/language"

	apperrors "github.com/louisbranch/talentcalc/internal/platform/errors"
	"github.com/louisbranch/talentcalc/internal/platform/i18n"
	"github.com/louisbranch/talentcalc/internal/talent/catalog"
	"github.com/louisbranch/talentcalc/internal/talent/codec"
	"github.com/louisbranch/talentcalc/internal/talent/engine"
	"github.com/louisbranch/talentcalc/internal/talent/gate"
	"github.com/louisbranch/talentcalc/internal/talent/session"
)

// Tool names.
const (
	ClassesToolName       = "talent_classes"
	BuildShowToolName     = "talent_build_show"
	BuildApplyToolName    = "talent_build_apply"
	BuildValidateToolName = "talent_build_validate"
)

// maxOps bounds a single apply call.
const maxOps = 256

var opValidator = validator.New(validator.WithRequiredStructEnabled())

// Dependencies are shared by the tool handlers.
type Dependencies struct {
	Loader        session.Loader
	EngineOptions []engine.Option
}

func (d Dependencies) session() *session.Session {
	return session.New(d.Loader, d.EngineOptions...)
}

// ClassesTool defines the MCP tool schema for listing classes.
func ClassesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        ClassesToolName,
		Description: "Lists the classes the calculator knows",
	}
}

// BuildShowTool defines the MCP tool schema for decoding a share path.
func BuildShowTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        BuildShowToolName,
		Description: "Decodes a share path into trees, points, spend order and summary",
	}
}

// BuildApplyTool defines the MCP tool schema for applying operations.
func BuildApplyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        BuildApplyToolName,
		Description: "Applies increment, decrement, reset_tree and reset_all operations to a share path and returns the new build",
	}
}

// BuildValidateTool defines the MCP tool schema for validating a share path.
func BuildValidateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        BuildValidateToolName,
		Description: "Checks a share path for dropped points, rule violations and non-canonical encoding",
	}
}

// ClassesHandler lists classes with localized display names.
func ClassesHandler() mcp.ToolHandlerFor[ClassesInput, ClassesResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ClassesInput) (*mcp.CallToolResult, ClassesResult, error) {
		tag := resolveLang(input.Lang)
		names := catalog.Classes()
		result := ClassesResult{Classes: make([]ClassEntry, 0, len(names))}
		for _, name := range names {
			result.Classes = append(result.Classes, ClassEntry{
				Name:        name,
				DisplayName: catalog.DisplayName(name, tag),
				Default:     name == catalog.DefaultClass,
			})
		}
		return nil, result, nil
	}
}

// BuildShowHandler decodes a share path.
func BuildShowHandler(deps Dependencies) mcp.ToolHandlerFor[BuildShowInput, BuildResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BuildShowInput) (*mcp.CallToolResult, BuildResult, error) {
		tag := resolveLang(input.Lang)
		sess := deps.session()
		state, err := sess.FromPath(ctx, input.Path)
		if err != nil {
			return nil, BuildResult{}, toolError("decode build", err, tag)
		}
		return nil, buildResult(state, sess.Valid(), tag), nil
	}
}

// BuildApplyHandler applies operations in order. Rejected operations are
// reported per result and do not abort the call.
func BuildApplyHandler(deps Dependencies) mcp.ToolHandlerFor[BuildApplyInput, BuildApplyResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BuildApplyInput) (*mcp.CallToolResult, BuildApplyResult, error) {
		tag := resolveLang(input.Lang)
		ops, err := toSessionOps(input.Ops)
		if err != nil {
			return nil, BuildApplyResult{}, toolError("validate ops", err, tag)
		}
		sess := deps.session()
		if _, err := sess.FromPath(ctx, input.Path); err != nil {
			return nil, BuildApplyResult{}, toolError("decode build", err, tag)
		}
		results, err := sess.Apply(ctx, ops)
		if err != nil {
			return nil, BuildApplyResult{}, toolError("apply ops", err, tag)
		}
		out := BuildApplyResult{
			Build:   buildResult(sess.State(), sess.Valid(), tag),
			Results: make([]OpResult, 0, len(results)),
		}
		for _, res := range results {
			entry := OpResult{Op: res.Op.Op, Tree: res.Op.Tree, Node: res.Op.Node, Accepted: res.Accepted}
			if len(res.Decision.Rejections) > 0 {
				entry.Code = res.Decision.Rejections[0].Code
				entry.Message = res.Decision.Rejections[0].Message
			}
			out.Results = append(out.Results, entry)
		}
		return nil, out, nil
	}
}

// BuildValidateHandler reports everything that keeps a share path from
// reproducing a clean build.
func BuildValidateHandler(deps Dependencies) mcp.ToolHandlerFor[BuildValidateInput, BuildValidateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BuildValidateInput) (*mcp.CallToolResult, BuildValidateResult, error) {
		sess := deps.session()
		state, err := sess.FromPath(ctx, input.Path)
		if err != nil {
			return nil, BuildValidateResult{}, toolError("decode build", err, i18n.DefaultTag())
		}
		raw := strings.TrimSpace(input.Path)
		result := BuildValidateResult{
			Class:            state.Class,
			Path:             state.Path,
			Canonical:        raw == state.Path,
			Dropped:          state.Dropped,
			TotalPointsSpent: state.Summary.TotalPointsSpent,
			CurrentLevel:     state.Summary.CurrentLevel,
		}
		if state.Dropped > 0 {
			result.Issues = append(result.Issues, fmt.Sprintf("%d decoded points could not be applied", state.Dropped))
		}
		if share := codec.ParsePath(raw); share.Order == "" && share.Build != "" {
			result.Issues = append(result.Issues, "legacy dense build; share the canonical path instead")
		}
		for _, t := range state.Trees {
			talents := make([]gate.Talent, len(t.Talents))
			for i, talent := range t.Talents {
				talents[i] = talent.Talent
			}
			if !gate.TreeValid(talents) {
				result.Issues = append(result.Issues, fmt.Sprintf("tree %q breaks tier or prerequisite rules", t.Name))
			}
		}
		result.Valid = len(result.Issues) == 0
		return nil, result, nil
	}
}

func toSessionOps(inputs []OpInput) ([]session.Op, error) {
	if len(inputs) > maxOps {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidRequest, "too many ops", map[string]string{"Reason": fmt.Sprintf("at most %d ops per call", maxOps)})
	}
	ops := make([]session.Op, 0, len(inputs))
	for i, in := range inputs {
		op := session.Op{Op: strings.TrimSpace(in.Op), Tree: in.Tree, Node: strings.TrimSpace(in.Node)}
		if err := opValidator.Struct(op); err != nil {
			return nil, apperrors.WrapWithMetadata(apperrors.CodeInvalidOperation, "invalid op", map[string]string{"Op": fmt.Sprintf("#%d %s", i, in.Op)}, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func buildResult(state session.State, valid bool, tag language.Tag) BuildResult {
	lines := state.Lines(tag)
	result := BuildResult{
		Class:            state.Class,
		DisplayName:      catalog.DisplayName(state.Class, tag),
		Path:             state.Path,
		Valid:            valid,
		Dropped:          state.Dropped,
		TotalPointsSpent: state.Summary.TotalPointsSpent,
		PointsRemaining:  state.Summary.PointsRemaining,
		Budget:           state.Summary.Budget,
		CurrentLevel:     state.Summary.CurrentLevel,
		PrimaryTree:      state.Summary.PrimaryTree,
		Trees:            make([]TreeEntry, 0, len(state.Trees)),
		Order:            make([]OrderEntry, 0, len(state.Order)),
		Lines: SummaryLines{
			Spent:     lines.Spent,
			Remaining: lines.Remaining,
			Level:     lines.Level,
			Primary:   lines.Primary,
			Trees:     lines.Trees,
		},
	}
	for _, t := range state.Trees {
		entry := TreeEntry{Index: t.Index, Name: t.Name, PointsSpent: t.PointsSpent, Talents: make([]TalentEntry, 0, len(t.Talents))}
		for _, talent := range t.Talents {
			te := TalentEntry{
				ID:           talent.ID,
				Name:         talent.Name,
				Row:          talent.Row,
				Col:          talent.Col,
				Points:       talent.Points,
				MaxPoints:    talent.MaxPoints,
				Locked:       talent.Locked,
				CanIncrement: talent.CanIncrement,
				CanDecrement: talent.CanDecrement,
			}
			if talent.Requires != nil {
				te.Requires = talent.Requires.ID
			}
			entry.Talents = append(entry.Talents, te)
		}
		result.Trees = append(result.Trees, entry)
	}
	for _, item := range state.Order {
		result.Order = append(result.Order, OrderEntry{Tree: item.Tree, NodeID: item.NodeID, Name: item.Name, Rank: item.Rank})
	}
	return result
}

func resolveLang(value string) language.Tag {
	if strings.TrimSpace(value) == "" {
		return i18n.DefaultTag()
	}
	tag, _ := i18n.ParseTag(value)
	return tag
}

// toolError turns domain errors into localized tool errors; other errors
// keep their wrapped chain.
func toolError(action string, err error, tag language.Tag) error {
	if _, ok := apperrors.As(err); ok {
		return errors.New(apperrors.LocalizedMessage(err, i18n.LocaleForTag(tag)))
	}
	return fmt.Errorf("%s: %w", action, err)
}
