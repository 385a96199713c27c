package session

import (
	"context"
	"fmt"

	"github.com/louisbranch/talentcalc/internal/talent/engine"
)

// Op kinds accepted by Apply.
const (
	OpIncrement = "increment"
	OpDecrement = "decrement"
	OpResetTree = "reset_tree"
	OpResetAll  = "reset_all"
)

// RejectUnknownOp refuses an op kind Apply does not know.
const RejectUnknownOp = "UNKNOWN_OP"

// Op is one user action.
type Op struct {
	Op   string `json:"op" validate:"required,oneof=increment decrement reset_tree reset_all"`
	Tree int    `json:"tree" validate:"gte=0"`
	Node string `json:"node,omitempty" validate:"required_if=Op increment,required_if=Op decrement"`
}

// Result pairs an op with its decision.
type Result struct {
	Op       Op              `json:"op"`
	Accepted bool            `json:"accepted"`
	Decision engine.Decision `json:"decision"`
}

// Apply runs ops in order. Rejected ops leave state untouched and do not
// stop later ones; only a failed reload during reset_all returns an error.
func (s *Session) Apply(ctx context.Context, ops []Op) ([]Result, error) {
	results := make([]Result, 0, len(ops))
	for _, op := range ops {
		var d engine.Decision
		switch op.Op {
		case OpIncrement:
			d = s.Increment(op.Tree, op.Node)
		case OpDecrement:
			d = s.Decrement(op.Tree, op.Node)
		case OpResetTree:
			d = s.ResetTree(op.Tree)
		case OpResetAll:
			var err error
			if d, err = s.ResetAll(ctx); err != nil {
				return results, fmt.Errorf("reset all: %w", err)
			}
		default:
			d = engine.Reject(engine.Rejection{Code: RejectUnknownOp, Message: fmt.Sprintf("unknown op %q", op.Op)})
		}
		results = append(results, Result{Op: op, Accepted: d.Accepted(), Decision: d})
	}
	return results, nil
}
