package tree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the structural invariants of class reference data.
//
// Runtime gating never depends on Validate having run: a dangling
// requirement still fails closed. Validate exists so bad data is rejected
// at load time instead of silently producing unreachable nodes.
func Validate(class Class) error {
	if err := structValidator.Struct(class); err != nil {
		return fmt.Errorf("class %q: %w", class.Name, err)
	}
	if len(class.Trees) > MaxTreesPerClass {
		return fmt.Errorf("class %q: %d trees exceeds limit of %d", class.Name, len(class.Trees), MaxTreesPerClass)
	}
	var errs []error
	for _, t := range class.Trees {
		if err := ValidateTree(t); err != nil {
			errs = append(errs, fmt.Errorf("class %q: %w", class.Name, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateTree checks a single tree: grid uniqueness, rank descriptions,
// requirement references and requirement acyclicity.
func ValidateTree(t Tree) error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("tree name is required")
	}
	if len(t.Talents) > MaxTalentsPerTree {
		return fmt.Errorf("tree %q: %d talents exceeds limit of %d", t.Name, len(t.Talents), MaxTalentsPerTree)
	}

	var errs []error
	ids := make(map[string]struct{}, len(t.Talents))
	cells := make(map[[2]int]string, len(t.Talents))
	for _, node := range t.Talents {
		if err := structValidator.Struct(node); err != nil {
			errs = append(errs, fmt.Errorf("tree %q node %q: %w", t.Name, node.ID, err))
			continue
		}
		if _, dup := ids[node.ID]; dup {
			errs = append(errs, fmt.Errorf("tree %q: duplicate node id %q", t.Name, node.ID))
		}
		ids[node.ID] = struct{}{}

		cell := [2]int{node.Row, node.Col}
		if other, taken := cells[cell]; taken {
			errs = append(errs, fmt.Errorf("tree %q: nodes %q and %q share row %d col %d", t.Name, other, node.ID, node.Row, node.Col))
		}
		cells[cell] = node.ID

		if len(node.Ranks) != node.MaxPoints {
			errs = append(errs, fmt.Errorf("tree %q node %q: %d rank descriptions for %d max points", t.Name, node.ID, len(node.Ranks), node.MaxPoints))
		}
	}

	for _, node := range t.Talents {
		if node.Requires == nil {
			continue
		}
		if node.Requires.ID == node.ID {
			errs = append(errs, fmt.Errorf("tree %q node %q: requires itself", t.Name, node.ID))
			continue
		}
		dep, ok := t.Node(node.Requires.ID)
		if !ok {
			errs = append(errs, fmt.Errorf("tree %q node %q: requires unknown node %q", t.Name, node.ID, node.Requires.ID))
			continue
		}
		if node.Requires.Points > dep.MaxPoints {
			errs = append(errs, fmt.Errorf("tree %q node %q: requires %d points in %q which caps at %d", t.Name, node.ID, node.Requires.Points, dep.ID, dep.MaxPoints))
		}
	}

	if cycle := requirementCycle(t); cycle != "" {
		errs = append(errs, fmt.Errorf("tree %q: requirement cycle through %q", t.Name, cycle))
	}
	return errors.Join(errs...)
}

// RequirementDepth returns, for every node, the length of its requirement
// chain (0 for nodes without a requirement). Nodes caught in a cycle or
// pointing at unknown nodes report the depth reached before the break.
func RequirementDepth(t Tree) map[string]int {
	depths := make(map[string]int, len(t.Talents))
	for _, node := range t.Talents {
		depth := 0
		seen := map[string]struct{}{node.ID: {}}
		current := node
		for current.Requires != nil {
			next, ok := t.Node(current.Requires.ID)
			if !ok {
				break
			}
			if _, loop := seen[next.ID]; loop {
				break
			}
			seen[next.ID] = struct{}{}
			depth++
			current = next
		}
		depths[node.ID] = depth
	}
	return depths
}

// requirementCycle returns the id of a node that participates in a
// requirement cycle, or "" when the requirement graph is acyclic.
func requirementCycle(t Tree) string {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(t.Talents))
	var visit func(id string) string
	visit = func(id string) string {
		switch state[id] {
		case visiting:
			return id
		case done:
			return ""
		}
		state[id] = visiting
		node, ok := t.Node(id)
		if ok && node.Requires != nil {
			if found := visit(node.Requires.ID); found != "" {
				return found
			}
		}
		state[id] = done
		return ""
	}
	for _, node := range t.Talents {
		if found := visit(node.ID); found != "" {
			return found
		}
	}
	return ""
}
