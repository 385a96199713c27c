// Package catalog loads the talent trees of each playable class.
//
// Class data ships inside the binary as YAML, one file per class under
// data/. A Loader parses and validates each class once, shares concurrent
// first loads, and hands every caller its own deep copy.
package catalog

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	apperrors "github.com/louisbranch/talentcalc/internal/platform/errors"
	"github.com/louisbranch/talentcalc/internal/talent/tree"
)

// DefaultClass is selected when a path names no class.
const DefaultClass = "warrior"

//go:embed data/*.yaml
var embedded embed.FS

var knownClasses = []string{
	"warrior", "paladin", "hunter", "rogue", "priest",
	"shaman", "mage", "warlock", "druid",
}

// Classes lists every known class name in display order.
func Classes() []string {
	return slices.Clone(knownClasses)
}

// Normalize trims and lowercases a class name.
func Normalize(className string) string {
	return strings.ToLower(strings.TrimSpace(className))
}

// IsKnown reports whether className names a known class.
func IsKnown(className string) bool {
	return slices.Contains(knownClasses, Normalize(className))
}

// DisplayName title-cases a class name for tag.
func DisplayName(className string, tag language.Tag) string {
	return cases.Title(tag).String(Normalize(className))
}

// Loader reads class data from a filesystem laid out as data/<class>.yaml.
type Loader struct {
	fsys  fs.FS
	group singleflight.Group

	mu    sync.RWMutex
	cache map[string][]tree.Tree
}

// NewLoader returns a loader over fsys. A nil fsys uses the embedded data.
func NewLoader(fsys fs.FS) *Loader {
	if fsys == nil {
		fsys = embedded
	}
	return &Loader{
		fsys:  fsys,
		cache: make(map[string][]tree.Tree),
	}
}

// Load returns the trees of className. Known classes without a data file
// load as an empty tree list. The returned slice is the caller's to modify.
func (l *Loader) Load(ctx context.Context, className string) ([]tree.Tree, error) {
	name := Normalize(className)
	if !IsKnown(name) {
		return nil, apperrors.WithMetadata(apperrors.CodeUnknownClass,
			fmt.Sprintf("unknown class %q", className), map[string]string{"Class": className})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	cached, ok := l.cache[name]
	l.mu.RUnlock()
	if ok {
		return tree.Clone(cached), nil
	}

	ch := l.group.DoChan(name, func() (any, error) {
		trees, err := l.read(name)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cache[name] = trees
		l.mu.Unlock()
		return trees, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return tree.Clone(res.Val.([]tree.Tree)), nil
	}
}

func (l *Loader) read(name string) ([]tree.Tree, error) {
	data, err := fs.ReadFile(l.fsys, "data/"+name+".yaml")
	if errors.Is(err, fs.ErrNotExist) {
		return []tree.Tree{}, nil
	}
	if err != nil {
		return nil, invalidData(name, "read class data", err)
	}
	class, err := Parse(data)
	if err != nil {
		return nil, invalidData(name, "parse class data", err)
	}
	if Normalize(class.Name) != name {
		return nil, invalidData(name, "class data", fmt.Errorf("file declares class %q", class.Name))
	}
	return class.Trees, nil
}

// Parse decodes and validates one class document.
func Parse(data []byte) (tree.Class, error) {
	var class tree.Class
	if err := yaml.Unmarshal(data, &class); err != nil {
		return tree.Class{}, fmt.Errorf("decode yaml: %w", err)
	}
	if err := tree.Validate(class); err != nil {
		return tree.Class{}, fmt.Errorf("validate %s: %w", class.Name, err)
	}
	return class, nil
}

func invalidData(name, message string, cause error) error {
	return apperrors.WrapWithMetadata(apperrors.CodeInvalidClassData,
		fmt.Sprintf("%s %s: %v", message, name, cause), map[string]string{"Class": name}, cause)
}
