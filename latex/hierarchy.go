package latex

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Hierarchy is the ordered set of recognized sectioning commands, highest
// structural priority first. Commands sharing a slice share a rank, which
// is how custom macros (cvsection, sect) are treated as section-level
// without editing call sites.
//
// A command's body extends to the next command of equal or higher priority;
// lower-priority commands are part of the body.
type Hierarchy [][]string

// DefaultHierarchy returns the standard LaTeX sectioning order plus the
// custom heading macros commonly used in resume and thesis templates.
func DefaultHierarchy() Hierarchy {
	return Hierarchy{
		{"part"},
		{"chapter"},
		{"section", "cvsection", "sect"},
		{"subsection"},
		{"subsubsection"},
		{"paragraph"},
		{"subparagraph"},
	}
}

// Rank returns the priority of command (0 = highest) and whether the
// command is recognized at all.
func (h Hierarchy) Rank(command string) (int, bool) {
	for i, level := range h {
		for _, c := range level {
			if c == command {
				return i, true
			}
		}
	}
	return 0, false
}

// Commands returns every recognized command, priority order.
func (h Hierarchy) Commands() []string {
	var out []string
	for _, level := range h {
		out = append(out, level...)
	}
	return out
}

type hierarchyFile struct {
	Levels [][]string `yaml:"levels"`
}

// LoadHierarchyFile reads a YAML hierarchy definition:
//
//	levels:
//	  - [part]
//	  - [chapter]
//	  - [section, cvsection]
//	  - [subsection]
func LoadHierarchyFile(path string) (Hierarchy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f hierarchyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("latex: parse hierarchy %s: %w", path, err)
	}
	if len(f.Levels) == 0 {
		return nil, fmt.Errorf("latex: hierarchy %s: no levels defined", path)
	}
	for i, level := range f.Levels {
		if len(level) == 0 {
			return nil, fmt.Errorf("latex: hierarchy %s: level %d is empty", path, i)
		}
	}
	return Hierarchy(f.Levels), nil
}
