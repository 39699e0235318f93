// Package encoding reads precedence models written in YAML:
//
//	variables:
//	  - {name: start, min: 0, max: 100}
//	  - {name: end, min: 0, max: 100, optional: used}
//	  - {name: duration, min: 2, max: 10}
//	literals: [used, before]
//	precedences:
//	  - {tail: start, head: end, offsetVar: duration}
//	  - {tail: end, head: start, offset: -20, when: "~before"}
//	assume: [used, before]
//	query: [start, end, -end]
//
// A literal reference is a declared literal name, negated with a "~" prefix.
// A query entry is a variable name for its lower bound, or "-" followed by a
// variable name for minus its upper bound.
package encoding

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Variable is an integer variable with domain [Min, Max]. It is optional when
// Optional names its presence literal.
type Variable struct {
	Name     string `yaml:"name"`
	Min      int64  `yaml:"min"`
	Max      int64  `yaml:"max"`
	Optional string `yaml:"optional,omitempty"`
}

// Precedence is Tail + Offset + OffsetVar <= Head, enforced when When holds.
type Precedence struct {
	Tail      string `yaml:"tail"`
	Head      string `yaml:"head"`
	Offset    int64  `yaml:"offset,omitempty"`
	OffsetVar string `yaml:"offsetVar,omitempty"`
	When      string `yaml:"when,omitempty"`
}

// Model is the content of a model file.
type Model struct {
	Variables   []Variable   `yaml:"variables"`
	Literals    []string     `yaml:"literals,omitempty"`
	Precedences []Precedence `yaml:"precedences,omitempty"`
	Assume      []string     `yaml:"assume,omitempty"`
	Query       []string     `yaml:"query,omitempty"`
}

// ParseModel decodes and validates a model. Unknown fields are rejected.
func ParseModel(in io.Reader) (*Model, error) {
	dec := yaml.NewDecoder(in)
	dec.KnownFields(true)

	m := &Model{}
	if err := dec.Decode(m); err != nil {
		if err == io.EOF {
			return nil, errors.New("empty model")
		}
		return nil, errors.Wrap(err, "decoding model")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks that names are unique and that every reference is declared.
func (m *Model) Validate() error {
	vars := map[string]bool{}
	optional := map[string]bool{}
	lits := map[string]bool{}

	for _, name := range m.Literals {
		if err := checkName(name); err != nil {
			return errors.Wrap(err, "literals")
		}
		if lits[name] {
			return errors.Errorf("literal %q declared twice", name)
		}
		lits[name] = true
	}
	for i, v := range m.Variables {
		if err := checkName(v.Name); err != nil {
			return errors.Wrapf(err, "variable %d", i)
		}
		if vars[v.Name] {
			return errors.Errorf("variable %q declared twice", v.Name)
		}
		if v.Min > v.Max {
			return errors.Errorf("variable %q has an empty domain [%d, %d]", v.Name, v.Min, v.Max)
		}
		if v.Optional != "" && !lits[strings.TrimPrefix(v.Optional, "~")] {
			return errors.Errorf("variable %q: unknown presence literal %q", v.Name, v.Optional)
		}
		vars[v.Name] = true
		optional[v.Name] = v.Optional != ""
	}
	for i, p := range m.Precedences {
		for _, ref := range []string{p.Tail, p.Head} {
			if !vars[ref] {
				return errors.Errorf("precedence %d: unknown variable %q", i, ref)
			}
		}
		if p.OffsetVar != "" && !vars[p.OffsetVar] {
			return errors.Errorf("precedence %d: unknown offset variable %q", i, p.OffsetVar)
		}
		if optional[p.OffsetVar] {
			return errors.Errorf("precedence %d: optional variable %q cannot be an offset", i, p.OffsetVar)
		}
		if p.When != "" && !lits[strings.TrimPrefix(p.When, "~")] {
			return errors.Errorf("precedence %d: unknown literal %q", i, p.When)
		}
	}
	for _, ref := range m.Assume {
		if !lits[strings.TrimPrefix(ref, "~")] {
			return errors.Errorf("assume: unknown literal %q", ref)
		}
	}
	for _, ref := range m.Query {
		if !vars[strings.TrimPrefix(ref, "-")] {
			return errors.Errorf("query: unknown variable %q", ref)
		}
	}
	return nil
}

func checkName(name string) error {
	if name == "" {
		return errors.New("missing name")
	}
	if strings.HasPrefix(name, "~") || strings.HasPrefix(name, "-") {
		return errors.Errorf("name %q cannot start with ~ or -", name)
	}
	return nil
}
