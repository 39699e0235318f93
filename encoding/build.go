package encoding

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/ericr/precedences/config"
	"github.com/ericr/precedences/integer"
	"github.com/ericr/precedences/lit"
	"github.com/ericr/precedences/precedence"
	"github.com/ericr/precedences/trail"
)

// Instance is a model loaded into a trail with a registered precedence
// propagator, plus the names needed to print results.
type Instance struct {
	Trail      *trail.Trail
	Propagator *precedence.Propagator

	Vars map[string]integer.Var
	Lits map[string]lit.Lit
	// Presence is the presence literal of each optional variable.
	Presence map[integer.Var]lit.Lit
	// Assumptions and Query are the model's assume and query entries,
	// resolved.
	Assumptions []lit.Lit
	Query       []integer.Quantity

	varNames []string
	litNames []string
}

// Build loads the model into a new trail.
func (m *Model) Build(c *config.Config) (*Instance, error) {
	tr := trail.New(c)
	p := precedence.New(tr, tr, c)
	tr.Register(p)

	in := &Instance{
		Trail:      tr,
		Propagator: p,
		Vars:       map[string]integer.Var{},
		Lits:       map[string]lit.Lit{},
		Presence:   map[integer.Var]lit.Lit{},
	}
	for _, name := range m.Literals {
		in.Lits[name] = tr.NewBoolVar()
		in.litNames = append(in.litNames, name)
	}
	for _, v := range m.Variables {
		x, err := tr.NewVar(v.Min, v.Max)
		if err != nil {
			return nil, errors.Wrapf(err, "variable %q", v.Name)
		}
		in.Vars[v.Name] = x
		in.varNames = append(in.varNames, v.Name)
	}
	for _, v := range m.Variables {
		if v.Optional == "" {
			continue
		}
		present, err := in.literal(v.Optional)
		if err != nil {
			return nil, err
		}
		if err := p.MarkVariableAsOptional(in.Vars[v.Name], present); err != nil {
			return nil, errors.Wrapf(err, "variable %q", v.Name)
		}
		in.Presence[in.Vars[v.Name]] = present
	}
	for i, pr := range m.Precedences {
		tail, head := in.Vars[pr.Tail], in.Vars[pr.Head]

		when := lit.Undef
		if pr.When != "" {
			l, err := in.literal(pr.When)
			if err != nil {
				return nil, errors.Wrapf(err, "precedence %d", i)
			}
			when = l
		}
		switch {
		case pr.OffsetVar != "":
			if when.Defined() || pr.Offset != 0 {
				return nil, errors.Errorf("precedence %d: a variable offset cannot be combined with a constant offset or a literal", i)
			}
			p.AddPrecedenceWithVariableOffset(tail, head, in.Vars[pr.OffsetVar])
		case when.Defined():
			p.AddConditionalPrecedenceWithOffset(tail, head, pr.Offset, when)
		default:
			p.AddPrecedenceWithOffset(tail, head, pr.Offset)
		}
	}
	for _, ref := range m.Assume {
		l, err := in.literal(ref)
		if err != nil {
			return nil, errors.Wrap(err, "assume")
		}
		in.Assumptions = append(in.Assumptions, l)
	}
	for _, ref := range m.Query {
		q, err := in.quantity(ref)
		if err != nil {
			return nil, errors.Wrap(err, "query")
		}
		in.Query = append(in.Query, q)
	}
	return in, nil
}

// literal resolves "name" or "~name".
func (in *Instance) literal(ref string) (lit.Lit, error) {
	l, ok := in.Lits[strings.TrimPrefix(ref, "~")]
	if !ok {
		return lit.Undef, errors.Errorf("unknown literal %q", ref)
	}
	if strings.HasPrefix(ref, "~") {
		return l.Not(), nil
	}
	return l, nil
}

// quantity resolves "name" or "-name".
func (in *Instance) quantity(ref string) (integer.Quantity, error) {
	v, ok := in.Vars[strings.TrimPrefix(ref, "-")]
	if !ok {
		return integer.NoQuantity, errors.Errorf("unknown variable %q", ref)
	}
	if strings.HasPrefix(ref, "-") {
		return v.MinusUpperBound(), nil
	}
	return v.LowerBound(), nil
}

// NumVars returns the number of integer variables, named 0 to NumVars()-1.
func (in *Instance) NumVars() int {
	return len(in.varNames)
}

// VarName returns the model name of v.
func (in *Instance) VarName(v integer.Var) string {
	return in.varNames[v]
}

// LitName returns the model reference of l.
func (in *Instance) LitName(l lit.Lit) string {
	if !l.Defined() {
		return "true"
	}
	if l.Sign() {
		return "~" + in.litNames[l.Index()]
	}
	return in.litNames[l.Index()]
}

// QuantityName returns the model reference of q.
func (in *Instance) QuantityName(q integer.Quantity) string {
	if q.Negated() {
		return "-" + in.VarName(q.Var())
	}
	return in.VarName(q.Var())
}

// BoundString prints b with model names.
func (in *Instance) BoundString(b integer.BoundLit) string {
	if b.Q.Negated() {
		return fmt.Sprintf("%s <= %d", in.VarName(b.Q.Var()), -b.Value)
	}
	return fmt.Sprintf("%s >= %d", in.VarName(b.Q.Var()), b.Value)
}

// ReasonString prints r with model names.
func (in *Instance) ReasonString(r integer.Reason) string {
	parts := []string{}

	for _, l := range r.Literals {
		parts = append(parts, in.LitName(l))
	}
	for _, b := range r.Bounds {
		parts = append(parts, in.BoundString(b))
	}
	return strings.Join(parts, ", ")
}
