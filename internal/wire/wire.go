// Package wire loads a constraint system for ifscsctl from a YAML
// document, fixing the solver's V and C type parameters to string:
// variables and constructor labels are both plain names, the
// instantiation a command-line tool needs since flags and files carry
// text, not Go type parameters.
package wire

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/gitrdm/ifscs/pkg/setcs"
)

// exprDoc is the on-disk shape of one set expression. Kind selects
// which of Expr's four forms it represents:
//
//	empty, universal      - no other fields used
//	var                   - Name
//	term                  - Ctor, Signature (one entry per child,
//	                        "covariant" or "contravariant"), Children
//
// "atom" is accepted as an alias for a zero-child term.
type exprDoc struct {
	Kind      string    `yaml:"kind"`
	Name      string    `yaml:"name,omitempty"`
	Ctor      string    `yaml:"ctor,omitempty"`
	Signature []string  `yaml:"signature,omitempty"`
	Children  []exprDoc `yaml:"children,omitempty"`
}

type inclusionDoc struct {
	LHS exprDoc `yaml:"lhs"`
	RHS exprDoc `yaml:"rhs"`
}

type systemDoc struct {
	Inclusions []inclusionDoc `yaml:"inclusions"`
	Queries    []string       `yaml:"queries"`
}

// System is a parsed constraint system file: the constraint system
// itself plus the list of variables the caller wants least-solution
// results for.
type System struct {
	Constraints setcs.ConstraintSystem[string, string]
	Queries     []string
}

// Load reads and parses the constraint system file at path.
func Load(path string) (System, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return System{}, errors.Wrapf(err, "reading constraint system file %q", path)
	}

	var doc systemDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return System{}, errors.Wrapf(err, "parsing constraint system file %q", path)
	}

	inclusions := make([]setcs.Inclusion[string, string], 0, len(doc.Inclusions))
	for i, incDoc := range doc.Inclusions {
		lhs, err := toExpr(incDoc.LHS)
		if err != nil {
			return System{}, errors.Wrapf(err, "inclusion %d, lhs", i)
		}
		rhs, err := toExpr(incDoc.RHS)
		if err != nil {
			return System{}, errors.Wrapf(err, "inclusion %d, rhs", i)
		}
		inclusions = append(inclusions, setcs.NewInclusion(lhs, rhs))
	}

	return System{
		Constraints: setcs.NewConstraintSystem(inclusions...),
		Queries:     doc.Queries,
	}, nil
}

func toExpr(d exprDoc) (setcs.Expr[string, string], error) {
	switch d.Kind {
	case "empty":
		return setcs.EmptySet[string, string](), nil
	case "universal":
		return setcs.UniversalSet[string, string](), nil
	case "var":
		if d.Name == "" {
			return setcs.Expr[string, string]{}, fmt.Errorf("var expression missing name")
		}
		return setcs.SetVariable[string, string](d.Name), nil
	case "atom":
		if d.Ctor == "" {
			return setcs.Expr[string, string]{}, fmt.Errorf("atom expression missing ctor")
		}
		return setcs.Atom[string, string](d.Ctor), nil
	case "term":
		if d.Ctor == "" {
			return setcs.Expr[string, string]{}, fmt.Errorf("term expression missing ctor")
		}
		if len(d.Signature) != len(d.Children) {
			return setcs.Expr[string, string]{}, fmt.Errorf("term %q: %d signature entries for %d children", d.Ctor, len(d.Signature), len(d.Children))
		}
		sig := make([]setcs.Variance, len(d.Signature))
		for i, v := range d.Signature {
			variance, err := parseVariance(v)
			if err != nil {
				return setcs.Expr[string, string]{}, errors.Wrapf(err, "term %q, position %d", d.Ctor, i)
			}
			sig[i] = variance
		}
		children := make([]setcs.Expr[string, string], len(d.Children))
		for i, c := range d.Children {
			child, err := toExpr(c)
			if err != nil {
				return setcs.Expr[string, string]{}, errors.Wrapf(err, "term %q, child %d", d.Ctor, i)
			}
			children[i] = child
		}
		return setcs.Term[string, string](d.Ctor, sig)(children...), nil
	default:
		return setcs.Expr[string, string]{}, fmt.Errorf("unknown expression kind %q", d.Kind)
	}
}

func parseVariance(s string) (setcs.Variance, error) {
	switch s {
	case "covariant":
		return setcs.Covariant, nil
	case "contravariant":
		return setcs.Contravariant, nil
	default:
		return 0, fmt.Errorf("unknown variance %q, want \"covariant\" or \"contravariant\"", s)
	}
}
