package ast

import (
	"gopkg.in/yaml.v3"
)

var (
	_ Token        = Literal{}
	_ Token        = Class{}
	_ ClassElement = Literal{}
	_ ClassElement = Range{}
	_ Factor       = Group{}
	_ Factor       = FixedGroup{}

	_ yaml.Marshaler = (*Expression)(nil)
)

// Tree returns the expression as nested maps and slices for YAML or JSON
// encoding.
func (e *Expression) Tree() map[string]interface{} {
	branches := make([]interface{}, len(e.Union))
	for i, b := range e.Union {
		terms := make([]interface{}, len(b.Concat))
		for j, t := range b.Concat {
			terms[j] = termTree(t)
		}
		branches[i] = map[string]interface{}{"concat": terms}
	}
	return map[string]interface{}{"union": branches}
}

// MarshalYAML implements yaml.Marshaler
func (e *Expression) MarshalYAML() (interface{}, error) {
	return e.Tree(), nil
}

func termTree(t Term) map[string]interface{} {
	node := map[string]interface{}{"factor": factorTree(t.Factor)}
	if t.Suffix != nil {
		node["suffix"] = map[string]interface{}{
			"kind": t.Suffix.Kind.String(),
			"text": t.Suffix.String(),
		}
	}
	return node
}

func factorTree(f Factor) map[string]interface{} {
	switch f := f.(type) {
	case Literal:
		return literalTree(f)
	case Class:
		elems := make([]interface{}, len(f.Elements))
		for i, e := range f.Elements {
			switch e := e.(type) {
			case Range:
				elems[i] = map[string]interface{}{"range": e.String(), "size": e.Size()}
			case Literal:
				elems[i] = literalTree(e)
			}
		}
		return map[string]interface{}{"class": elems}
	case Group:
		return map[string]interface{}{"group": f.Expr.Tree()}
	case FixedGroup:
		return map[string]interface{}{"fixed_group": f.Expr.Tree()}
	default:
		return map[string]interface{}{"unknown": f.String()}
	}
}

func literalTree(l Literal) map[string]interface{} {
	if l.Escaped {
		return map[string]interface{}{"escape": string(l.Value)}
	}
	return map[string]interface{}{"char": string(l.Value)}
}
