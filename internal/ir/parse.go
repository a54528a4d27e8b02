package ir

import (
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// ParseError reports a malformed IR document. Field identifies the location
// in the document using JSON-path-like notation (e.g. "module.rungs[2].guard").
type ParseError struct {
	Field   string
	Message string
	Err     error // underlying decode error, if any
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("parse IR: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("parse IR: %s", e.Message)
}

// Unwrap returns the underlying decode error, if any.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse decodes and structurally validates an IR document.
//
// Parse checks well-formedness only: JSON syntax, guard and action shapes,
// non-empty names, and known discriminator values. It does NOT check that
// contacts or actions reference declared names - that is program-load
// validation owned by the engine.
//
// All names in the returned document are normalized to Unicode NFC.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Message: "invalid JSON", Err: err}
	}

	if doc.Version == "" {
		return nil, &ParseError{Field: "version", Message: "version is required"}
	}

	normalizeNames(&doc)

	if doc.Module.Name == "" {
		return nil, &ParseError{Field: "module.name", Message: "module name is required"}
	}

	for i, sig := range doc.Module.Signals {
		if sig.Name == "" {
			return nil, &ParseError{
				Field:   fmt.Sprintf("module.signals[%d].name", i),
				Message: "signal name must be non-empty",
			}
		}
	}
	for i, coil := range doc.Module.Coils {
		if coil.Name == "" {
			return nil, &ParseError{
				Field:   fmt.Sprintf("module.coils[%d].name", i),
				Message: "coil name must be non-empty",
			}
		}
	}

	for i, rung := range doc.Module.Rungs {
		field := fmt.Sprintf("module.rungs[%d]", i)
		if rung.Name == "" {
			return nil, &ParseError{Field: field + ".name", Message: "rung name must be non-empty"}
		}
		if err := checkGuard(&rung.Guard, field+".guard"); err != nil {
			return nil, err
		}
		if len(rung.Actions) == 0 {
			return nil, &ParseError{Field: field + ".actions", Message: "rung must have at least one action"}
		}
		for j, act := range rung.Actions {
			actField := fmt.Sprintf("%s.actions[%d]", field, j)
			switch act.Type {
			case ActionEnergise, ActionDeEnergise:
			default:
				return nil, &ParseError{
					Field:   actField + ".type",
					Message: fmt.Sprintf("unknown action type %q", act.Type),
				}
			}
			if act.Coil == "" {
				return nil, &ParseError{Field: actField + ".coil", Message: "action coil must be non-empty"}
			}
		}
	}

	return &doc, nil
}

// checkGuard validates the shape of a guard expression recursively.
func checkGuard(g *Guard, field string) error {
	switch g.Type {
	case GuardContact:
		if g.Name == "" {
			return &ParseError{Field: field + ".name", Message: "contact name must be non-empty"}
		}
		switch g.ContactType {
		case ContactNO, ContactNC:
		case "":
			// Omitted contact_type defaults to NO at evaluation time.
		default:
			return &ParseError{
				Field:   field + ".contact_type",
				Message: fmt.Sprintf("unknown contact type %q", g.ContactType),
			}
		}
		return nil

	case GuardAnd, GuardOr:
		if len(g.Operands) > 0 {
			if len(g.Operands) < 2 {
				return &ParseError{
					Field:   field + ".operands",
					Message: fmt.Sprintf("%s guard requires at least two operands", g.Type),
				}
			}
			for i := range g.Operands {
				if err := checkGuard(&g.Operands[i], fmt.Sprintf("%s.operands[%d]", field, i)); err != nil {
					return err
				}
			}
			return nil
		}
		if g.Left == nil || g.Right == nil {
			return &ParseError{
				Field:   field,
				Message: fmt.Sprintf("%s guard requires operands or left/right", g.Type),
			}
		}
		if err := checkGuard(g.Left, field+".left"); err != nil {
			return err
		}
		return checkGuard(g.Right, field+".right")

	case GuardNot:
		inner := g.Operand
		if inner == nil && len(g.Operands) == 1 {
			inner = &g.Operands[0]
		}
		if inner == nil {
			return &ParseError{Field: field, Message: "not guard requires exactly one operand"}
		}
		return checkGuard(inner, field+".operand")

	case "":
		return &ParseError{Field: field + ".type", Message: "guard type is required"}

	default:
		return &ParseError{
			Field:   field + ".type",
			Message: fmt.Sprintf("unknown guard type %q", g.Type),
		}
	}
}

// normalizeNames applies NFC normalization to every name in the document.
// Lookups throughout the SDK compare names byte-wise; normalizing once at
// the parse boundary keeps visually identical names from ever diverging.
func normalizeNames(doc *Document) {
	doc.Module.Name = norm.NFC.String(doc.Module.Name)
	for i := range doc.Module.Signals {
		doc.Module.Signals[i].Name = norm.NFC.String(doc.Module.Signals[i].Name)
	}
	for i := range doc.Module.Coils {
		doc.Module.Coils[i].Name = norm.NFC.String(doc.Module.Coils[i].Name)
	}
	for i := range doc.Module.Rungs {
		doc.Module.Rungs[i].Name = norm.NFC.String(doc.Module.Rungs[i].Name)
		normalizeGuard(&doc.Module.Rungs[i].Guard)
		for j := range doc.Module.Rungs[i].Actions {
			doc.Module.Rungs[i].Actions[j].Coil = norm.NFC.String(doc.Module.Rungs[i].Actions[j].Coil)
		}
	}
}

func normalizeGuard(g *Guard) {
	g.Name = norm.NFC.String(g.Name)
	for i := range g.Operands {
		normalizeGuard(&g.Operands[i])
	}
	if g.Left != nil {
		normalizeGuard(g.Left)
	}
	if g.Right != nil {
		normalizeGuard(g.Right)
	}
	if g.Operand != nil {
		normalizeGuard(g.Operand)
	}
}
