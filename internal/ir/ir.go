package ir

// IRVersion is the IR document version this package understands.
const IRVersion = "0.1.0"

// Guard type discriminators.
const (
	GuardContact = "contact"
	GuardAnd     = "and"
	GuardOr      = "or"
	GuardNot     = "not"
)

// Contact types. NO (normally open) passes the referenced value through;
// NC (normally closed) negates it.
const (
	ContactNO = "NO"
	ContactNC = "NC"
)

// Action type discriminators.
const (
	ActionEnergise   = "energise"
	ActionDeEnergise = "de_energise"
)

// Document is a complete IR program description.
type Document struct {
	Version string `json:"version"`
	Module  Module `json:"module"`
}

// Module declares the signals, coils, and rungs of one ladder program.
type Module struct {
	Name    string   `json:"name"`
	Signals []Signal `json:"signals"`
	Coils   []Coil   `json:"coils"`
	Rungs   []Rung   `json:"rungs"`
}

// Signal declares a boolean input.
type Signal struct {
	Name string `json:"name"`
}

// Coil declares a boolean output. A latching coil keeps its value across
// scan cycles until explicitly de-energised.
type Coil struct {
	Name     string `json:"name"`
	Latching bool   `json:"latching,omitempty"`
}

// Rung pairs a guard with the actions applied when the guard is true.
// Rungs execute in declaration order.
type Rung struct {
	Name    string   `json:"name"`
	Guard   Guard    `json:"guard"`
	Actions []Action `json:"actions"`
}

// Guard is a boolean expression over signal and coil states.
//
// The populated fields depend on Type:
//   - contact: Name and ContactType
//   - and/or:  Operands, or the two-operand Left/Right form
//   - not:     Operand
//
// Both the Operands list form and the Left/Right form are accepted for
// and/or guards; the wire format allows either.
type Guard struct {
	Type        string  `json:"type"`
	Name        string  `json:"name,omitempty"`
	ContactType string  `json:"contact_type,omitempty"`
	Operands    []Guard `json:"operands,omitempty"`
	Left        *Guard  `json:"left,omitempty"`
	Right       *Guard  `json:"right,omitempty"`
	Operand     *Guard  `json:"operand,omitempty"`
}

// Subguards returns the child guards in evaluation order, merging the
// operands-list and left/right/operand wire forms. Contacts have none.
func (g *Guard) Subguards() []*Guard {
	if len(g.Operands) > 0 {
		out := make([]*Guard, len(g.Operands))
		for i := range g.Operands {
			out[i] = &g.Operands[i]
		}
		return out
	}
	var out []*Guard
	if g.Left != nil {
		out = append(out, g.Left)
	}
	if g.Right != nil {
		out = append(out, g.Right)
	}
	if g.Operand != nil {
		out = append(out, g.Operand)
	}
	return out
}

// Action mutates one coil when its rung's guard is true.
type Action struct {
	Type string `json:"type"`
	Coil string `json:"coil"`
}
