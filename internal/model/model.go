package model

// ArgumentKind distinguishes plain values from composite expressions.
type ArgumentKind string

const (
	// ValueArgument is a named numeric constant.
	ValueArgument ArgumentKind = "value"
	// CompositeArgument is a named expression over other arguments.
	CompositeArgument ArgumentKind = "composite"
)

// Model is the complete exported description.
type Model struct {
	Metadata  Metadata            `json:"metadata"`
	Arguments []Argument          `json:"arguments"`
	Equations map[string]Equation `json:"equations"`
}

// Metadata describes the model as a whole.
type Metadata struct {
	Name      string              `json:"name"`
	ODE       ODEMetadata         `json:"model_metadata"`
	Positions map[string]Position `json:"positions"`
}

// ODEMetadata holds integration settings for an ODE model.
type ODEMetadata struct {
	StartTime float64 `json:"start_time"`
	DeltaTime float64 `json:"delta_time"`
	EndTime   float64 `json:"end_time"`
}

// Position is an editor coordinate for a named argument.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Argument is one named entry of the model.
type Argument struct {
	Name        string       `json:"name"`
	Kind        ArgumentKind `json:"kind"`
	Value       *float64     `json:"value,omitempty"`
	Operation   string       `json:"operation,omitempty"`
	Composition []Component  `json:"composition,omitempty"`
}

// Component is one operand of a composite argument.
type Component struct {
	Name         string `json:"name"`
	Contribution string `json:"contribution"`
}

// Equation binds a state variable to the argument that computes its derivative.
type Equation struct {
	Name     string `json:"name"`
	Argument string `json:"argument"`
}

// NewValue builds a value argument.
func NewValue(name string, v float64) Argument {
	return Argument{Name: name, Kind: ValueArgument, Value: &v}
}

// NewComposite builds a composite argument.
func NewComposite(name, operation string, components ...Component) Argument {
	return Argument{Name: name, Kind: CompositeArgument, Operation: operation, Composition: components}
}
