package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Engine *engineBlock `hcl:"engine,block"`
	Export *exportBlock `hcl:"export,block"`
	Editor *editorBlock `hcl:"editor,block"`
	Nodes  []*nodeBlock `hcl:"node,block"`
	Links  []*linkBlock `hcl:"link,block"`
}

type engineBlock struct {
	TickInterval    *string   `hcl:"tick_interval,optional"`
	MaxStepsPerTick *int      `hcl:"max_steps_per_tick,optional"`
	PruneReceived   *bool     `hcl:"prune_received,optional"`
	DeclRange       hcl.Range `hcl:",def_range"`
}

type exportBlock struct {
	Name      *string   `hcl:"name,optional"`
	Format    *string   `hcl:"format,optional"`
	Path      *string   `hcl:"path,optional"`
	StartTime *float64  `hcl:"start_time,optional"`
	DeltaTime *float64  `hcl:"delta_time,optional"`
	EndTime   *float64  `hcl:"end_time,optional"`
	DeclRange hcl.Range `hcl:",def_range"`
}

type editorBlock struct {
	URL       string    `hcl:"url"`
	Namespace *string   `hcl:"namespace,optional"`
	Timeout   *string   `hcl:"timeout,optional"`
	DeclRange hcl.Range `hcl:",def_range"`
}

type nodeBlock struct {
	Name     string         `hcl:"name,label"`
	Kind     string         `hcl:"kind"`
	Args     hcl.Expression `hcl:"args,optional"`
	Position []float64      `hcl:"position,optional"`
}

type linkBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}
