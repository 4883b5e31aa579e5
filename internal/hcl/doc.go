// Package hcl provides the HCL implementation of config.Loader.
//
// A configuration is any number of .hcl files. Each may contain at most one of
// the engine, export and editor blocks overall, plus any number of node and
// link blocks:
//
//	engine {
//	  tick_interval      = "16ms"
//	  max_steps_per_tick = 1
//	  prune_received     = false
//	}
//
//	node "beta" {
//	  kind     = "constant"
//	  args     = { value = 0.3 }
//	  position = [120, 40]
//	}
//
//	link {
//	  from = "beta.value"
//	  to   = "infections.lhs"
//	}
//
// Node args are evaluated with a small set of numeric and string functions
// (abs, ceil, floor, max, min, pow, signum, lower, upper) and no variables.
package hcl
