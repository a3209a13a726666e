// Package datamod loads structured data files as modules.
//
// The top level of a data file must be a mapping; each key becomes a
// module attribute. Supported formats:
//
//	.toml         TOML
//	.yaml, .yml   YAML
//	.json         JSON
//	.hcl          HCL attributes and blocks
//
// Integral numbers become Starlark ints, other numbers floats. TOML and
// YAML keys are added in sorted order, JSON and HCL keys in source order.
//
// HCL attributes may refer to top-level attributes defined above them and
// call a small set of functions (upper, lower, join, concat, length, min,
// max, format, jsonencode). A labelled block becomes a dict keyed by its
// labels:
//
//	service "web" {
//	  port = 80
//	}
//
// yields service == {"web": {"port": 80}}.
package datamod
