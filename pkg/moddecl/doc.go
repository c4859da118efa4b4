// SPDX-License-Identifier: MPL-2.0

// Package moddecl reads module declarations and observed edges from CUE or
// JSON files.
//
// A declaration file names the root import path and lists the modules:
//
//	root: "example.com/demo"
//	modules: [
//	    {name: "featureone", display_name: "Feature One", type: "open",
//	     allowed_dependencies: ["infrastructure"]},
//	    {name: "infrastructure", type: "open"},
//	]
//
// An edges file lists dependencies found by some other analysis pass:
//
//	edges: [{from: "featureone", to: "infrastructure"}]
//
// Both are validated against an embedded schema before decoding.
package moddecl
