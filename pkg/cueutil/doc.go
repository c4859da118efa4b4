// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities for module
// declaration files, edge files and the application config.
//
// Every file format follows the same three steps:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with a schema definition
//  3. Validate and decode to a Go struct
//
// # Usage
//
//	//go:embed moddecl_schema.cue
//	var schema []byte
//
//	result, err := cueutil.ParseAndDecode[Declarations](
//	    schema,
//	    data,
//	    "#Declarations",
//	    cueutil.WithFilename("modgate.cue"),
//	)
//	if err != nil {
//	    return nil, err // error carries the CUE path of the offending field
//	}
//	return result.Value, nil
//
// JSON input is accepted wherever CUE is, since JSON is valid CUE.
package cueutil
