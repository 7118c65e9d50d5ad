// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates configuration documents against an embedded CUE
// schema and decodes them into Go structs.
//
// Two entry points share the same flow (compile schema, unify, validate,
// decode):
//
//   - ParseAndDecode takes CUE source bytes.
//   - DecodeValue takes an already decoded Go value (for example the result of
//     unmarshalling a TOML file into map[string]any) and encodes it into CUE
//     before unifying.
//
// # Usage
//
//	//go:embed schema.cue
//	var schema []byte
//
//	result, err := cueutil.ParseAndDecode[Document](
//	    schema,
//	    fileBytes,
//	    "#Document",
//	    cueutil.WithFilename("mods.cue"),
//	)
//	if err != nil {
//	    return nil, err // *cueutil.ValidationError, one Problem per field
//	}
//	return result.Value, nil
package cueutil
