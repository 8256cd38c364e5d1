// Package schema validates the shape of maze description documents.
//
// YAML and JSON maze files are decoded into a generic tree and checked against
// an embedded JSON Schema before they are turned into domain values, so shape
// problems are reported with the path of the offending field:
//
//	var doc any
//	_ = json.Unmarshal(data, &doc)
//	if err := schema.ValidateMazeDocument(doc); err != nil {
//	    for _, v := range schema.ValidationErrors(err) {
//	        fmt.Println(v.Key, v.Reason)
//	    }
//	}
//
// Structural rules that need the whole graph (dangling exits, dead ends,
// reachability) live in internal/validator.
package schema
