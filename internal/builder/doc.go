/*
Package builder constructs the typed dependency graph of a model document. It
acts as the bridge between the format-agnostic document (defined in the
'config' package) and the validation and lowering stages.

The graph construction is a multi-phase process:

 1. Node Creation: the builder iterates through the random variables and then
    the deterministic functions, in declaration order, creating one
    *node.Node per entry. Names are resolved against the type registry once,
    and every parameter value is converted into a node.ParamValue.

 2. Dependency Linking: every {"variable": id} value, including those nested
    in arrays, becomes an edge. Identifiers used inside expressions become
    edges too, unless they name a numeric literal parameter of the same node.
    Referenced ids are recorded as strings and are not required to exist.

 3. Constraints: the constraints list is decoded into node.Constraint values.

Construction never stops at the first problem. Every malformed entry,
duplicate name and unknown type is collected into the returned diag.List,
and as many nodes as possible are still added so that reference resolution
and cycle detection can report on the rest of the document.
*/
package builder
