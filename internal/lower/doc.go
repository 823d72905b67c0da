// Package lower turns a validated model graph into engine objects in two
// passes. The create pass asks an Adapter for one object per node and stores
// it in the node's slot. After every create has returned, the connect pass
// resolves each parameter (literals, slot references and evaluated
// expressions) and hands them to the Adapter.
//
// An identifier in an expression stands for the value derived for the node it
// names: the distribution mean or function result, computed in dependency
// order from that node's resolved parameters.
//
// Slots are allocated up front, so the result does not depend on the order
// in which nodes are visited.
package lower
