// Package canvas defines the node-and-edge model of a mindmap canvas and the
// interface through which the keyboard editing components talk to the host
// application that owns it.
//
// # Ownership
//
// Nodes and edges belong to the host. Components in this module receive
// Node and Edge values (copies) and refer back to the host by id; they never
// keep the values beyond the handler that read them.
//
// # Hierarchy
//
// The graph carries no parent field. A node reached from another through an
// edge that leaves the source's right side and enters the target's left side
// is a right-side child of the source. RightChildren and Parent derive the
// hierarchy from that convention alone.
package canvas
