// Package argument holds the graph model for argument diagrams.
//
// # Overview
//
// Two families of diagrams share one model. AIF graphs contain statements
// (I-nodes), rule applications (RA), conflict applications (CA) and
// preference applications (PA) connected by role-labelled edges. Toulmin tree
// diagrams contain claims, premises, warrants, backings and rebuttals linked
// through [Inference] records; [Tree.Graph] derives their edges.
//
// # Graph
//
// [Graph] is an arena with an index: nodes and edges live in id-keyed maps,
// insertion order is kept for deterministic output, and [Graph.Merge] adds a
// fetched neighborhood as a set union by id. Edges may reference nodes that
// are not present; [Graph.DrawableEdges] drops them.
//
// # Payloads
//
// [DecodePayload] reads either wire shape:
//
//	{"nodes": [...], "edges": [...]}
//	{"statements": [...], "inferences": [...], "evidence": [...]}
//
// # Compound IDs
//
// Rule application ids encode the domain argument identifier as
// "<kind>:<argumentId>" (for example "RA:arg-17"); see [ParseCompoundID].
package argument
