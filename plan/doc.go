// Package plan provides the core layout engine for townplan.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - layout.go: the Layout type owning the grid, building registry and road set
//   - placement.go: collision tests and the spiral/scan search for free positions
//   - roads.go: road network reconstruction from building positions
//
// # Architecture
//
// The plan package holds the data model and the deterministic algorithms;
// everything that searches or owns state lives in sub-packages:
//   - plan/optimize/: layout strategies and the batch runner that scores them
//   - plan/session/: the single-owner session exposing add/move/resize/optimize
//
// # Invariants
//
// After every committed operation, visible buildings lie inside the grid and
// never overlap (edge adjacency is allowed), and no road tile lies inside a
// visible building. Roads are never patched incrementally: any change to a
// building's position, visibility or road requirement is followed by a full
// RebuildRoads.
package plan
