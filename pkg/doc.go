// Package pkg provides the core libraries for the geotour TSP pipeline.
//
// # Overview
//
// Geotour turns tables of geographic coordinates into TSPLIB problem
// instances, drives the external LKH solver over them, and maps the
// resulting tour back onto the original records. The pkg directory is
// organized by pipeline stage:
//
//  1. [dataset] - Tabular input/output (csv, xlsx), column detection
//  2. [geo] - Haversine distances and the scaled integer matrix
//  3. [tsplib] - The solver's text formats: problem, parameter, tour files
//  4. [solver] - External solver process orchestration
//  5. [reconcile] - Mapping solver tours back onto source records
//  6. [pipeline] - End-to-end orchestration with an event stream
//
// # Architecture
//
// The typical data flow:
//
//	coordinate table (csv/xlsx)
//	         ↓ dataset
//	[]geo.Point
//	         ↓ geo
//	scaled integer matrix
//	         ↓ tsplib
//	problem + parameter files
//	         ↓ solver (external LKH process)
//	tour file
//	         ↓ tsplib, reconcile
//	visiting order + distance
//	         ↓ dataset
//	ordered result tables
//
// Supporting packages: [errors] for coded errors, [observability] for
// optional instrumentation hooks, [buildinfo] for version stamping.
package pkg
