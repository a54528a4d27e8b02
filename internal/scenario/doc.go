// Package scenario provides conformance testing for Charta programs.
//
// A scenario loads an IR program into a VM, drives a sequence of scan
// cycles with declared inputs, and records everything observable through
// the public callback surface: coil transitions in dispatch order and
// the full output map of every completed cycle.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: motor_latch
//	description: "Latching coil holds across cycles until de-energised"
//	program: programs/motor.ir.json
//	cycles:
//	  - inputs: { start: true }
//	    expect_coils: { running: true }
//	  - inputs: {}
//	  - inputs: { stop: true }
//	    expect_coils: { running: false }
//
// The program path is resolved relative to the scenario file.
// expect_coils is a subset match against the cycle's outputs.
//
// # Deterministic Testing
//
// Traces are deterministic by construction: rungs evaluate in
// declaration order, transitions dispatch in ascending coil-name
// order, and outputs marshal with sorted keys. Identical programs and
// inputs always produce byte-identical traces, which is what makes
// golden file comparison viable.
package scenario
