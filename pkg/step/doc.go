// Package step holds the configurable formatting steps and the registry that
// builds them from config blocks.
//
// A step is configuration: it fingerprints itself for cache keying and, once
// per pipeline, prepares the stages that actually transform file content.
// Steps that do not depend on their neighbours implement GloballyReusable so
// their build directory is shared across step sequences.
package step
