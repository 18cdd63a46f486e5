// Package jobimport reconciles rows from a work job export into the job
// catalog.
//
// The importer reads already-decoded rows, classifies each one, and upserts
// the surviving jobs by code. Every row ends in exactly one of three
// outcomes:
//
//	Imported  the job was created or updated in the store
//	Skipped   code or description was blank; the store is not touched
//	Failed    the store rejected the upsert; the run continues
//
// Stats accumulate per run, so Total == Success + Skipped + Errors once Run
// returns without error. Decoding the spreadsheet bytes is left to the
// caller (see package sheet).
package jobimport
