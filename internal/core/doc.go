// Package core is the application layer of the rope-access operations
// backend. The HTTP server and the import CLI both go through [Service].
//
// # Daily reports
//
// A report belongs to one employee and date and carries its work entries.
// Every mutation runs in a transaction that locks the report row
// (SELECT ... FOR UPDATE), applies the change and recomputes total_minutes
// with the worktime package, so the stored total always matches the
// entries. [Service.UpdateDailyReport] syncs entries by id: known ids are
// updated, entries without an id are created and stored entries missing
// from the input are deleted.
//
// # Job imports
//
// [Service.ImportWorkJobs] decodes a spreadsheet through the sheet package
// and hands the rows to jobimport.Importer inside one transaction. Each row
// runs under its own savepoint, so a failed upsert only discards that row.
// Only one import runs at a time; see [ImportLimiter]. Runs are recorded in
// import_runs.
//
// # Errors
//
// Lookups return errors wrapping [ErrNotFound], unique violations wrap
// [ErrConflict] and bad input is reported as [ValidationErrors]. [MapError]
// turns any of these into a [UserMessage] safe to show to users.
package core
