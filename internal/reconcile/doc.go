// Package reconcile matches database file references against the storage
// directory.
//
// Reconciliation is two sequential passes. BuildExistsSet reads every
// record, resolves its path and collects the base identifiers of records
// whose file is present on disk. FindOrphans then lists the directory and
// groups every eligible file whose base identifier is not in that set.
// A file is kept as soon as any record shares its base identifier, so all
// variants of one upload (thumbnails, resized copies) live or die together.
package reconcile
