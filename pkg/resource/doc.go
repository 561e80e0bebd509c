// Package resource manages a single uploaded file attached to one attribute
// of an owning record.
//
// A file moves through two areas of a [Backend]:
//
//   - the staging area, a flat directory holding uploads that are not yet
//     committed, and files that were superseded or deleted;
//   - the store area, a sharded tree holding committed files.
//
// The location of a stored file is derived from its name, so the record only
// ever keeps the bare name.
//
// # Lifecycle
//
// Use [New] to create a [Manager] for one record attribute. [Manager.Stage]
// (or [Manager.Attach] followed by [Manager.Resolve]) writes an upload into
// the staging area under a fresh name and points the record at it.
// [Manager.Promote] copies the staged file into the store area under another
// fresh name and points the record at that name. After the record has been
// saved, [Manager.Reconcile] moves the superseded file back into staging.
// [Manager.Delete] does the same for the current file.
//
// Nothing is ever erased: files leave the store area by being renamed into
// the staging area, and permanent removal is left to an external retention
// sweep.
//
// Operations return a [Result] together with an error:
//   - [Succeeded]: the operation changed something
//   - [Skipped]: there was nothing to do
//   - [Failed]: the operation failed; the error says why
//
// # Storage Layout
//
//	{store}/a1/b2/c3/a1b2c3d4....jpg        (stored file)
//	{store}/a1/b2/c3/a1b2c3d4....thumb.jpg  (derivative variant)
//	{temp}/9f8e7d6c....png                  (staged upload)
//	{temp}/a1b2c3d4....jpg                  (superseded file)
//
// # Backends
//
//   - [OSBackend]: local directory, atomic renames
//   - [BucketBackend]: any gocloud.dev/blob bucket (file://, mem://, s3://, gs://)
//
// See example_test.go for usage examples.
package resource
