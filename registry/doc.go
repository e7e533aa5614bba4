// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package registry provides shared storage for active span data.  Span data is
kept in a sharded slab: IDs encode a slot index together with a generation
counter, so that a slot may be reused for a new span only after every
reference to the old one has been dropped, and stale IDs can never observe
the new occupant.

The registry stores only what every layer needs: metadata, the parent link,
a reference count, and an extensions map in which individual layers stash
their own per-span state.
*/
package registry
