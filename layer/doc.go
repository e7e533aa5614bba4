// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package layer composes units of collector behavior.  A Layer implements some
slice of trace handling (formatting, filtering, metrics) and is combined with
other layers over a shared span registry by NewCollector.  Layers observe
span lifecycle callbacks and events, and may keep per-span state in the
registry's extensions.

Individual layers can be gated with WithFilter without affecting their
siblings, and swapped at runtime through NewReload.
*/
package layer
