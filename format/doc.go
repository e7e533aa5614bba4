// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package format provides a layer that renders events as log lines.

The layer remembers each span's fields as they are recorded, so every
emitted event carries the fields of all spans in scope alongside its own.
Output encoding is pluggable: logfmt and JSON encoders built on go-kit, and
a colorized terminal encoder for interactive use.
*/
package format
