// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package flame writes folded stack samples suitable for flamegraph tooling.
Each closed span contributes one line of the form

	all;root;child;leaf 1234

where the trailing number is the span's busy time in microseconds.
*/
package flame
