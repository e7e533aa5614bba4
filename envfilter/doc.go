// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package envfilter implements a directive-matching filter in the style of
environment-variable log configuration.  A filter is built from a
comma-separated list of directives:

	error                              global level
	mypkg                              everything under mypkg (at any level)
	mypkg=debug                        mypkg at DEBUG and above
	[handshake]=trace                  TRACE inside any span named handshake
	mypkg[conn{peer=remote}]=debug     DEBUG inside mypkg spans named conn
	                                   that recorded peer="remote"

Directives with span or field clauses are dynamic: they activate when a
matching span is in scope, which requires the filter to observe span
creation.  Use Filter.Layer to register those observations alongside the
layers the filter gates.
*/
package envfilter
