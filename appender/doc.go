// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package appender supplies destination writers for formatted trace output:
a non-blocking writer that decouples instrumented code from slow sinks, a
time-based rolling file writer, a size-based rolling writer backed by
lumberjack, and a tee.
*/
package appender
