// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package concurrent provides small lifecycle primitives for background workers,
chiefly the Runnable abstraction and timed waits on sync.WaitGroup.
*/
package concurrent
