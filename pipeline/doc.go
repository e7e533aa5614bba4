// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package pipeline assembles a complete collector from declarative options:
directive filtering, formatted output, optional buffering and rolling
files, and optional metrics.  It is the integration point applications are
expected to use, with viper unmarshalling and an fx module provided.
*/
package pipeline
