// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package tracehttp instruments HTTP servers: each request is wrapped in a
server span carrying the request's method, URI, and peer, correlated by an
X-Trace-Id header that is honored when present and generated when absent.
Both gorilla/mux middleware and justinas/alice constructors are provided.
*/
package tracehttp
