// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracehttp

import "net/http"

// StatusRecorder is an http.ResponseWriter that remembers the status code
// and byte count written to it.
type StatusRecorder struct {
	http.ResponseWriter

	status  int
	written int64
}

// NewStatusRecorder decorates a response writer.  An unset status reads as
// http.StatusOK, matching net/http's implicit WriteHeader.
func NewStatusRecorder(response http.ResponseWriter) *StatusRecorder {
	return &StatusRecorder{ResponseWriter: response}
}

func (sr *StatusRecorder) WriteHeader(status int) {
	if sr.status == 0 {
		sr.status = status
	}

	sr.ResponseWriter.WriteHeader(status)
}

func (sr *StatusRecorder) Write(p []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}

	n, err := sr.ResponseWriter.Write(p)
	sr.written += int64(n)
	return n, err
}

// Status returns the response code sent, or http.StatusOK if the handler
// never set one explicitly.
func (sr *StatusRecorder) Status() int {
	if sr.status == 0 {
		return http.StatusOK
	}

	return sr.status
}

// BytesWritten returns the size of the response body so far.
func (sr *StatusRecorder) BytesWritten() int64 {
	return sr.written
}
