package tracehttp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusRecorderDefaults(t *testing.T) {
	assert := assert.New(t)

	sr := NewStatusRecorder(httptest.NewRecorder())
	assert.Equal(http.StatusOK, sr.Status())
	assert.Zero(sr.BytesWritten())
}

func TestStatusRecorderExplicitStatus(t *testing.T) {
	assert := assert.New(t)

	response := httptest.NewRecorder()
	sr := NewStatusRecorder(response)

	sr.WriteHeader(http.StatusNotFound)
	sr.Write([]byte("missing"))

	assert.Equal(http.StatusNotFound, sr.Status())
	assert.Equal(int64(7), sr.BytesWritten())
	assert.Equal(http.StatusNotFound, response.Code)
	assert.Equal("missing", response.Body.String())
}

func TestStatusRecorderImplicitStatus(t *testing.T) {
	assert := assert.New(t)

	sr := NewStatusRecorder(httptest.NewRecorder())
	sr.Write([]byte("hello"))

	assert.Equal(http.StatusOK, sr.Status())
	assert.Equal(int64(5), sr.BytesWritten())
}

func TestStatusRecorderFirstStatusWins(t *testing.T) {
	assert := assert.New(t)

	sr := NewStatusRecorder(httptest.NewRecorder())
	sr.WriteHeader(http.StatusAccepted)
	sr.WriteHeader(http.StatusInternalServerError)

	assert.Equal(http.StatusAccepted, sr.Status())
}
