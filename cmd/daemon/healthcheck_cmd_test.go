// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthcheck(t *testing.T) {
	var ready atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/healthz":
			w.WriteHeader(http.StatusOK)
		case "/readyz":
			if ready.Load() {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, healthcheck([]string{"-mode", "live", "-addr", srv.URL}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "successful (live)")

	stderr.Reset()
	assert.Equal(t, 1, healthcheck([]string{"-addr", srv.URL + "/"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "503")

	ready.Store(true)
	assert.Equal(t, 0, healthcheck([]string{"-addr", srv.URL}, &stdout, &stderr))

	assert.Equal(t, 2, healthcheck([]string{"-bogus"}, &stdout, &stderr))
}

func TestHealthcheck_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, healthcheck([]string{"-addr", url}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "network")
}
