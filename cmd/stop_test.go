package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestStop(t *testing.T) {
	tests := []struct {
		name   string
		code   int
		body   string
		expOut string
		expErr string
	}{
		{name: "Stopping", code: http.StatusOK, body: `{"status":"stopping"}`, expOut: "stopping\n"},
		{name: "Rejected", code: http.StatusInternalServerError, body: `{"error":"boom"}`, expErr: "stop rejected: 500 Internal Server Error boom"},
		{name: "NotJSON", code: http.StatusNotFound, body: "404 page not found", expErr: "failed to decode stop response (404 Not Found)"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				w.WriteHeader(test.code)
				_, _ = w.Write([]byte(test.body))
			}))
			defer srv.Close()

			var out bytes.Buffer
			err := requestStop(srv.URL+"/stop", &out)
			if test.expErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), test.expErr)
				assert.Empty(t, out.String())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.expOut, out.String())
		})
	}
}

func TestRequestStopNotRunning(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := requestStop(url+"/stop", &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "foldersync not running")
}
