package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorable(t *testing.T) {
	assert.True(t, storable(http.StatusOK, 100, 0), "no limit caches any size")
	assert.True(t, storable(http.StatusOK, 100, 100))
	assert.False(t, storable(http.StatusOK, 101, 100), "overflowed capture must not be cached")
	assert.False(t, storable(http.StatusNotFound, 10, 100))
	assert.False(t, storable(http.StatusInternalServerError, 10, 0))
}

func TestCaptureWriterTracksOverflow(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 8}

	n, err := cw.Write([]byte("0123456789"))
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	// The client saw the full body; the capture records the true size so
	// the store path can tell the buffer is incomplete.
	assert.Equal(t, "0123456789", rec.Body.String())
	assert.Equal(t, int64(10), cw.size)
	assert.LessOrEqual(t, int64(cw.buf.Len()), cw.limit)
	assert.False(t, storable(cw.status, cw.size, cw.limit))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	payload, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, string(body))
}
