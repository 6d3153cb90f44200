package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatGridHandler_Preview(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/v1/seat-grid/preview?rows=3&columns=4&base_price=750", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, float64(12), body["total_seats"])
	seats := body["seats"].([]interface{})
	require.Len(t, seats, 12)
	assert.Equal(t, float64(750), seats[0].(map[string]interface{})["price"])

	w = srv.do(t, http.MethodGet, "/api/v1/seat-grid/preview", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decodeBody(t, w)["total_seats"])

	invalid := []string{
		"/api/v1/seat-grid/preview?rows=x",
		"/api/v1/seat-grid/preview?rows=2&columns=2&base_price=-1",
		"/api/v1/seat-grid/preview?rows=30&columns=2",
		"/api/v1/seat-grid/preview?rows=2&columns=12",
	}
	for _, path := range invalid {
		assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodGet, path, "").Code, path)
	}
}

func TestSeatGridHandler_DecodeLabel(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/v1/seat-labels/b3", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "B3", body["label"])
	assert.Equal(t, float64(2), body["row"])
	assert.Equal(t, float64(3), body["column"])
	assert.Equal(t, float64(23), body["seat_number"])

	for _, label := range []string{"3B", "B", "B-1", "B0"} {
		assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodGet, "/api/v1/seat-labels/"+label, "").Code, label)
	}
}
