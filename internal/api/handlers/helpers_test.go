package handlers_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/notify"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/utils/response"
	"github.com/stretchr/testify/require"
)

func newFeed() *notify.Feed {
	return notify.NewFeed(10, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// decodePage unpacks the APIResponse envelope and re-decodes its data into
// page, when page is non-nil.
func decodePage(t *testing.T, recorder *httptest.ResponseRecorder, page any) *response.APIResponse {
	t.Helper()

	var raw struct {
		response.APIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &raw))

	if page != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, page))
	}

	resp := raw.APIResponse

	return &resp
}
