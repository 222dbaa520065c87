package eventsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/dailyreport/internal/domain/dailyreport"
)

func testWindow() dailyreport.Window {
	return dailyreport.Window{
		Start: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestFetchSendsWindowAndKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-123", r.Header.Get("ApiKey"))
		assert.Equal(t, "2024-05-01 00:00", r.URL.Query().Get("startDate"))
		assert.Equal(t, "2024-05-02 00:00", r.URL.Query().Get("endDate"))
		assert.Equal(t, "x", r.URL.Query().Get("site"))
		_, _ = w.Write([]byte(`[{"Site":"Malmö","Time":"08:00"},{"Site":"Lund","Count":3}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/events?site=x", "key-123", time.Second)
	records, err := client.Fetch(context.Background(), testWindow())
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "Malmö", records[0]["Site"])
	require.Equal(t, float64(3), records[1]["Count"])
}

func TestFetchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "bad", time.Second).Fetch(context.Background(), testWindow())
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=401")
}

func TestFetchMissingConfiguration(t *testing.T) {
	_, err := NewClient("http://unused", "", time.Second).Fetch(context.Background(), testWindow())
	require.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewClient("", "key", time.Second).Fetch(context.Background(), testWindow())
	require.ErrorIs(t, err, ErrMissingURL)
}

func TestDecodeRecords(t *testing.T) {
	records, err := decodeRecords([]byte(" [] "))
	require.NoError(t, err)
	require.Empty(t, records)

	records, err = decodeRecords([]byte(`{"Site":"A"}`))
	require.NoError(t, err)
	require.Len(t, records, 1)

	records, err = decodeRecords([]byte("null"))
	require.NoError(t, err)
	require.NotNil(t, records)

	_, err = decodeRecords([]byte(`"text"`))
	require.Error(t, err)
}
