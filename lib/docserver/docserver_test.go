package docserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"steamdoc/lib/scrapers/steamworks"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	sections []string
	points   map[string][]steamworks.Endpoint
	err      error
}

func (f fakeSource) Sections(ctx context.Context) ([]string, error) {
	return f.sections, f.err
}

func (f fakeSource) PointNames(ctx context.Context, section string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	var names []string
	for _, p := range f.points[section] {
		names = append(names, p.Name)
	}
	return names, nil
}

func (f fakeSource) Points(ctx context.Context, section string) ([]steamworks.Endpoint, error) {
	return f.points[section], f.err
}

func (f fakeSource) Point(ctx context.Context, section, name string) (steamworks.Endpoint, bool, error) {
	if f.err != nil {
		return steamworks.Endpoint{}, false, f.err
	}
	for _, p := range f.points[section] {
		if p.Name == name {
			return p, true, nil
		}
	}
	return steamworks.Endpoint{}, false, nil
}

func newsSource() fakeSource {
	var params steamworks.Params
	params.Set("appid", steamworks.ParamSpec{Type: "uint32", Required: true, Description: "AppID to retrieve news for"})
	params.Set("count", steamworks.ParamSpec{Type: "uint32", Description: "# of posts to retrieve (default 20)"})
	return fakeSource{
		sections: []string{"dota2", "tf2"},
		points: map[string][]steamworks.Endpoint{
			"ISteamNews": {{
				Method: "GET",
				Url:    "/ISteamNews/GetNewsForApp/v2/",
				Name:   "GetNews",
				Params: params,
			}},
		},
	}
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestGetSections(t *testing.T) {
	rec := get(t, NewServer(newsSource()), "/sections")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, []string{"dota2", "tf2"}, decode[[]string](t, rec))
}

func TestGetPointNames(t *testing.T) {
	rec := get(t, NewServer(newsSource()), "/sections/ISteamNews/point-names")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"GetNews"}, decode[[]string](t, rec))
}

func TestGetPoints(t *testing.T) {
	source := newsSource()
	rec := get(t, NewServer(source), "/sections/ISteamNews/points")
	require.Equal(t, http.StatusOK, rec.Code)

	points := decode[[]steamworks.Endpoint](t, rec)
	if diff := cmp.Diff(source.points["ISteamNews"], points); diff != "" {
		t.Fatalf("points mismatch (-want +got):\n%s", diff)
	}
}

func TestGetPoint(t *testing.T) {
	server := NewServer(newsSource())

	rec := get(t, server, "/sections/ISteamNews/points/GetNews")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{
		"method": "GET",
		"url": "/ISteamNews/GetNewsForApp/v2/",
		"name": "GetNews",
		"params": {
			"appid": {"type": "uint32", "required": true, "description": "AppID to retrieve news for"},
			"count": {"type": "uint32", "required": false, "description": "# of posts to retrieve (default 20)"}
		}
	}`, rec.Body.String())

	rec = get(t, server, "/sections/ISteamNews/points/GetNewz")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, decode[errorBody](t, rec).Error, "GetNewz")
}

func TestErrorStatuses(t *testing.T) {
	fetchFailed := NewServer(fakeSource{err: &steamworks.FetchError{Url: "https://example.com", Status: 500}})
	rec := get(t, fetchFailed, "/sections")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, "unable to access 'https://example.com'", decode[errorBody](t, rec).Error)

	badMarkup := NewServer(fakeSource{err: &steamworks.MarkupError{Heading: "GetNews", Expected: "parameter table"}})
	rec = get(t, badMarkup, "/sections/ISteamNews/points")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	other := NewServer(fakeSource{err: errors.New("boom")})
	rec = get(t, other, "/sections/ISteamNews/points/GetNews")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	NewServer(newsSource()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sections", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
