package web

import (
	"bytes"
	"encoding/json"
	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzip"
	"github.com/paulmach/orb"
	"io"
	"net/http"
	"net/http/httptest"
	"nlr/batch"
	"nlr/feature"
	"nlr/index"
	"nlr/query"
	"nlr/util"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testRouter(t *testing.T, staticDir string) *mux.Router {
	spatialIndex, err := index.Build(feature.NewStore([]feature.Feature{
		{
			Attributes: feature.Attributes{Road: "H001", Carriageway: feature.Left, StartSlk: 0, EndSlk: 2},
			Geometry:   orb.LineString{{0, 0}, {1, 0}, {1, 1}},
		},
		{
			Attributes: feature.Attributes{Road: "H016", Carriageway: feature.Single, StartSlk: 0, EndSlk: 1},
			Geometry:   orb.LineString{{5, 5}, {6, 5}},
		},
	}))
	util.AssertNil(t, err)

	return initRouter(index.NewHolder(spatialIndex), Options{StaticDir: staticDir, BatchLimit: 2})
}

func serve(router http.Handler, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestApi_lineQuery(t *testing.T) {
	// Arrange
	router := testRouter(t, t.TempDir())

	// Act
	response := serve(router, httptest.NewRequest(http.MethodGet, "/?road=H001&slk_from=0&slk_to=1&f=json", nil))

	// Assert
	util.AssertEqual(t, http.StatusOK, response.Code)
	util.AssertEqual(t, "application/json", response.Header().Get("Content-Type"))
	util.AssertEqual(t, "*", response.Header().Get("Access-Control-Allow-Origin"))
	util.AssertEqual(t, "[[[0,0],[1,0]]]", response.Body.String())
}

func TestApi_lineQueryAsWkt(t *testing.T) {
	// Arrange
	router := testRouter(t, t.TempDir())

	// Act
	response := serve(router, httptest.NewRequest(http.MethodGet, "/line?road=H016&f=wkt", nil))

	// Assert
	util.AssertEqual(t, http.StatusOK, response.Code)
	util.AssertTrue(t, strings.HasPrefix(response.Header().Get("Content-Type"), "text/plain"))
	util.AssertMatch(t, `^MULTILINESTRING\s*\(\(5 5,\s*6 5\)\)$`, response.Body.String())
}

func TestApi_pointQuery(t *testing.T) {
	// Arrange
	router := testRouter(t, t.TempDir())

	// Act
	legacy := serve(router, httptest.NewRequest(http.MethodGet, "/?road=H016&slk=0.5&f=latlon", nil))
	explicit := serve(router, httptest.NewRequest(http.MethodPost, "/point", strings.NewReader(`{"road":"H016","slk":0.5,"f":"latlon"}`)))

	// Assert
	util.AssertEqual(t, http.StatusOK, legacy.Code)
	util.AssertEqual(t, "5,5.5", legacy.Body.String())
	util.AssertEqual(t, http.StatusOK, explicit.Code)
	util.AssertEqual(t, "5,5.5", explicit.Body.String())
}

func TestApi_unknownRoadIsNotFound(t *testing.T) {
	// Arrange
	router := testRouter(t, t.TempDir())

	// Act
	response := serve(router, httptest.NewRequest(http.MethodGet, "/?road=H999", nil))

	// Assert
	util.AssertEqual(t, http.StatusNotFound, response.Code)

	var errorResponse map[string]any
	util.AssertNil(t, json.Unmarshal(response.Body.Bytes(), &errorResponse))
	util.AssertTrue(t, strings.Contains(errorResponse["error"].(string), "H999"))
}

func TestApi_noMatchingPointIsNotFound(t *testing.T) {
	// Arrange
	router := testRouter(t, t.TempDir())

	// Act
	response := serve(router, httptest.NewRequest(http.MethodGet, "/point?road=H016&slk=5", nil))

	// Assert
	util.AssertEqual(t, http.StatusNotFound, response.Code)
}

func TestApi_invalidParametersAreBadRequests(t *testing.T) {
	// Arrange
	router := testRouter(t, t.TempDir())
	urls := []string{
		"/?road=H001&slk_from=abc",
		"/?road=H001&unknown=1",
		"/?road=H001&cwy=X",
		"/?road=H001&f=latlon",
		"/?road=H001&f=shapefile",
		"/?road=",
		"/line?road=H001&slk=1",
	}

	for _, u := range urls {
		// Act
		response := serve(router, httptest.NewRequest(http.MethodGet, u, nil))

		// Assert
		if response.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for %s but got %d", u, response.Code)
		}
	}
}

func TestApi_echoesRequestId(t *testing.T) {
	// Arrange
	router := testRouter(t, t.TempDir())

	successRequest := httptest.NewRequest(http.MethodGet, "/?road=H016", nil)
	successRequest.Header.Set(requestIdHeader, "18446744073709551615")
	errorRequest := httptest.NewRequest(http.MethodGet, "/?road=H999", nil)
	errorRequest.Header.Set(requestIdHeader, "42")
	invalidRequest := httptest.NewRequest(http.MethodGet, "/?road=H016", nil)
	invalidRequest.Header.Set(requestIdHeader, "abc")

	// Act
	successResponse := serve(router, successRequest)
	errorResponse := serve(router, errorRequest)
	invalidResponse := serve(router, invalidRequest)

	// Assert
	util.AssertEqual(t, "18446744073709551615", successResponse.Header().Get(requestIdHeader))
	util.AssertEqual(t, "42", errorResponse.Header().Get(requestIdHeader))
	util.AssertEqual(t, http.StatusNotFound, errorResponse.Code)
	util.AssertEmptyString(t, invalidResponse.Header().Get(requestIdHeader))
}

func TestApi_binaryBatch(t *testing.T) {
	// Arrange
	router := testRouter(t, t.TempDir())
	body, err := batch.Encode([]*query.LineQuery{
		{Road: "H016", SlkFrom: 0, SlkTo: 1, Carriageways: feature.CwyLRS},
		{Road: "H999", SlkFrom: 0, SlkTo: 1, Carriageways: feature.CwyLRS},
	})
	util.AssertNil(t, err)

	// Act
	response := serve(router, httptest.NewRequest(http.MethodPost, "/batch", bytes.NewReader(body)))

	// Assert
	util.AssertEqual(t, http.StatusOK, response.Code)
	util.AssertEmptyString(t, response.Header().Get("Content-Encoding"))
	util.AssertEqual(t, "[[[[5,5],[6,5]]],null]", response.Body.String())
}

func TestApi_binaryBatchGzip(t *testing.T) {
	// Arrange
	router := testRouter(t, t.TempDir())
	body, err := batch.Encode([]*query.LineQuery{{Road: "H016", SlkFrom: 0, SlkTo: 1, Carriageways: feature.CwyS}})
	util.AssertNil(t, err)

	request := httptest.NewRequest(http.MethodPost, "/batch", bytes.NewReader(body))
	request.Header.Set("Accept-Encoding", "gzip, deflate")

	// Act
	response := serve(router, request)

	// Assert
	util.AssertEqual(t, http.StatusOK, response.Code)
	util.AssertEqual(t, "gzip", response.Header().Get("Content-Encoding"))

	reader, err := gzip.NewReader(response.Body)
	util.AssertNil(t, err)
	data, err := io.ReadAll(reader)
	util.AssertNil(t, err)
	util.AssertEqual(t, "[[[[5,5],[6,5]]]]", string(data))
}

func TestApi_truncatedBatchIsBadRequest(t *testing.T) {
	// Arrange
	router := testRouter(t, t.TempDir())

	// Act
	response := serve(router, httptest.NewRequest(http.MethodPost, "/batch", bytes.NewReader([]byte{4, 'H', '0'})))

	// Assert
	util.AssertEqual(t, http.StatusBadRequest, response.Code)
}

func TestApi_unifiedBatch(t *testing.T) {
	// Arrange
	router := testRouter(t, t.TempDir())
	body := `[{"road":"H016","slk":0.5,"f":"latlon"},{"road":"H001","slk_from":0,"slk_to":1,"f":"json"},{"road":"H001","f":"nope"}]`

	// Act
	response := serve(router, httptest.NewRequest(http.MethodPost, "/batch2", strings.NewReader(body)))
	notAnArray := serve(router, httptest.NewRequest(http.MethodPost, "/batch2", strings.NewReader(`{}`)))

	// Assert
	util.AssertEqual(t, http.StatusOK, response.Code)
	util.AssertEqual(t, `["5,5.5",[[[0,0],[1,0]]],null]`, response.Body.String())
	util.AssertEqual(t, http.StatusBadRequest, notAnArray.Code)
}

func TestApi_staticFiles(t *testing.T) {
	// Arrange
	staticDir := t.TempDir()
	err := os.WriteFile(filepath.Join(staticDir, "hello.txt"), []byte("hello road"), 0644)
	util.AssertNil(t, err)
	router := testRouter(t, staticDir)

	// Act
	response := serve(router, httptest.NewRequest(http.MethodGet, "/show/hello.txt", nil))

	// Assert
	util.AssertEqual(t, http.StatusOK, response.Code)
	util.AssertEqual(t, "hello road", response.Body.String())
}

func TestApi_metrics(t *testing.T) {
	// Arrange
	router := testRouter(t, t.TempDir())
	serve(router, httptest.NewRequest(http.MethodGet, "/line?road=H016", nil))

	// Act
	response := serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// Assert
	util.AssertEqual(t, http.StatusOK, response.Code)
	util.AssertTrue(t, strings.Contains(response.Body.String(), `nlr_requests_total{route="/line",status="200"}`))
	util.AssertTrue(t, strings.Contains(response.Body.String(), "nlr_dataset_features"))
}
