package web

import (
	"encoding/json"
	"fmt"
	"github.com/gorilla/mux"
	"github.com/hauke96/sigolo/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"io"
	"net/http"
	"nlr/batch"
	"nlr/index"
	ownIo "nlr/io"
	"nlr/query"
	"strconv"
	"strings"
)

const (
	requestIdHeader         = "x-request-id"
	maxLengthOfPrintedQuery = 10000
	maxBodyBytes            = 32 << 20
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details error  `json:"details"`
}

func NewErrorResponse(message string, err error) ErrorResponse {
	return ErrorResponse{
		Error:   message,
		Details: err,
	}
}

type Options struct {
	StaticDir  string // Directory served below /show/
	BatchLimit int    // Maximum number of batch entries evaluated concurrently, no limit for values <= 0
}

func StartServer(addr string, holder *index.Holder, options Options) {
	r := initRouter(holder, options)
	sigolo.Infof("Start server without TLS support on %s", addr)
	err := http.ListenAndServe(addr, r)
	sigolo.FatalCheck(err)
}

func StartServerTls(addr string, certFile string, keyFile string, holder *index.Holder, options Options) {
	r := initRouter(holder, options)
	sigolo.Infof("Start server with TLS support on %s", addr)
	err := http.ListenAndServeTLS(addr, certFile, keyFile, r)
	sigolo.FatalCheck(err)
}

type api struct {
	holder  *index.Holder
	options Options
}

func initRouter(holder *index.Holder, options Options) *mux.Router {
	a := &api{holder: holder, options: options}

	r := mux.NewRouter()
	r.Use(requestIdMiddleware, metricsMiddleware)

	r.HandleFunc("/", a.handleQuery).Methods(http.MethodGet)
	r.HandleFunc("/line", a.handleLine).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/point", a.handlePoint).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/batch", a.handleBatch).Methods(http.MethodPost)
	r.HandleFunc("/batch2", a.handleUnifiedBatch).Methods(http.MethodPost)
	r.Handle("/metrics", MetricsHandler()).Methods(http.MethodGet)
	r.PathPrefix("/show/").Handler(http.StripPrefix("/show/", http.FileServer(http.Dir(options.StaticDir)))).Methods(http.MethodGet)

	return r
}

// requestIdMiddleware echoes the request ID header on every response, as long as it is an unsigned 64-bit integer.
func requestIdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requestId, err := strconv.ParseUint(request.Header.Get(requestIdHeader), 10, 64)
		if err == nil {
			writer.Header().Set(requestIdHeader, strconv.FormatUint(requestId, 10))
		}

		writer.Header().Set("Access-Control-Allow-Origin", "*")

		next.ServeHTTP(writer, request)
	})
}

// handleQuery answers the legacy endpoint, which is a point query when "slk" is given and a line query otherwise.
func (a *api) handleQuery(writer http.ResponseWriter, request *http.Request) {
	logRequest(request, request.URL.RawQuery)

	parameters, err := query.ParametersFromValues(request.URL.Query())
	if err != nil {
		writeError(writer, "Error reading query parameters", err)
		return
	}

	if parameters.IsPoint() {
		a.answerPoint(writer, parameters)
	} else {
		a.answerLine(writer, parameters)
	}
}

func (a *api) handleLine(writer http.ResponseWriter, request *http.Request) {
	parameters, err := readParameters(request)
	if err != nil {
		writeError(writer, "Error reading query parameters", err)
		return
	}

	a.answerLine(writer, parameters)
}

func (a *api) handlePoint(writer http.ResponseWriter, request *http.Request) {
	parameters, err := readParameters(request)
	if err != nil {
		writeError(writer, "Error reading query parameters", err)
		return
	}

	a.answerPoint(writer, parameters)
}

func (a *api) answerLine(writer http.ResponseWriter, parameters *query.Parameters) {
	lineQuery, err := parameters.LineQuery()
	if err != nil {
		writeError(writer, "Error reading line query", err)
		return
	}
	lineQuery.Print()

	results, err := query.NewExecutor(a.holder.Load()).Lines(lineQuery)
	if err != nil {
		writeError(writer, "Error executing line query", err)
		return
	}

	data, err := ownIo.FormatLines(results, lineQuery.Format, lineQuery.Measure)
	if err != nil {
		writeError(writer, "Error writing query result", err)
		return
	}

	writeResult(writer, data, lineQuery.Format)
}

func (a *api) answerPoint(writer http.ResponseWriter, parameters *query.Parameters) {
	pointQuery, err := parameters.PointQuery()
	if err != nil {
		writeError(writer, "Error reading point query", err)
		return
	}
	pointQuery.Print()

	results, err := query.NewExecutor(a.holder.Load()).Points(pointQuery)
	if err != nil {
		writeError(writer, "Error executing point query", err)
		return
	}

	data, err := ownIo.FormatPoints(results, pointQuery.Format)
	if err != nil {
		writeError(writer, "Error writing query result", err)
		return
	}

	writeResult(writer, data, pointQuery.Format)
}

func (a *api) handleBatch(writer http.ResponseWriter, request *http.Request) {
	body, err := readBody(writer, request)
	if err != nil {
		writeError(writer, "Error reading HTTP body", err)
		return
	}
	sigolo.Debugf("Request %s %s with %d bytes", request.Method, request.URL.Path, len(body))

	lineQueries, err := batch.Decode(body)
	if err != nil {
		writeError(writer, "Unable to parse batch query parameters", err)
		return
	}
	BatchEntries.WithLabelValues("/batch").Observe(float64(len(lineQueries)))

	data, err := batch.Evaluate(request.Context(), query.NewExecutor(a.holder.Load()), batch.LineEntries(lineQueries), a.options.BatchLimit)
	if err != nil {
		writeError(writer, "Error executing batch", err)
		return
	}

	writeCompressed(writer, request, data)
}

func (a *api) handleUnifiedBatch(writer http.ResponseWriter, request *http.Request) {
	body, err := readBody(writer, request)
	if err != nil {
		writeError(writer, "Error reading HTTP body", err)
		return
	}
	logRequest(request, string(body))

	entries, err := batch.DecodeUnified(body)
	if err != nil {
		writeError(writer, "Unable to parse batch query parameters", err)
		return
	}
	BatchEntries.WithLabelValues("/batch2").Observe(float64(len(entries)))

	data, err := batch.Evaluate(request.Context(), query.NewExecutor(a.holder.Load()), entries, a.options.BatchLimit)
	if err != nil {
		writeError(writer, "Error executing batch", err)
		return
	}

	writeCompressed(writer, request, data)
}

// readParameters reads the query string of GET requests and the JSON body of POST requests.
func readParameters(request *http.Request) (*query.Parameters, error) {
	if request.Method != http.MethodPost {
		logRequest(request, request.URL.RawQuery)
		return query.ParametersFromValues(request.URL.Query())
	}

	body, err := io.ReadAll(io.LimitReader(request.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "Unable to read HTTP body")
	}
	logRequest(request, string(body))

	return query.ParametersFromJson(body)
}

func readBody(writer http.ResponseWriter, request *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(writer, request.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "Unable to read HTTP body")
	}
	return body, nil
}

func logRequest(request *http.Request, queryString string) {
	trimmedQueryString := queryString
	queryRunes := []rune(queryString)
	if len(queryRunes) > maxLengthOfPrintedQuery {
		trimmedQueryString = string(queryRunes[:maxLengthOfPrintedQuery]) + "... [truncated]"
	}
	sigolo.Debugf("Request %s %s: %s", request.Method, request.URL.Path, trimmedQueryString)
}

func contentType(format query.Format) string {
	switch format {
	case query.FormatGeoJson, query.FormatJson:
		return "application/json"
	case query.FormatWkt, query.FormatLatLon, query.FormatLatLonDir:
		return "text/plain; charset=utf-8"
	}
	return "application/octet-stream"
}

func writeResult(writer http.ResponseWriter, data []byte, format query.Format) {
	writer.Header().Set("Content-Type", contentType(format))

	_, err := writer.Write(data)
	if err != nil {
		sigolo.Errorf("Error writing query result: %+v", err)
	}
}

// writeCompressed writes the JSON data gzip compressed if the client accepts it.
func writeCompressed(writer http.ResponseWriter, request *http.Request, data []byte) {
	writer.Header().Set("Content-Type", "application/json")
	writer.Header().Add("Vary", "Accept-Encoding")

	if !strings.Contains(request.Header.Get("Accept-Encoding"), "gzip") {
		_, err := writer.Write(data)
		if err != nil {
			sigolo.Errorf("Error writing batch result: %+v", err)
		}
		return
	}

	writer.Header().Set("Content-Encoding", "gzip")

	gzipWriter := gzip.NewWriter(writer)
	_, err := gzipWriter.Write(data)
	if err != nil {
		sigolo.Errorf("Error writing compressed batch result: %+v", err)
	}

	err = gzipWriter.Close()
	if err != nil {
		sigolo.Errorf("Error finishing compressed batch result: %+v", err)
	}
}

// statusForError distinguishes rejected queries from failures of the server.
func statusForError(err error) int {
	var parameterError *query.ParameterError
	var unsupportedFormatError *query.UnsupportedFormatError
	var malformedRoadIdError *index.MalformedRoadIdError
	var decodeError *batch.DecodeError
	var roadLookupError *index.RoadLookupError

	switch {
	case errors.As(err, &parameterError),
		errors.As(err, &unsupportedFormatError),
		errors.As(err, &malformedRoadIdError),
		errors.As(err, &decodeError):
		return http.StatusBadRequest
	case errors.As(err, &roadLookupError),
		errors.Is(err, query.ErrNoMatchingPoints):
		return http.StatusNotFound
	}

	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		return http.StatusRequestEntityTooLarge
	}

	return http.StatusInternalServerError
}

func writeError(writer http.ResponseWriter, message string, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		sigolo.Errorf("%s: %+v", message, err)
	} else {
		sigolo.Debugf("%s: %s", message, err.Error())
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	errorResponseBytes, err := json.Marshal(NewErrorResponse(fmt.Sprintf("%s: %s", message, err.Error()), err))
	if err != nil {
		sigolo.Errorf("Error creating and marshalling error response object: %+v", err)
	}

	_, err = writer.Write(errorResponseBytes)
	if err != nil {
		sigolo.Errorf("Error writing error response: %+v", err)
	}
}
