// Package chi exposes the list query and timeline services over HTTP.
package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	gochi "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/listquery/internal/domain/activity"
	"github.com/kailas-cloud/listquery/internal/domain/dataset"
	"github.com/kailas-cloud/listquery/internal/logger"
	"github.com/kailas-cloud/listquery/internal/usecase/health"
	"github.com/kailas-cloud/listquery/internal/usecase/listquery"
	"github.com/kailas-cloud/listquery/internal/usecase/timeline"
	"github.com/kailas-cloud/listquery/internal/validator"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// DefaultHeartbeat is the keep-alive interval of event streams.
const DefaultHeartbeat = 15 * time.Second

// Server holds the HTTP handlers.
type Server struct {
	queries       *listquery.Service
	timelines     *timeline.Service
	health        *health.Service
	limits        PageLimits
	streamBuffer  int
	heartbeat     time.Duration
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// Option tunes a Server.
type Option func(*Server)

// WithPageLimits sets the default and maximum page sizes.
func WithPageLimits(defaultSize, maxSize int) Option {
	return func(s *Server) { s.limits = PageLimits{Default: defaultSize, Max: maxSize} }
}

// WithStreamBuffer sets the bus buffer of each event stream.
func WithStreamBuffer(n int) Option {
	return func(s *Server) { s.streamBuffer = n }
}

// WithHeartbeat sets the keep-alive interval of event streams.
// Non-positive durations are ignored.
func WithHeartbeat(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.heartbeat = d
		}
	}
}

// NewServer creates an HTTP API server.
func NewServer(
	queries *listquery.Service,
	timelines *timeline.Service,
	health *health.Service,
	logger *zap.Logger,
	opts ...Option,
) *Server {
	s := &Server{
		queries:       queries,
		timelines:     timelines,
		health:        health,
		limits:        PageLimits{Default: 10, Max: 100},
		streamBuffer:  timeline.DefaultBuffer,
		heartbeat:     DefaultHeartbeat,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register mounts every route on r.
func (s *Server) Register(r gochi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r gochi.Router) {
		r.Get("/datasets", s.ListDatasets)
		r.Get("/datasets/{dataset}", s.GetDataset)
		r.Post("/datasets/{dataset}/query", s.QueryDataset)
		r.Get("/datasets/{dataset}/records", s.ListRecords)
		r.Get("/customers/{customer}/timeline", s.QueryTimeline)
		r.Post("/customers/{customer}/timeline", s.AppendActivity)
		r.Get("/customers/{customer}/timeline/stream", s.StreamTimeline)
		r.Get("/events/datasets", s.StreamDatasetChanges)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})
}

// ListDatasets handles GET /datasets.
func (s *Server) ListDatasets(w http.ResponseWriter, r *http.Request) {
	infos := s.queries.Datasets(r.Context())
	items := make([]DatasetResponse, len(infos))
	for i, info := range infos {
		items[i] = datasetToResponse(info)
	}
	writeJSON(w, http.StatusOK, DatasetListResponse{Items: items})
}

// GetDataset handles GET /datasets/{dataset}.
func (s *Server) GetDataset(w http.ResponseWriter, r *http.Request) {
	name, ok := s.pathParam(w, r, "dataset")
	if !ok {
		return
	}
	info, err := s.queries.Dataset(r.Context(), name)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, datasetToResponse(info))
}

// QueryDataset handles POST /datasets/{dataset}/query.
func (s *Server) QueryDataset(w http.ResponseWriter, r *http.Request) {
	name, ok := s.pathParam(w, r, "dataset")
	if !ok {
		return
	}
	var req QueryRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	s.runDatasetQuery(w, r, name, req)
}

// ListRecords handles GET /datasets/{dataset}/records.
func (s *Server) ListRecords(w http.ResponseWriter, r *http.Request) {
	name, ok := s.pathParam(w, r, "dataset")
	if !ok {
		return
	}
	req, ok := s.bindQueryString(w, r)
	if !ok {
		return
	}
	s.runDatasetQuery(w, r, name, req)
}

func (s *Server) runDatasetQuery(w http.ResponseWriter, r *http.Request, name string, req QueryRequest) {
	if err := validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}
	d, err := req.Descriptor(s.limits)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	res, err := s.queries.Query(r.Context(), listquery.Request{
		Dataset:    name,
		Descriptor: d,
		Selection:  req.SelectionSet(),
		SelectAll:  listquery.SelectScope(req.SelectAll),
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, queryResponse(res, rowRecord))
}

// QueryTimeline handles GET /customers/{customer}/timeline.
func (s *Server) QueryTimeline(w http.ResponseWriter, r *http.Request) {
	customer, ok := s.pathParam(w, r, "customer")
	if !ok {
		return
	}
	req, ok := s.bindQueryString(w, r)
	if !ok {
		return
	}
	if err := validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}
	d, err := req.Descriptor(s.limits)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	res, err := s.timelines.Query(r.Context(), customer, d, req.SelectionSet())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	resp := queryResponse(res, eventToResponse)
	if scope := listquery.SelectScope(req.SelectAll); scope != listquery.SelectNone {
		resp.Selection = selectionIDs(listquery.ApplySelectAll(res, scope, timeline.Event.ID))
	}
	writeJSON(w, http.StatusOK, resp)
}

// AppendActivity handles POST /customers/{customer}/timeline.
func (s *Server) AppendActivity(w http.ResponseWriter, r *http.Request) {
	customer, ok := s.pathParam(w, r, "customer")
	if !ok {
		return
	}
	var req AppendActivityRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	a, err := activity.Decode(activity.Kind(req.Kind), req.Data)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	var at time.Time
	if req.At != nil {
		at = req.At.UTC()
	}
	ev, err := s.timelines.Append(r.Context(), customer, a, at)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, eventToResponse(ev))
}

// StreamTimeline handles GET /customers/{customer}/timeline/stream.
func (s *Server) StreamTimeline(w http.ResponseWriter, r *http.Request) {
	customer, ok := s.pathParam(w, r, "customer")
	if !ok {
		return
	}
	sub, err := s.timelines.Follow(r.Context(), customer, s.streamBuffer)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.stream(w, r, sub, func(m timeline.Message) (string, any) {
		ev, ok := m.Payload.(timeline.Event)
		if !ok {
			return "", nil
		}
		return "activity", eventToResponse(ev)
	})
}

// StreamDatasetChanges handles GET /events/datasets.
func (s *Server) StreamDatasetChanges(w http.ResponseWriter, r *http.Request) {
	sub, err := s.timelines.Bus().Subscribe(timeline.TopicDatasetChanged, s.streamBuffer)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.stream(w, r, sub, func(m timeline.Message) (string, any) {
		c, ok := m.Payload.(dataset.Change)
		if !ok {
			return "", nil
		}
		return "dataset.changed", c
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != health.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// pathParam binds a simple-style path parameter.
func (s *Server) pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var v string
	err := runtime.BindStyledParameterWithLocation(
		"simple", false, name, runtime.ParamLocationPath, gochi.URLParam(r, name), &v,
	)
	if err != nil || v == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("Invalid format for parameter %s", name))
		return "", false
	}
	return v, true
}

func (s *Server) bindQueryString(w http.ResponseWriter, r *http.Request) (QueryRequest, bool) {
	params, err := BindRecordsParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return QueryRequest{}, false
	}
	req, err := params.QueryRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return QueryRequest{}, false
	}
	return req, true
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
