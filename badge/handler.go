package badge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"acrate-badge/badge/domain"
	"acrate-badge/metrics"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	paramHandle   = "user_id"
	paramCategory = "contest_type"

	cacheControl = "max-age=0, s-maxage=86400"
)

// BadgeService é o caso de uso consumido pelo handler.
type BadgeService interface {
	Badge(ctx context.Context, h domain.Handle, c domain.Category) (domain.Payload, error)
}

type Handler struct {
	Service BadgeService
	Metrics *metrics.Metrics
	Logger  log.FieldLogger
}

// ServeRating atende GET /api/ac-rate?user_id=...&contest_type=...
func (h Handler) ServeRating(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rawHandle, _ := lastValue(q, paramHandle)
	handle, err := domain.ParseHandle(rawHandle)
	if err != nil {
		h.Metrics.ObserveBadge("", metrics.OutcomeInvalidParams)
		writeText(w, http.StatusNotFound, "'user_id' param not found or invalid value")
		return
	}
	rawCategory, present := lastValue(q, paramCategory)
	category, err := domain.ParseCategoryOrDefault(rawCategory, present)
	if err != nil {
		h.Metrics.ObserveBadge("", metrics.OutcomeInvalidParams)
		writeText(w, http.StatusNotFound, "'contest_type' param is invalid")
		return
	}

	payload, err := h.Service.Badge(r.Context(), handle, category)
	if err != nil {
		h.writeError(w, err)
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		h.logger().WithError(err).Error("encode badge payload")
		writeText(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", cacheControl)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// lastValue devolve a última ocorrência do parâmetro: ?contest_type=a&contest_type=b
// vale como b.
func lastValue(q url.Values, key string) (string, bool) {
	vs, ok := q[key]
	if !ok || len(vs) == 0 {
		return "", ok
	}
	return vs[len(vs)-1], true
}

// StatusOf traduz os erros do caso de uso em status HTTP.
func StatusOf(err error) int {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRejected):
		return http.StatusTooManyRequests
	default:
		// FetchError, ExtractionError e LimiterError
		return http.StatusInternalServerError
	}
}

func (h Handler) writeError(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	switch status {
	case http.StatusTooManyRequests:
		writeText(w, status, domain.ErrRejected.Error())
	case http.StatusNotFound:
		writeText(w, status, err.Error())
	default:
		writeText(w, status, "failed get atcoder rate")
	}
}

func (h Handler) logger() log.FieldLogger {
	if h.Logger != nil {
		return h.Logger
	}
	return log.StandardLogger()
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

// NewRouter registra as rotas do serviço. middlewares envolvem só a rota do
// badge; /healthz fica fora do throttle.
func NewRouter(h Handler, middlewares ...mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusOK, "ok")
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/ac-rate", h.ServeRating).Methods(http.MethodGet)
	for _, mw := range middlewares {
		api.Use(mw)
	}
	return r
}
