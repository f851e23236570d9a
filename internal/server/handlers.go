package server

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vanshika/costar/internal/domain"
	"github.com/vanshika/costar/internal/graph"
	"github.com/vanshika/costar/internal/service"
)

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger     *slog.Logger
	service    *service.CostarService
	validate   *validator.Validate
	adminToken string
}

// NewAPIHandlers constructs an APIHandlers instance. When adminToken is non-empty the
// reload endpoint requires it as a bearer token.
func NewAPIHandlers(logger *slog.Logger, svc *service.CostarService, adminToken string) *APIHandlers {
	return &APIHandlers{
		logger:     logger,
		service:    svc,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		adminToken: adminToken,
	}
}

func (h *APIHandlers) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /stats", h.handleStats)
	mux.HandleFunc("GET /actors/lookup", h.handleLookupActor)
	mux.HandleFunc("GET /actors/{id}/costars/{other}", h.handleActedTogether)
	mux.HandleFunc("GET /actors/{id}/levels/{n}", h.handleLevel)
	mux.HandleFunc("GET /actors/{id}/histogram", h.handleHistogram)
	mux.HandleFunc("GET /actors/{id}/links", h.handleActorLinks)
	mux.HandleFunc("GET /actors/{id}/bacon", h.handleBacon)
	mux.HandleFunc("GET /bacon/levels/{n}", h.handleBaconLevel)
	mux.HandleFunc("GET /films/lookup", h.handleLookupFilm)
	mux.HandleFunc("GET /films/{id}/cast", h.handleFilmCast)
	mux.HandleFunc("GET /paths/actors", h.handleActorPath)
	mux.HandleFunc("GET /paths/actors/films", h.handleFilmPath)
	mux.HandleFunc("GET /paths/film", h.handlePathToFilm)
	mux.HandleFunc("GET /paths/films", h.handleConnectFilms)
	mux.HandleFunc("POST /admin/reload", h.handleReload)
}

type actorParams struct {
	Actor int64 `validate:"gt=0"`
}

type pairParams struct {
	Source int64 `validate:"gt=0"`
	Target int64 `validate:"gt=0"`
}

type levelParams struct {
	Actor    int64 `validate:"gt=0"`
	Distance int   `validate:"gte=0"`
}

type pathToFilmParams struct {
	Source int64 `validate:"gt=0"`
	Film   int64 `validate:"gt=0"`
}

type bridgeParams struct {
	Film1 int64 `validate:"gt=0"`
	Film2 int64 `validate:"gt=0"`
}

type lookupParams struct {
	Name string `validate:"required,max=256"`
}

func (h *APIHandlers) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (h *APIHandlers) handleActedTogether(w http.ResponseWriter, r *http.Request) {
	var p pairParams
	if !h.bind(w, &p, func() (err error) {
		if p.Source, err = parseID(r.PathValue("id"), "id"); err != nil {
			return err
		}
		p.Target, err = parseID(r.PathValue("other"), "other")
		return err
	}) {
		return
	}

	together, err := h.service.ActedTogether(r.Context(), domain.ActorID(p.Source), domain.ActorID(p.Target))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, actedTogetherResponse{
		Actor:         domain.ActorID(p.Source),
		Other:         domain.ActorID(p.Target),
		ActedTogether: together,
	})
}

func (h *APIHandlers) handleLevel(w http.ResponseWriter, r *http.Request) {
	var p levelParams
	if !h.bind(w, &p, func() (err error) {
		if p.Actor, err = parseID(r.PathValue("id"), "id"); err != nil {
			return err
		}
		p.Distance, err = parseDistance(r.PathValue("n"))
		return err
	}) {
		return
	}

	level, err := h.service.ActorsAtDistance(r.Context(), domain.ActorID(p.Actor), p.Distance)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, level)
}

func (h *APIHandlers) handleBaconLevel(w http.ResponseWriter, r *http.Request) {
	n, err := parseDistance(r.PathValue("n"))
	if err == nil {
		err = h.validate.Var(n, "gte=0")
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	level, err := h.service.BaconActors(r.Context(), n)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, level)
}

func (h *APIHandlers) handleHistogram(w http.ResponseWriter, r *http.Request) {
	var p actorParams
	if !h.bindActor(w, r, &p) {
		return
	}
	hist, err := h.service.DistanceHistogram(r.Context(), domain.ActorID(p.Actor))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, hist)
}

func (h *APIHandlers) handleActorLinks(w http.ResponseWriter, r *http.Request) {
	var p actorParams
	if !h.bindActor(w, r, &p) {
		return
	}
	rel, err := h.service.ActorRelationships(r.Context(), domain.ActorID(p.Actor))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rel)
}

func (h *APIHandlers) handleBacon(w http.ResponseWriter, r *http.Request) {
	var p actorParams
	if !h.bindActor(w, r, &p) {
		return
	}
	res, err := h.service.BaconNumber(r.Context(), domain.ActorID(p.Actor))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *APIHandlers) handleLookupActor(w http.ResponseWriter, r *http.Request) {
	p := lookupParams{Name: r.URL.Query().Get("name")}
	if !h.bind(w, &p, nil) {
		return
	}
	actor, err := h.service.LookupActor(p.Name)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, actor)
}

func (h *APIHandlers) handleLookupFilm(w http.ResponseWriter, r *http.Request) {
	p := lookupParams{Name: r.URL.Query().Get("title")}
	if !h.bind(w, &p, nil) {
		return
	}
	film, err := h.service.LookupFilm(p.Name)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, film)
}

func (h *APIHandlers) handleFilmCast(w http.ResponseWriter, r *http.Request) {
	var film int64
	err := func() (err error) {
		if film, err = parseID(r.PathValue("id"), "id"); err != nil {
			return err
		}
		return h.validate.Var(film, "gt=0")
	}()
	if err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	cast, err := h.service.FilmCast(r.Context(), domain.FilmID(film))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cast)
}

func (h *APIHandlers) handleActorPath(w http.ResponseWriter, r *http.Request) {
	var p pairParams
	if !h.bindPair(w, r, &p) {
		return
	}
	path, err := h.service.ActorPath(r.Context(), domain.ActorID(p.Source), domain.ActorID(p.Target))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, path)
}

func (h *APIHandlers) handleFilmPath(w http.ResponseWriter, r *http.Request) {
	var p pairParams
	if !h.bindPair(w, r, &p) {
		return
	}
	films, err := h.service.FilmPath(r.Context(), domain.ActorID(p.Source), domain.ActorID(p.Target))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, films)
}

func (h *APIHandlers) handlePathToFilm(w http.ResponseWriter, r *http.Request) {
	var p pathToFilmParams
	q := r.URL.Query()
	if !h.bind(w, &p, func() (err error) {
		if p.Source, err = parseID(q.Get("source"), "source"); err != nil {
			return err
		}
		p.Film, err = parseID(q.Get("film"), "film")
		return err
	}) {
		return
	}

	path, err := h.service.PathToFilm(r.Context(), domain.ActorID(p.Source), domain.FilmID(p.Film))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, path)
}

func (h *APIHandlers) handleConnectFilms(w http.ResponseWriter, r *http.Request) {
	var p bridgeParams
	q := r.URL.Query()
	if !h.bind(w, &p, func() (err error) {
		if p.Film1, err = parseID(q.Get("film1"), "film1"); err != nil {
			return err
		}
		p.Film2, err = parseID(q.Get("film2"), "film2")
		return err
	}) {
		return
	}

	bridge, err := h.service.ConnectFilms(r.Context(), domain.FilmID(p.Film1), domain.FilmID(p.Film2))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, bridge)
}

func (h *APIHandlers) handleReload(w http.ResponseWriter, r *http.Request) {
	if h.adminToken != "" {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(h.adminToken)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid admin token")
			return
		}
	}

	summary, err := h.service.Load(r.Context())
	if err != nil {
		h.logger.Error("graph reload failed", "error", err, "request_id", RequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "failed to reload graph")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

type actedTogetherResponse struct {
	Actor         domain.ActorID `json:"actor"`
	Other         domain.ActorID `json:"other"`
	ActedTogether bool           `json:"actedTogether"`
}

// bind runs parse (if any) and validates dst, writing a 400 on failure.
func (h *APIHandlers) bind(w http.ResponseWriter, dst any, parse func() error) bool {
	if parse != nil {
		if err := parse(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return false
		}
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func (h *APIHandlers) bindActor(w http.ResponseWriter, r *http.Request, p *actorParams) bool {
	return h.bind(w, p, func() (err error) {
		p.Actor, err = parseID(r.PathValue("id"), "id")
		return err
	})
}

func (h *APIHandlers) bindPair(w http.ResponseWriter, r *http.Request, p *pairParams) bool {
	q := r.URL.Query()
	return h.bind(w, p, func() (err error) {
		if p.Source, err = parseID(q.Get("source"), "source"); err != nil {
			return err
		}
		p.Target, err = parseID(q.Get("target"), "target")
		return err
	})
}

func (h *APIHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, graph.ErrUnknownActor),
		errors.Is(err, service.ErrUnknownFilm),
		errors.Is(err, service.ErrUnknownName):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, graph.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, graph.ErrInvalidPath):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrGraphNotLoaded):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error("request failed", "error", err, "path", r.URL.Path, "request_id", RequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func parseID(raw, field string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", field)
	}
	return v, nil
}

func parseDistance(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("distance must be an integer")
	}
	return n, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if field == "" {
			field = "value"
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(field), rule))
	}
	return strings.Join(msgs, "; ")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}
