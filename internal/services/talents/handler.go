package talents

import (
	"log"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/louisbranch/talentcalc/internal/platform/errors"
	"github.com/louisbranch/talentcalc/internal/platform/httpx"
	"github.com/louisbranch/talentcalc/internal/platform/id"
	"github.com/louisbranch/talentcalc/internal/services/talents/storage"
	"github.com/louisbranch/talentcalc/internal/talent/catalog"
	"github.com/louisbranch/talentcalc/internal/talent/engine"
	"github.com/louisbranch/talentcalc/internal/talent/session"
)

const (
	tracerName   = "talentcalc/talents"
	buildsPrefix = "/api/builds"
)

var requestValidator = validator.New(validator.WithRequiredStructEnabled())

// ApplyRequest carries a share path and the ops to run against it.
type ApplyRequest struct {
	Path string       `json:"path" validate:"max=512"`
	Ops  []session.Op `json:"ops" validate:"max=256,dive"`
}

// SaveRequest carries the share path to save.
type SaveRequest struct {
	Path string `json:"path" validate:"required,max=512"`
}

// HandlerConfig wires the handler's collaborators.
type HandlerConfig struct {
	// Loader defaults to the embedded class catalog.
	Loader session.Loader
	// Store enables the saved-build endpoints when set.
	Store storage.SavedBuildStore
	// EngineOptions apply to every session.
	EngineOptions []engine.Option
	// Logger defaults to log.Default().
	Logger *log.Logger
}

type handler struct {
	loader session.Loader
	store  storage.SavedBuildStore
	opts   []engine.Option
	logger *log.Logger
	newID  func() (string, error)
}

// NewHandler builds the root HTTP handler with its middleware chain.
func NewHandler(cfg HandlerConfig) http.Handler {
	h := &handler{
		loader: cfg.Loader,
		store:  cfg.Store,
		opts:   cfg.EngineOptions,
		logger: cfg.Logger,
		newID:  id.NewID,
	}
	if h.loader == nil {
		h.loader = catalog.NewLoader(nil)
	}
	if h.logger == nil {
		h.logger = log.Default()
	}
	return httpx.Chain(h.routes(),
		httpx.RecoverPanic(),
		httpx.RequestID(),
		httpx.Trace(tracerName),
		httpx.RequestLogger(h.logger),
	)
}

func (h *handler) routes() *http.ServeMux {
	mux := http.NewServeMux()
	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, instrument(pattern, fn))
	}
	handle("GET /api/classes", h.listClasses)
	handle("GET /api/builds/{path...}", h.showBuild)
	handle("POST /api/builds/apply", h.applyBuild)
	handle("POST /api/saved", h.saveBuild)
	handle("GET /s/{id}", h.openSaved)
	handle("GET /healthz", h.healthz)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

func (h *handler) listClasses(w http.ResponseWriter, r *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string][]ClassView{
		"classes": classViews(httpx.Language(r)),
	})
}

func (h *handler) showBuild(w http.ResponseWriter, r *http.Request) {
	sess := h.session()
	state, err := sess.FromPath(httpx.RequestContext(r), "/"+r.PathValue("path"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	decodeDroppedTotal.Add(float64(state.Dropped))
	_ = httpx.WriteJSON(w, http.StatusOK, buildView(state, sess.Valid(), httpx.Language(r)))
}

func (h *handler) applyBuild(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := decodeValid(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	ctx := httpx.RequestContext(r)
	sess := h.session()
	if _, err := sess.FromPath(ctx, req.Path); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	results, err := sess.Apply(ctx, req.Ops)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	for _, res := range results {
		recordOp(res.Op.Op, res.Accepted)
	}
	_ = httpx.WriteJSON(w, http.StatusOK, ApplyResponse{
		Build:   buildView(sess.State(), sess.Valid(), httpx.Language(r)),
		Results: results,
	})
}

func (h *handler) saveBuild(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		httpx.WriteError(w, r, apperrors.WithMetadata(apperrors.CodeNotFound, "saved builds are disabled", map[string]string{"ID": "saved"}))
		return
	}
	var req SaveRequest
	if err := decodeValid(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	ctx := httpx.RequestContext(r)
	sess := h.session()
	state, err := sess.FromPath(ctx, req.Path)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	buildID, err := h.newID()
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	build := storage.SavedBuild{ID: buildID, Class: state.Class, Path: state.Path}
	if err := h.store.PutSavedBuild(ctx, build); err != nil {
		h.logger.Printf("save build: %v", err)
		httpx.WriteError(w, r, err)
		return
	}
	savedBuildsTotal.Inc()
	_ = httpx.WriteJSON(w, http.StatusCreated, SavedResponse{ID: build.ID, Path: build.Path, URL: "/s/" + build.ID})
}

// openSaved redirects to the build endpoint of this service for the stored
// share path.
func (h *handler) openSaved(w http.ResponseWriter, r *http.Request) {
	buildID := strings.TrimSpace(r.PathValue("id"))
	if h.store == nil {
		httpx.WriteError(w, r, apperrors.WithMetadata(apperrors.CodeNotFound, "saved builds are disabled", map[string]string{"ID": buildID}))
		return
	}
	build, err := h.store.GetSavedBuild(httpx.RequestContext(r), buildID)
	if err != nil {
		if !apperrors.HasCode(err, apperrors.CodeNotFound) {
			h.logger.Printf("open saved build %s: %v", buildID, err)
		}
		httpx.WriteError(w, r, err)
		return
	}
	http.Redirect(w, r, buildsPrefix+build.Path, http.StatusFound)
}

func (h *handler) healthz(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) session() *session.Session {
	return session.New(h.loader, h.opts...)
}

func decodeValid(r *http.Request, target any) error {
	if err := httpx.DecodeJSON(r, target); err != nil {
		return err
	}
	if err := requestValidator.Struct(target); err != nil {
		return apperrors.WrapWithMetadata(apperrors.CodeInvalidRequest, "validate request", map[string]string{"Reason": err.Error()}, err)
	}
	return nil
}
