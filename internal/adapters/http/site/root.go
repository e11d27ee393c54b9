// Package site serves the server-rendered prediction form.
package site

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/okian/heartcheck/internal/adapters/notify"
	service "github.com/okian/heartcheck/internal/app"
	"github.com/okian/heartcheck/internal/domain/form"
	"github.com/okian/heartcheck/internal/domain/prediction"
	"github.com/okian/heartcheck/pkg/logger"
	"github.com/okian/heartcheck/pkg/metrics"
)

// Error constants
var (
	ErrRender = errors.New("form page render failed")
)

const (
	maxFormBody   = 64 << 10
	maxToasts     = 5
	previousField = "previous"
)

//go:embed templates/*
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/form.html.tmpl"))

// Dependencies required by the form handler.
type Dependencies interface {
	NewSession(extra ...notify.Notifier) (*service.Session, error)
}

// Register attaches the form page and its assets to mux.
func Register(_ context.Context, mux *http.ServeMux, deps Dependencies) {
	if mux == nil {
		panic("mux is nil")
	}
	h := NewRootHandler(deps)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(FS())))
	mux.HandleFunc("/", h.HandleRoot)
}

// RootHandler renders and submits the prediction form.
type RootHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewRootHandler creates a new root handler.
func NewRootHandler(deps Dependencies) *RootHandler {
	return &RootHandler{deps: deps, logger: logger.Named("site")}
}

// HandleRoot serves GET / (blank form, or a preset with ?preset=) and
// POST / (submit).
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.handleGet(w, r)
	case http.MethodPost:
		h.handlePost(w, r)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *RootHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	holder := form.NewHolder()
	flash := notify.NewFlash(maxToasts)
	status := http.StatusOK

	if name := r.URL.Query().Get("preset"); name != "" {
		rec, err := form.Preset(name)
		if err != nil {
			flash.Notify(r.Context(), err.Error(), notify.LevelWarning)
			status = http.StatusNotFound
		} else {
			holder.Reset(rec)
		}
	}

	page := newPage(holder)
	page.Notifications = flash.Messages()
	h.render(w, r, status, page)
}

func (h *RootHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	flash := notify.NewFlash(maxToasts)
	holder, err := form.FromValues(r.PostForm)
	if err != nil {
		flash.Notify(r.Context(), err.Error(), notify.LevelWarning)
		page := newPage(form.NewHolder())
		page.Notifications = flash.Messages()
		h.render(w, r, http.StatusBadRequest, page)
		return
	}

	sess, err := h.deps.NewSession(flash)
	if err != nil {
		h.logger.Error(r.Context(), "cannot open session", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	if prev := r.PostForm.Get(previousField); prev != "" {
		sess.Restore(prediction.Response{Prediction: prev})
	}

	status := http.StatusOK
	_, err = sess.Submit(r.Context(), holder)
	switch {
	case errors.Is(err, form.ErrValidation):
		status = http.StatusUnprocessableEntity
	case err != nil:
		status = http.StatusBadGateway
	}

	page := newPage(holder)
	if resp, ok := sess.Result(); ok {
		page.show(resp)
	}
	page.Notifications = flash.Messages()
	h.render(w, r, status, page)
}

func (h *RootHandler) render(w http.ResponseWriter, r *http.Request, status int, page pageView) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		h.logger.Error(r.Context(), "render form page", logger.Error(errors.Join(ErrRender, err)))
		metrics.RecordErrorByType("render_error", "high")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
