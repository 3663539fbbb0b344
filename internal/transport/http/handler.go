// Package http renders pages through the user tag manager: one request is
// one render cycle with its own render context.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/rs/zerolog"

	"github.com/rlunar/ionize/internal/connect"
	"github.com/rlunar/ionize/internal/form"
	"github.com/rlunar/ionize/internal/lang"
	"github.com/rlunar/ionize/internal/metrics"
	"github.com/rlunar/ionize/internal/notify"
	"github.com/rlunar/ionize/internal/tagmanager"
)

// PageSource resolves a page name to its template source.
type PageSource interface {
	Page(name string) (string, bool)
}

// MapPages is a map-backed PageSource.
type MapPages map[string]string

func (m MapPages) Page(name string) (string, bool) {
	src, ok := m[name]
	return src, ok
}

type PageHandler struct {
	account  *connect.Service
	sessions connect.SessionStore
	forms    *form.Registry
	valid    *form.Validator
	notifier *notify.Dispatcher
	lang     *lang.Translator
	pages    PageSource
	cookies  *CookieCodec
	ttl      time.Duration
	lg       zerolog.Logger
}

type PageDeps struct {
	Account  *connect.Service
	Sessions connect.SessionStore
	Forms    *form.Registry
	Valid    *form.Validator
	Notifier *notify.Dispatcher
	Lang     *lang.Translator
	Pages    PageSource
	Cookies  *CookieCodec
	TTL      time.Duration
	Logger   zerolog.Logger
}

func NewPageHandler(d PageDeps) *PageHandler {
	return &PageHandler{
		account:  d.Account,
		sessions: d.Sessions,
		forms:    d.Forms,
		valid:    d.Valid,
		notifier: d.Notifier,
		lang:     d.Lang,
		pages:    d.Pages,
		cookies:  d.Cookies,
		ttl:      d.TTL,
		lg:       d.Logger.With().Str("component", "page_handler").Logger(),
	}
}

// ServePage renders one page. A submitted form (POST with a "form" key) is
// processed by the tag manager during the render.
func (h *PageHandler) ServePage(w http.ResponseWriter, r *http.Request) {
	name := pageName(r)
	src, ok := h.pages.Page(name)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}

	token := h.cookies.sessionFromRequest(r)
	session := connect.NewSession(h.account, h.sessions, h.ttl, token)

	rc := tagmanager.NewRenderContext(tagmanager.Deps{
		Account:   h.account,
		Session:   session,
		Forms:     h.forms,
		Validator: h.valid,
		Notifier:  h.notifier,
		Lang:      h.lang,
		Logger:    h.lg,
		Post:      r.PostForm,
	})

	out, err := rc.Render(r.Context(), src)
	if err != nil {
		h.lg.Error().Err(err).Str("page", name).Msg("render failed")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	metrics.RecordPageRender()

	// a login/logout during the render moves the session token
	if session.Token() != token {
		h.cookies.writeSession(w, session.Token())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

func pageName(r *http.Request) string {
	if p := r.URL.Path; p != "" && p != "/" {
		return p[1:]
	}
	return "index"
}

// Healthz is the liveness endpoint.
func Healthz(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}
