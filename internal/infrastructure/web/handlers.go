package web

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/arf/areacheck/internal/app"
	"github.com/arf/areacheck/internal/application/page"
	"github.com/arf/areacheck/internal/domain"
)

type pageData struct {
	View    page.View
	Headers []string
	XValues []float64
	RValues []float64
	YMin    float64
	YMax    float64
	Graph   template.HTML
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.serverError(w, "session unavailable", err)
		return
	}
	// A link the page does not already show is replayed.
	if _, err := sess.Controller.Start(r.Context(), r.URL.Query()); err != nil {
		s.logger.Debug("replay from address failed", map[string]interface{}{"error": err.Error()})
	}
	s.render(w, sess, http.StatusOK)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.serverError(w, "session unavailable", err)
		return
	}
	sess.Controller.Start(r.Context(), nil)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	in := domain.FormInput{
		X: r.PostForm.Get(domain.ParamX),
		Y: r.PostForm.Get(domain.ParamY),
		R: r.PostForm.Get(domain.ParamR),
	}
	if _, err := sess.Controller.Submit(r.Context(), in); err != nil {
		s.render(w, sess, http.StatusOK)
		return
	}
	http.Redirect(w, r, sess.Controller.Snapshot().Location, http.StatusSeeOther)
}

func (s *Server) handleRadius(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.serverError(w, "session unavailable", err)
		return
	}
	sess.Controller.Start(r.Context(), nil)

	if err := sess.Controller.SelectRadius(r.FormValue(domain.ParamR)); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, sess.Controller.Snapshot().Location, http.StatusSeeOther)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.serverError(w, "session unavailable", err)
		return
	}
	sess.Controller.Start(r.Context(), nil)

	if err := sess.Controller.Clear(r.Context()); err != nil {
		s.serverError(w, "clear failed", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(r)
	if !ok {
		http.Error(w, "no page session", http.StatusNotFound)
		return
	}
	doc, err := sess.Graph.Document()
	if err != nil {
		s.serverError(w, "graph unavailable", err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(doc)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	records := s.history.Load(r.Context())
	if records == nil {
		records = []domain.ResultRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": s.SessionCount(),
	})
}

func (s *Server) render(w http.ResponseWriter, sess *app.Session, status int) {
	markup, err := sess.Graph.Markup()
	if err != nil {
		s.serverError(w, "graph unavailable", err)
		return
	}
	data := pageData{
		View:    sess.Controller.Snapshot(),
		Headers: domain.TableHeaders,
		XValues: s.form.XValues,
		RValues: s.form.RValues,
		YMin:    s.form.YMin,
		YMax:    s.form.YMax,
		Graph:   template.HTML(markup),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, "page.html", data); err != nil {
		s.logger.Error("template render failed", err, nil)
	}
}

func (s *Server) serverError(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, err, nil)
	http.Error(w, msg, http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
