/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package server exposes a drag controller over HTTP. Gesture endpoints mirror the
// pointer lifecycle of a browser drag: start with the item id, end with the item id
// and the drop target under the pointer. Every state change is pushed to
// /api/events subscribers as a full layout document.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"layoutbuilder/internal/dnd"
	"layoutbuilder/internal/export"
	"layoutbuilder/internal/layout"
	applog "layoutbuilder/internal/log"
)

const maxBodyBytes = 64 << 10

// Server serializes all controller access behind one mutex, which plays the role of
// the single UI event loop.
type Server struct {
	mu     sync.Mutex
	ctrl   *dnd.Controller
	opts   export.Options
	sse    *Broadcaster
	router chi.Router
	log    *slog.Logger
}

// New wraps ctrl. opts are used by the export endpoint.
func New(ctrl *dnd.Controller, opts export.Options) *Server {
	s := &Server{
		ctrl: ctrl,
		opts: opts,
		sse:  NewBroadcaster(),
		log:  applog.WithComponent("server"),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/layout", s.handleLayout)
		r.Post("/gestures/start", s.handleGestureStart)
		r.Post("/gestures/end", s.handleGestureEnd)
		r.Post("/gestures/cancel", s.handleGestureCancel)
		r.Delete("/boxes/{id}", s.handleRemove)
		r.Get("/events", s.handleEvents)
		r.Get("/export/{format}", s.handleExport)
	})
	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	s.router.ServeHTTP(w, r)
}

// Broadcaster exposes the event fan-out, e.g. to count subscribers.
func (s *Server) Broadcaster() *Broadcaster { return s.sse }

// ListenAndServe runs the server on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", slog.String("addr", addr))
		errCh <- hs.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	s.sse.Close()
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := applog.ContextWith(r.Context(), slog.String("request_id", middleware.GetReqID(r.Context())))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))
		s.log.DebugContext(ctx, "request",
			slog.String("method", r.Method), slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()), slog.Duration("took", time.Since(start)))
	})
}

type gestureStartRequest struct {
	ItemID string `json:"itemId"`
}

type gestureEndRequest struct {
	ActiveItemID string `json:"activeItemId"`
	TargetID     string `json:"targetId"`
}

type gestureResponse struct {
	Started *bool           `json:"started,omitempty"`
	Outcome string          `json:"outcome,omitempty"`
	BoxID   string          `json:"boxId,omitempty"`
	From    string          `json:"from,omitempty"`
	To      string          `json:"to,omitempty"`
	Removed *bool           `json:"removed,omitempty"`
	Layout  layout.Document `json:"layout"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLayout(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	doc := s.ctrl.Document()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleGestureStart(w http.ResponseWriter, r *http.Request) {
	var req gestureStartRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	ok := s.ctrl.GestureStart(req.ItemID)
	doc := s.ctrl.Document()
	if ok {
		s.publish(doc)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, gestureResponse{Started: &ok, Layout: doc})
}

func (s *Server) handleGestureEnd(w http.ResponseWriter, r *http.Request) {
	var req gestureEndRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	res := s.ctrl.GestureEnd(req.ActiveItemID, req.TargetID)
	doc := s.ctrl.Document()
	s.publishResult(res, doc)
	s.mu.Unlock()
	s.finish(w, res, doc)
}

func (s *Server) handleGestureCancel(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	res := s.ctrl.Cancel()
	doc := s.ctrl.Document()
	s.publishResult(res, doc)
	s.mu.Unlock()
	s.finish(w, res, doc)
}

// publishResult broadcasts doc unless the gesture end found no open session.
// Callers hold s.mu.
func (s *Server) publishResult(res dnd.Result, doc layout.Document) {
	if res.Outcome != dnd.OutcomeIdle {
		s.publish(doc)
	}
}

// finish answers a gesture end. Rejected drops are a normal outcome, not an error.
func (s *Server) finish(w http.ResponseWriter, res dnd.Result, doc layout.Document) {
	writeJSON(w, http.StatusOK, gestureResponse{
		Outcome: res.Outcome.String(),
		BoxID:   res.BoxID,
		From:    slotRef(res.From),
		To:      slotRef(res.To),
		Layout:  doc,
	})
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	ok := s.ctrl.Remove(id)
	doc := s.ctrl.Document()
	if ok {
		s.publish(doc)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, gestureResponse{Removed: &ok, BoxID: id, Layout: doc})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	doc := s.ctrl.Document()
	s.mu.Unlock()
	initial, err := json.Marshal(doc)
	if err != nil {
		jsonError(w, "encode layout", http.StatusInternalServerError)
		return
	}
	s.sse.ServeSSE(w, r, initial)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	f, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	s.mu.Lock()
	doc := s.ctrl.CommittedDocument()
	s.mu.Unlock()
	data, err := export.Render(doc, f, s.opts)
	if err != nil {
		s.log.ErrorContext(r.Context(), "export failed", slog.String("format", string(f)), slog.Any("err", err))
		jsonError(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "layout"+f.Ext()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// publish broadcasts doc. It runs under s.mu so subscribers see documents in the
// order the board changed; Broadcast never blocks.
func (s *Server) publish(doc layout.Document) {
	data, err := json.Marshal(doc)
	if err != nil {
		s.log.Error("encode layout event", slog.Any("err", err))
		return
	}
	s.sse.Broadcast(data)
}

func slotRef(i int) string {
	if i < 0 {
		return ""
	}
	return layout.SlotID(i)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		jsonError(w, "malformed request body: "+strings.TrimSpace(err.Error()), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
