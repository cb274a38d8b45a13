// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/sensor_utils/internal/config"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// statsUpdate is one websocket message.
type statsUpdate struct {
	Quantity string          `json:"quantity"`
	Report   json.RawMessage `json:"report"`
}

// webState caches the latest payload of every topic the web server serves.
type webState struct {
	mu      sync.RWMutex
	reading json.RawMessage
	fix     json.RawMessage
	reports map[string]json.RawMessage

	hubMu   sync.Mutex
	clients map[chan statsUpdate]struct{}
}

func newWebState() *webState {
	return &webState{
		reports: make(map[string]json.RawMessage),
		clients: make(map[chan statsUpdate]struct{}),
	}
}

func (s *webState) setReading(_ string, payload []byte) {
	if !json.Valid(payload) {
		log.Printf("web: ignoring invalid env payload")
		return
	}
	s.mu.Lock()
	s.reading = append(json.RawMessage(nil), payload...)
	s.mu.Unlock()
}

func (s *webState) setFix(_ string, payload []byte) {
	if !json.Valid(payload) {
		log.Printf("web: ignoring invalid gps payload")
		return
	}
	s.mu.Lock()
	s.fix = append(json.RawMessage(nil), payload...)
	s.mu.Unlock()
}

// setReport stores a statistics report and pushes it to websocket clients.
func (s *webState) setReport(topic string, payload []byte) {
	if !json.Valid(payload) {
		log.Printf("web: ignoring invalid report on %s", topic)
		return
	}
	u := statsUpdate{
		Quantity: quantityFromTopic(topic),
		Report:   append(json.RawMessage(nil), payload...),
	}
	s.mu.Lock()
	s.reports[u.Quantity] = u.Report
	s.mu.Unlock()
	s.broadcast(u)
}

func (s *webState) snapshot() []statsUpdate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]statsUpdate, 0, len(s.reports))
	for q, r := range s.reports {
		out = append(out, statsUpdate{Quantity: q, Report: r})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Quantity < out[j].Quantity })
	return out
}

func (s *webState) subscribe() chan statsUpdate {
	ch := make(chan statsUpdate, 16)
	s.hubMu.Lock()
	s.clients[ch] = struct{}{}
	s.hubMu.Unlock()
	return ch
}

func (s *webState) unsubscribe(ch chan statsUpdate) {
	s.hubMu.Lock()
	delete(s.clients, ch)
	s.hubMu.Unlock()
}

// broadcast never blocks; a client that is behind loses the update.
func (s *webState) broadcast(u statsUpdate) {
	s.hubMu.Lock()
	defer s.hubMu.Unlock()
	for ch := range s.clients {
		select {
		case ch <- u:
		default:
		}
	}
}

func writeRaw(w http.ResponseWriter, payload json.RawMessage) {
	if payload == nil {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(payload); err != nil {
		log.Printf("web: write error: %v", err)
	}
}

func (s *webState) handleEnv(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeRaw(w, s.reading)
}

func (s *webState) handleGPS(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeRaw(w, s.fix)
}

func (s *webState) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.reports); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

func (s *webState) handleQuantity(w http.ResponseWriter, r *http.Request) {
	q := r.PathValue("quantity")
	s.mu.RLock()
	report, ok := s.reports[q]
	s.mu.RUnlock()
	if !ok {
		http.Error(w, fmt.Sprintf("no report for %q", q), http.StatusNotFound)
		return
	}
	writeRaw(w, report)
}

// handleStatsWS sends the cached reports, then every new one until the
// client goes away.
func (s *webState) handleStatsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	ch := s.subscribe()
	defer s.unsubscribe(ch)

	for _, u := range s.snapshot() {
		if err := conn.WriteJSON(u); err != nil {
			return
		}
	}

	// The read side only exists to notice the close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("web: websocket error: %v", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case u := <-ch:
			if err := conn.WriteJSON(u); err != nil {
				return
			}
		}
	}
}

func newWebMux(s *webState, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/env", s.handleEnv)
	mux.HandleFunc("GET /api/gps", s.handleGPS)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/stats/{quantity}", s.handleQuantity)
	mux.HandleFunc("/ws/stats", s.handleStatsWS)
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	return mux
}

// RunWeb serves the latest readings, reports and GPS fix over HTTP and
// streams new reports over a websocket.
func RunWeb() error {
	cfg := config.Get()
	state := newWebState()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDWeb)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("connected to MQTT broker at %s", cfg.MQTTBroker)

	subs := []struct {
		topic   string
		handler func(string, []byte)
	}{
		{cfg.TopicEnv, state.setReading},
		{cfg.TopicStats + "/#", state.setReport},
		{cfg.TopicGPS, state.setFix},
	}
	for _, sub := range subs {
		if err := subscribe(client, sub.topic, sub.handler); err != nil {
			return err
		}
		log.Printf("subscribed to MQTT topic %s", sub.topic)
	}

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, newWebMux(state, cfg.WebStaticDir))
}
