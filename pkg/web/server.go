// Package web serves the live dashboard: REST endpoints for current signal
// state and websocket streams of band energies and gesture events.
package web

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/lumafield/stagesense/internal/log"
	"github.com/lumafield/stagesense/pkg/dispatch"
	"github.com/lumafield/stagesense/pkg/gesture"
	"github.com/lumafield/stagesense/pkg/hub"
	"github.com/lumafield/stagesense/pkg/spectral"
)

// State is the dashboard snapshot of everything the engines currently know.
type State struct {
	Bands         spectral.BandEnergy `json:"bands"`
	PinchStrength float64             `json:"pinch_strength"`
	FollowActive  bool                `json:"follow_active"`
	FollowX       float64             `json:"follow_x"`
	FollowY       float64             `json:"follow_y"`
	BodyLean      float64             `json:"body_lean"`
	BeatCount     int                 `json:"beat_count"`
	PeakCount     int                 `json:"peak_count"`
	LastBeat      string              `json:"last_beat"`
}

// EventEntry is one row of the dashboard event log.
type EventEntry struct {
	Time    string `json:"time"`
	Kind    string `json:"kind"` // beat, peak, swipe, reset
	Detail  string `json:"detail"`
	Payload any    `json:"payload,omitempty"`
}

// Server is the web dashboard server
type Server struct {
	app  *fiber.App
	port string

	// State
	state   State
	stateMu sync.RWMutex

	// Event log buffer (last 500 entries)
	events   []EventEntry
	eventsMu sync.RWMutex

	// Hubs for websocket broadcast
	eventHub *hub.Hub
	bandHub  *hub.Hub
}

// NewServer creates a dashboard server and subscribes it to the registry.
func NewServer(port string, reg *dispatch.Registry) *Server {
	s := &Server{
		port:     port,
		events:   make([]EventEntry, 0, 500),
		eventHub: hub.New("events"),
		bandHub:  hub.New("bands"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "StageSense Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static files
	app.Static("/", "./web")

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/bands", s.handleBands)
	api.Get("/gestures", s.handleGestures)
	api.Get("/events", s.handleEvents)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/events", websocket.New(s.handleEventsWS))
	app.Get("/ws/bands", websocket.New(s.handleBandsWS))

	s.app = app
	s.bind(reg)
	return s
}

// bind subscribes the dashboard to every event slot it displays.
func (s *Server) bind(reg *dispatch.Registry) {
	reg.OnBands(func(b spectral.BandEnergy) {
		s.updateState(func(st *State) { st.Bands = b })
		s.bandHub.BroadcastJSON(b)
	})
	reg.OnBeat(func(intensity float64) {
		s.updateState(func(st *State) {
			st.BeatCount++
			st.LastBeat = time.Now().Format("15:04:05.000")
		})
		s.addEvent("beat", "", intensity)
	})
	reg.OnPeak(func(intensity float64) {
		s.updateState(func(st *State) { st.PeakCount++ })
		s.addEvent("peak", "", intensity)
	})
	reg.OnPinch(func(strength float64) {
		s.updateState(func(st *State) { st.PinchStrength = strength })
	})
	reg.OnSwipe(func(sw gesture.Swipe) {
		s.addEvent("swipe", string(sw.Direction), sw)
	})
	reg.OnReset(func() {
		s.addEvent("reset", "open palm", nil)
	})
	reg.OnFollow(func(u gesture.FollowUpdate) {
		s.updateState(func(st *State) {
			st.FollowActive = u.Active
			st.FollowX = u.X
			st.FollowY = u.Y
		})
	})
	reg.OnBodyLean(func(lean float64) {
		s.updateState(func(st *State) { st.BodyLean = lean })
	})
}

// Run starts the hubs and serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go s.eventHub.Run(ctx)
	go s.bandHub.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info("dashboard listening", "port", s.port)
		errCh <- s.app.Listen(":" + s.port)
	}()

	select {
	case <-ctx.Done():
		s.app.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// updateState applies a mutation under the lock.
func (s *Server) updateState(update func(*State)) {
	s.stateMu.Lock()
	update(&s.state)
	s.stateMu.Unlock()
}

// addEvent appends to the event log and broadcasts to websocket clients.
func (s *Server) addEvent(kind, detail string, payload any) {
	entry := EventEntry{
		Time:    time.Now().Format("15:04:05.000"),
		Kind:    kind,
		Detail:  detail,
		Payload: payload,
	}

	s.eventsMu.Lock()
	s.events = append(s.events, entry)
	if len(s.events) > 500 {
		s.events = s.events[1:]
	}
	s.eventsMu.Unlock()

	s.eventHub.BroadcastJSON(entry)
}
