package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/lumafield/stagesense/pkg/hub"
)

// handleStatus returns the full dashboard snapshot
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return c.JSON(s.state)
}

// handleBands returns only the current band energies
func (s *Server) handleBands(c *fiber.Ctx) error {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return c.JSON(s.state.Bands)
}

// handleGestures returns the continuous gesture state
func (s *Server) handleGestures(c *fiber.Ctx) error {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return c.JSON(fiber.Map{
		"pinch_strength": s.state.PinchStrength,
		"follow_active":  s.state.FollowActive,
		"follow_x":       s.state.FollowX,
		"follow_y":       s.state.FollowY,
		"body_lean":      s.state.BodyLean,
	})
}

// handleEvents returns the recent event log
func (s *Server) handleEvents(c *fiber.Ctx) error {
	s.eventsMu.RLock()
	defer s.eventsMu.RUnlock()
	return c.JSON(s.events)
}

// handleEventsWS streams the event log live. Recent history is replayed on
// connect so a fresh dashboard is not empty.
func (s *Server) handleEventsWS(c *websocket.Conn) {
	s.eventsMu.RLock()
	recent := s.events
	if len(recent) > 50 {
		recent = recent[len(recent)-50:]
	}
	for _, entry := range recent {
		c.WriteJSON(entry)
	}
	s.eventsMu.RUnlock()

	client := hub.NewClient(s.eventHub, c)
	client.Run()
}

// handleBandsWS streams per-tick band energies.
func (s *Server) handleBandsWS(c *websocket.Conn) {
	client := hub.NewClient(s.bandHub, c)
	client.Run()
}
