package server

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/bft-labs/diceroller/pkg/log"
)

const (
	eventBuffer = 16
	writeWait   = 10 * time.Second
)

// handleEvents streams history entries to a WebSocket client until the
// client goes away or the server stops.
func (s *Server) handleEvents(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", log.Err(err))
		return nil
	}
	defer conn.Close()

	events, cancel := s.history.Subscribe(eventBuffer)
	defer cancel()

	// reads only detect the peer closing; clients send nothing
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.logger.Debug("event subscriber connected", log.String("remote", c.RealIP()))
	for {
		select {
		case <-gone:
			return nil
		case <-s.done:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server stopping"),
				time.Now().Add(writeWait))
			return nil
		case e, ok := <-events:
			if !ok {
				return nil
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(e); err != nil {
				s.logger.Debug("event subscriber dropped", log.Err(err))
				return nil
			}
		}
	}
}
