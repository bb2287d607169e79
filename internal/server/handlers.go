package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bft-labs/diceroller/internal/history"
)

type rollRequest struct {
	Dice *int `json:"dice"`
}

type rollResponse struct {
	Seq   uint64 `json:"seq"`
	Dice  []int  `json:"dice"`
	Total int    `json:"total"`
	Text  string `json:"text"`
}

type historyResponse struct {
	Entries []history.Entry `json:"entries"`
}

type healthResponse struct {
	Status      string `json:"status"`
	Sides       int    `json:"sides"`
	History     int    `json:"history"`
	Subscribers int    `json:"subscribers"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:      "ok",
		Sides:       s.Sides(),
		History:     s.history.Len(),
		Subscribers: s.history.Subscribers(),
	})
}

func (s *Server) handleRoll(c echo.Context) error {
	var req rollRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Error: invalid request body"})
	}
	count := 1
	if req.Dice != nil {
		count = *req.Dice
	}

	e, err := s.Roll(c.Request().Header.Get(SessionHeader), count)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Error: " + err.Error()})
	}
	return c.JSON(http.StatusOK, rollResponse{
		Seq:   e.Seq,
		Dice:  e.Dice,
		Total: e.Total,
		Text:  e.Text,
	})
}

func (s *Server) handleHistory(c echo.Context) error {
	return c.JSON(http.StatusOK, historyResponse{Entries: s.history.Entries()})
}
