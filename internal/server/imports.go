package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vhvplatform/react-framework-sub001/internal/errors"
	"github.com/vhvplatform/react-framework-sub001/internal/importer"
)

// MessageType is the type of an import websocket message.
type MessageType string

const (
	MessageProgress MessageType = "progress"
	MessageResult   MessageType = "result"
	MessageError    MessageType = "error"
)

// ImportMessage is sent to the client during a websocket import. A
// connection carries progress messages followed by exactly one result or
// error message.
type ImportMessage struct {
	Type    MessageType      `json:"type"`
	Stage   importer.Stage   `json:"stage,omitempty"`
	Message string           `json:"message,omitempty"`
	Result  *importer.Result `json:"result,omitempty"`
	Error   json.RawMessage  `json:"error,omitempty"`
}

const writeWait = 10 * time.Second

// importWS upgrades the connection, reads one importer.Request and streams
// the import's progress back.
func (s *Server) importWS(w http.ResponseWriter, r *http.Request) {
	if s.importer == nil {
		http.Error(w, "imports are disabled", http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	var req importer.Request
	if err := conn.ReadJSON(&req); err != nil {
		s.send(conn, errorMessage(errors.Newf(errors.CategoryValidation, "invalid import request: %v", err)))
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	// The client sends nothing more; a failed read means it went away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	req.Progress = func(e importer.Event) {
		s.send(conn, ImportMessage{Type: MessageProgress, Stage: e.Stage, Message: e.Message})
	}
	s.logger.Info("websocket import", "template", req.Name, "source", req.Source)

	res, err := s.importer.Import(ctx, req)
	if err != nil {
		s.send(conn, errorMessage(err))
	} else {
		s.send(conn, ImportMessage{Type: MessageResult, Result: res})
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

func errorMessage(err error) ImportMessage {
	return ImportMessage{Type: MessageError, Error: json.RawMessage(asError(err).FormatJSON())}
}

// send writes one message. Only the handler goroutine writes to conn.
func (s *Server) send(conn *websocket.Conn, msg ImportMessage) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Debug("websocket write failed", "error", err)
	}
}
