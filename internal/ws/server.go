package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"stream-rewards/internal/game"
	"stream-rewards/internal/ledger"
	"stream-rewards/internal/store"
)

type Client struct {
	conn *websocket.Conn
	send chan []byte
	user *store.User
}

// Server is the persistent-connection twin of the HTTP surface: every
// operation dispatches into the same engine and emits the same result shape.
type Server struct {
	store    *store.Store
	ledger   *ledger.Service
	engine   *game.Engine
	upgrader websocket.Upgrader
}

func NewServer(st *store.Store, led *ledger.Service, engine *game.Engine) *Server {
	return &Server{
		store:    st,
		ledger:   led,
		engine:   engine,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{conn: conn, send: make(chan []byte, 8)}

	go s.writeLoop(client)
	s.readLoop(client)
}

func (s *Server) readLoop(c *Client) {
	defer func() {
		safeClose(c.send)
		_ = c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var env envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			continue
		}
		if env.Type == "auth" {
			s.handleAuth(c, env, msg)
			continue
		}
		if c.user == nil {
			s.sendError(c, env, "unauthorized")
			continue
		}
		s.dispatch(c, env, msg)
	}
}

func (s *Server) writeLoop(c *Client) {
	for msg := range c.send {
		_ = c.conn.WriteMessage(websocket.TextMessage, msg)
	}
}

func (s *Server) handleAuth(c *Client, env envelope, msg []byte) {
	var auth authMessage
	if err := json.Unmarshal(msg, &auth); err != nil {
		s.sendError(c, env, "invalid_request")
		return
	}
	user, err := s.store.GetUserByAPIKey(context.Background(), auth.APIKey)
	if err != nil {
		s.sendError(c, env, "invalid_api_key")
		return
	}
	c.user = user
	safeSend(c.send, marshalReply(reply{Type: "auth", ReqID: env.ReqID, Data: map[string]any{"user_id": user.ID, "name": user.Name}}))
}

func (s *Server) dispatch(c *Client, env envelope, msg []byte) {
	ctx := context.Background()
	userID := c.user.ID

	var (
		data any
		err  error
	)
	switch env.Type {
	case "dice:play":
		var p game.DiceParams
		if err = json.Unmarshal(msg, &p); err == nil {
			data, err = s.engine.PlayDice(ctx, userID, p)
		}
	case "limbo:play":
		var p game.LimboParams
		if err = json.Unmarshal(msg, &p); err == nil {
			data, err = s.engine.PlayLimbo(ctx, userID, p)
		}
	case "keno:play":
		var p game.KenoParams
		if err = json.Unmarshal(msg, &p); err == nil {
			data, err = s.engine.PlayKeno(ctx, userID, p)
		}
	case "mines:start":
		var p game.MinesStartParams
		if err = json.Unmarshal(msg, &p); err == nil {
			data, err = s.engine.StartMines(ctx, userID, p)
		}
	case "mines:reveal":
		var p positionMessage
		if err = json.Unmarshal(msg, &p); err == nil {
			data, err = s.engine.RevealMines(ctx, userID, p.Position)
		}
	case "mines:cashout":
		data, err = s.engine.CashoutMines(ctx, userID)
	case "blackjack:start":
		var p betMessage
		if err = json.Unmarshal(msg, &p); err == nil {
			data, err = s.engine.StartBlackjack(ctx, userID, p.Bet)
		}
	case "blackjack:hit":
		data, err = s.engine.HitBlackjack(ctx, userID)
	case "blackjack:stand":
		data, err = s.engine.StandBlackjack(ctx, userID)
	case "blackjack:double":
		data, err = s.engine.DoubleBlackjack(ctx, userID)
	case "blackjack:split":
		data, err = s.engine.SplitBlackjack(ctx, userID)
	case "me:balance":
		var balance int64
		balance, err = s.ledger.Balance(ctx, userID)
		if err == nil {
			data = map[string]any{"user_id": userID, "balance": balance}
		}
	case "me:history":
		var p historyMessage
		if err = json.Unmarshal(msg, &p); err == nil {
			var items []game.HistoryEntry
			items, err = s.store.ListGameHistory(ctx, userID, p.Limit, p.Offset)
			if err == nil {
				data = map[string]any{"items": items}
			}
		}
	default:
		s.sendError(c, env, "unknown_message")
		return
	}

	if err != nil {
		s.sendError(c, env, errCode(err))
		return
	}
	safeSend(c.send, marshalReply(reply{Type: env.Type, ReqID: env.ReqID, Data: data}))
}

func (s *Server) sendError(c *Client, env envelope, code string) {
	safeSend(c.send, marshalReply(reply{Type: "error", Op: env.Type, ReqID: env.ReqID, Error: code}))
}

func errCode(err error) string {
	for _, known := range []error{
		game.ErrInvalidRequest,
		game.ErrInsufficientBalance,
		game.ErrSessionConflict,
		game.ErrSessionNotFound,
		game.ErrIllegalAction,
		game.ErrCorruptedState,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	var jsonErr *json.UnmarshalTypeError
	if errors.As(err, &jsonErr) {
		return "invalid_request"
	}
	log.Error().Err(err).Msg("ws dispatch failed")
	return "internal_error"
}

func safeClose(ch chan []byte) {
	defer func() {
		_ = recover()
	}()
	close(ch)
}

func safeSend(ch chan []byte, msg []byte) {
	defer func() {
		_ = recover()
	}()
	ch <- msg
}
