package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"stream-rewards/internal/game"
)

func TestErrCodeMapsSentinels(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{game.ErrInvalidRequest, "invalid_request"},
		{game.ErrInsufficientBalance, "insufficient_balance"},
		{game.ErrSessionConflict, "session_conflict"},
		{game.ErrSessionNotFound, "session_not_found"},
		{game.ErrIllegalAction, "illegal_action"},
		{game.ErrCorruptedState, "corrupted_state"},
		{fmt.Errorf("settle: %w", game.ErrSessionConflict), "session_conflict"},
		{errors.New("boom"), "internal_error"},
	}
	for _, c := range cases {
		if got := errCode(c.err); got != c.code {
			t.Fatalf("errCode(%v) = %q, want %q", c.err, got, c.code)
		}
	}
}

func TestErrCodeTreatsBadJSONAsInvalidRequest(t *testing.T) {
	var msg betMessage
	err := json.Unmarshal([]byte(`{"bet":"not a number"}`), &msg)
	if err == nil {
		t.Fatalf("expected a type error")
	}
	if got := errCode(err); got != "invalid_request" {
		t.Fatalf("errCode(%v) = %q, want invalid_request", err, got)
	}
}

func TestMarshalReplyShape(t *testing.T) {
	b := marshalReply(reply{Type: "error", Op: "dice:play", ReqID: "7", Error: "insufficient_balance"})
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["type"] != "error" || out["op"] != "dice:play" || out["req_id"] != "7" || out["error"] != "insufficient_balance" {
		t.Fatalf("reply = %v", out)
	}
	if _, ok := out["data"]; ok {
		t.Fatalf("empty data serialized: %v", out)
	}
}

func TestSafeSendAndCloseSurviveClosedChannel(t *testing.T) {
	ch := make(chan []byte, 1)
	safeClose(ch)
	safeClose(ch)
	safeSend(ch, []byte("late"))
}
