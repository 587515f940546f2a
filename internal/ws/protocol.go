package ws

import "encoding/json"

// Incoming frames are a typed envelope with the operation payload inline,
// e.g. {"type":"dice:play","req_id":"1","bet":100,"target":50,"direction":"under"}.
type envelope struct {
	Type  string `json:"type"`
	ReqID string `json:"req_id"`
}

type authMessage struct {
	APIKey string `json:"api_key"`
}

type positionMessage struct {
	Position int `json:"position"`
}

type betMessage struct {
	Bet int64 `json:"bet"`
}

type historyMessage struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// reply mirrors the request/response surface: Data carries exactly the JSON
// shape the HTTP handler for the same operation returns.
type reply struct {
	Type  string `json:"type"`
	Op    string `json:"op,omitempty"`
	ReqID string `json:"req_id,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

func marshalReply(r reply) []byte {
	b, _ := json.Marshal(r)
	return b
}
