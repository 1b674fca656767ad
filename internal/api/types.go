package api

import (
	"bytes"
	"strings"

	"github.com/goccy/go-json"

	"reco/internal/domain"
)

// productResult is a product record with its similarity score.
type productResult struct {
	domain.Item
	Score float64 `json:"score"`
}

type itemsResponse struct {
	Items []productResult `json:"items"`
}

type recommendItem struct {
	ProductID int     `json:"productId"`
	Score     float64 `json:"score"`
}

type recommendResponse struct {
	Items  []recommendItem `json:"items"`
	Source string          `json:"source"`
}

type statusResponse struct {
	Status   string `json:"status"`
	Products int    `json:"products"`
	Error    string `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type trackRequest struct {
	UserID    *int   `json:"userId"`
	ProductID *int   `json:"productId"`
	Event     string `json:"event"`
	TS        string `json:"ts,omitempty"`
}

type recommendRequest struct {
	UserID  *int          `json:"userId"`
	History []historyItem `json:"history"`
	K       int           `json:"k"`
}

// historyItem accepts both "12" and 12 so clients can send either.
type historyItem string

func (h *historyItem) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*h = historyItem(s)
		return nil
	}
	*h = historyItem(strings.TrimSpace(string(data)))
	return nil
}

func toProductResults(items []domain.ScoredItem) []productResult {
	out := make([]productResult, len(items))
	for i, it := range items {
		out[i] = productResult{Item: it.Item, Score: it.Score}
	}
	return out
}
