package domain

import (
	"strconv"
	"time"
)

// ListState is the observable state of one entity list. It is replaced wholesale after each
// accepted fetch; a failed fetch only flips Loading back.
type ListState[T any] struct {
	Entity     string    `json:"entity"`
	Items      []T       `json:"items"`
	Count      int       `json:"count"`
	Loading    bool      `json:"loading"`
	SearchTerm string    `json:"searchTerm"`
	Page       int       `json:"page"`
	FetchedAt  time.Time `json:"fetchedAt"`
}

// ListMessage builds the websocket message announcing a list state.
func ListMessage[T any](state ListState[T]) *Message {
	return &Message{
		Topic:  ListTopic(state.Entity),
		Entity: state.Entity,
		Action: ActionList,
		Metadata: map[string]string{
			"search":  state.SearchTerm,
			"page":    strconv.Itoa(state.Page),
			"count":   strconv.Itoa(state.Count),
			"loading": strconv.FormatBool(state.Loading),
		},
		Data:      state,
		Timestamp: time.Now().UTC(),
	}
}
