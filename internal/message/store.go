// Package message persists conversation threads and implements the support
// assistant.
package message

import (
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/fastseller/fastseller/internal/store"
)

// Message is one entry in a conversation thread.
type Message struct {
	ID   string `json:"id"`
	From string `json:"from"`
	Text string `json:"text"`
	TS   int64  `json:"ts"`
}

// Store keeps every conversation in one keyed blob, a map from conversation
// id to its ordered message list.
type Store struct {
	store *store.Store
	node  *snowflake.Node
}

// NewStore returns a conversation store.
func NewStore(s *store.Store) (*Store, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, err
	}
	return &Store{store: s, node: node}, nil
}

func (s *Store) readAll() (map[string][]Message, error) {
	data := map[string][]Message{}
	if err := s.store.Read(store.KeyMessages, &data); err != nil {
		return nil, err
	}
	if data == nil {
		data = map[string][]Message{}
	}
	return data, nil
}

// Send appends a message to the conversation and persists immediately.
func (s *Store) Send(conversationID, from, text string) (*Message, error) {
	data, err := s.readAll()
	if err != nil {
		return nil, err
	}
	msg := Message{
		ID:   s.node.Generate().String(),
		From: from,
		Text: text,
		TS:   time.Now().UnixMilli(),
	}
	data[conversationID] = append(data[conversationID], msg)
	if err := s.store.Write(store.KeyMessages, data); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Conversation returns the messages of a thread in send order. An unknown
// conversation yields an empty list.
func (s *Store) Conversation(conversationID string) ([]Message, error) {
	data, err := s.readAll()
	if err != nil {
		return nil, err
	}
	list := data[conversationID]
	out := make([]Message, len(list))
	copy(out, list)
	return out, nil
}
