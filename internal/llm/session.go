package llm

import (
	"context"
	"sync"
)

// ChatTransport opens multi-turn chat sessions with a fixed system
// instruction.
type ChatTransport interface {
	StartSession(ctx context.Context, systemInstruction string) (ChatSession, error)
}

// ChatSession sends one user utterance at a time and returns the model's
// reply as a single string, streamed replies reassembled.
type ChatSession interface {
	Send(ctx context.Context, message string) (string, error)
}

// NewChatTransport adapts an LLMClient into a ChatTransport. Sessions stream
// their replies and use the parameters of task.
func NewChatTransport(client LLMClient, task TaskType) ChatTransport {
	return &chatTransport{client: client, task: task}
}

type chatTransport struct {
	client LLMClient
	task   TaskType
}

func (t *chatTransport) StartSession(_ context.Context, systemInstruction string) (ChatSession, error) {
	return &chatSession{
		client: t.client,
		task:   t.task,
		system: systemInstruction,
	}, nil
}

type chatSession struct {
	client LLMClient
	task   TaskType
	system string

	mu      sync.Mutex
	history []Message
}

// Send appends the exchange to the session history only when the model
// answered, so a failed turn can be resent without duplicating it.
func (s *chatSession) Send(ctx context.Context, message string) (string, error) {
	s.mu.Lock()
	history := make([]Message, len(s.history))
	copy(history, s.history)
	s.mu.Unlock()

	resp, err := s.client.Generate(ctx, GenerateRequest{
		Task:         s.task,
		SystemPrompt: s.system,
		History:      history,
		UserPrompt:   message,
		Stream:       true,
	})
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.history = append(s.history,
		Message{Role: RoleUser, Content: message},
		Message{Role: RoleAssistant, Content: resp.Text},
	)
	s.mu.Unlock()
	return resp.Text, nil
}
