package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatSession_SendCarriesHistory(t *testing.T) {
	stub := &stubClient{replies: []string{"first", "second"}}
	session, err := NewChatTransport(stub, TaskInterview).StartSession(context.Background(), "be brief")
	require.NoError(t, err)

	reply, err := session.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "first", reply)

	reply, err = session.Send(context.Background(), "again")
	require.NoError(t, err)
	assert.Equal(t, "second", reply)

	require.Len(t, stub.reqs, 2)
	first, second := stub.reqs[0], stub.reqs[1]
	assert.Equal(t, "be brief", first.SystemPrompt)
	assert.True(t, first.Stream)
	assert.Equal(t, TaskInterview, first.Task)
	assert.Empty(t, first.History)
	assert.Equal(t, []Message{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "first"},
	}, second.History)
	assert.Equal(t, "again", second.UserPrompt)
}

func TestChatSession_FailedTurnNotRecorded(t *testing.T) {
	stub := &stubClient{err: errors.New("boom")}
	session, err := NewChatTransport(stub, TaskInterview).StartSession(context.Background(), "")
	require.NoError(t, err)

	_, err = session.Send(context.Background(), "hello")
	require.Error(t, err)

	stub.err = nil
	stub.replies = []string{"ok"}
	_, err = session.Send(context.Background(), "hello")
	require.NoError(t, err)

	assert.Empty(t, stub.reqs[1].History)
}
