package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id       string
	userID   uuid.UUID
	messages [][]byte
	mu       sync.Mutex
	closed   bool
}

func newMockClient(id string, userID uuid.UUID) *mockClient {
	return &mockClient{
		id:       id,
		userID:   userID,
		messages: make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) UserID() uuid.UUID {
	return m.userID
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	userA := uuid.New()
	userB := uuid.New()

	client1 := newMockClient("client-1", userA)
	client2 := newMockClient("client-2", userA)
	client3 := newMockClient("client-3", userB)

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	assert.Equal(t, 2, hub.ClientCount(userA))
	assert.Equal(t, 1, hub.ClientCount(userB))
	assert.Equal(t, 0, hub.ClientCount(uuid.New()))

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount(userA))

	hub.Unregister(client2)
	hub.Unregister(client3)
	assert.Equal(t, 0, hub.ClientCount(userA))
	assert.Equal(t, 0, hub.ClientCount(userB))
}

func TestHub_Broadcast_UserIsolation(t *testing.T) {
	hub := NewHub()

	userA := uuid.New()
	userB := uuid.New()

	// Two clients for user A
	clientA1 := newMockClient("client-a1", userA)
	clientA2 := newMockClient("client-a2", userA)

	// One client for user B
	clientB := newMockClient("client-b", userB)

	hub.Register(clientA1)
	hub.Register(clientA2)
	hub.Register(clientB)

	evt := TransactionCreated(map[string]interface{}{"id": uuid.New().String()})
	hub.Broadcast(userA, evt)

	// Give goroutines time to process
	time.Sleep(10 * time.Millisecond)

	assert.Len(t, clientA1.GetMessages(), 1, "clientA1 should receive 1 message")
	assert.Len(t, clientA2.GetMessages(), 1, "clientA2 should receive 1 message")
	assert.Len(t, clientB.GetMessages(), 0, "clientB should receive no messages")
}

func TestHub_Broadcast_NoClients(t *testing.T) {
	hub := NewHub()

	// Broadcasting to a user with no clients should not panic
	assert.NotPanics(t, func() {
		hub.Broadcast(uuid.New(), TodoToggled(map[string]interface{}{"completed": true}))
	})
}

func TestHub_TotalClientCount(t *testing.T) {
	hub := NewHub()

	userA := uuid.New()
	userB := uuid.New()

	assert.Equal(t, 0, hub.TotalClientCount())

	hub.Register(newMockClient("client-1", userA))
	hub.Register(newMockClient("client-2", userA))
	hub.Register(newMockClient("client-3", userB))

	assert.Equal(t, 3, hub.TotalClientCount())
}

func TestHub_ConcurrentRegisterBroadcast(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			hub.Register(newMockClient(uuid.New().String(), userID))
		}(i)
		go func() {
			defer wg.Done()
			hub.Broadcast(userID, NoteCreated(map[string]interface{}{"content": "hi"}))
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, hub.ClientCount(userID))
}
