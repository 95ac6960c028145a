package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vfcarvalho/meu-treino/internal/domain"
)

func testSession(email string) domain.Session {
	return domain.Session{
		Email:        email,
		UserID:       "uid-" + email,
		IDToken:      "id-token",
		RefreshToken: "refresh-token",
	}
}

func TestCreateAndGet(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Close()

	token := m.Create(testSession("a@example.com"))
	require.NotEmpty(t, token)

	got, ok := m.Get(token)
	require.True(t, ok)
	assert.Equal(t, "a@example.com", got.Email)
	assert.Equal(t, "uid-a@example.com", got.UserID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGet_UnknownToken(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Close()

	_, ok := m.Get("no-such-token")
	assert.False(t, ok)
}

func TestDelete_ClearsSession(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Close()

	token := m.Create(testSession("a@example.com"))
	m.Delete(token)

	_, ok := m.Get(token)
	assert.False(t, ok)

	// Deleting again is a no-op.
	m.Delete(token)
}

func TestGet_ExpiredSessionIsDropped(t *testing.T) {
	m := NewManager(10 * time.Millisecond)
	defer m.Close()

	token := m.Create(testSession("a@example.com"))
	time.Sleep(30 * time.Millisecond)

	_, ok := m.Get(token)
	assert.False(t, ok)
}

func TestSessionsAreIndependent(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Close()

	t1 := m.Create(testSession("a@example.com"))
	t2 := m.Create(testSession("b@example.com"))
	require.NotEqual(t, t1, t2)

	m.Delete(t1)

	got, ok := m.Get(t2)
	require.True(t, ok)
	assert.Equal(t, "b@example.com", got.Email)
}

func TestConcurrentAccess(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			token := m.Create(testSession(fmt.Sprintf("user%d@example.com", n)))
			_, ok := m.Get(token)
			assert.True(t, ok)
			m.Delete(token)
		}(i)
	}
	wg.Wait()
}
