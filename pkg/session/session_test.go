package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerExpireNotifiesSubscribers(t *testing.T) {
	m := NewManager()
	first, unsubFirst := m.Subscribe()
	second, unsubSecond := m.Subscribe()
	defer unsubFirst()
	defer unsubSecond()

	m.Expire("401 from /users")

	for _, ch := range []<-chan Event{first, second} {
		select {
		case ev := <-ch:
			assert.Equal(t, StateExpired, ev.State)
			assert.Equal(t, LoginPath, ev.LoginPath)
			assert.Equal(t, "401 from /users", ev.Reason)
		default:
			t.Fatal("expected an event for every subscriber")
		}
	}
	assert.Equal(t, StateExpired, m.State())
}

func TestManagerExpireIsIdempotent(t *testing.T) {
	m := NewManager()
	ch, unsub := m.Subscribe()
	defer unsub()

	m.Expire("first")
	<-ch
	m.Expire("second")

	select {
	case ev := <-ch:
		t.Fatalf("unexpected second event: %+v", ev)
	default:
	}
	assert.Equal(t, "first", m.Reason())
}

func TestManagerRenew(t *testing.T) {
	m := NewManager()
	ch, unsub := m.Subscribe()
	defer unsub()

	m.Expire("gone")
	m.Renew()

	// Only the latest state is kept in the buffer
	ev := <-ch
	assert.Equal(t, StateValid, ev.State)
	assert.Equal(t, StateValid, m.State())
}

func TestManagerUnsubscribeClosesChannel(t *testing.T) {
	m := NewManager()
	ch, unsub := m.Subscribe()
	unsub()
	unsub()

	_, ok := <-ch
	require.False(t, ok)

	// Expiring with no subscribers must not block
	m.Expire("nobody listening")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "valid", StateValid.String())
	assert.Equal(t, "expired", StateExpired.String())
	assert.Equal(t, "unknown", State(9).String())
}
