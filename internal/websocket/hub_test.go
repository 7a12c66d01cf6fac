package websocket

import (
	"encoding/json"
	"testing"
)

func newHubClient() *Client {
	return &Client{send: make(chan []byte, 10)}
}

func TestBroadcastBalanceReachesUserClients(t *testing.T) {
	hub := NewHub()
	first := newHubClient()
	second := newHubClient()
	other := newHubClient()
	hub.Register("user-1", first)
	hub.Register("user-1", second)
	hub.Register("user-2", other)

	hub.BroadcastBalance("user-1", BalanceUpdate{AccountID: "acc-1", BalanceCents: 7500, Balance: "75.00"})

	for _, client := range []*Client{first, second} {
		select {
		case payload := <-client.send:
			var update BalanceUpdate
			if err := json.Unmarshal(payload, &update); err != nil {
				t.Fatalf("bad payload: %v", err)
			}
			if update.AccountID != "acc-1" || update.Balance != "75.00" {
				t.Fatalf("unexpected update: %#v", update)
			}
		default:
			t.Fatalf("expected update on client channel")
		}
	}
	select {
	case <-other.send:
		t.Fatalf("update leaked to another user")
	default:
	}
}

func TestBroadcastBalanceSkipsSlowClients(t *testing.T) {
	hub := NewHub()
	slow := &Client{send: make(chan []byte)}
	hub.Register("user-1", slow)

	// Must return immediately even though nobody is draining the channel.
	hub.BroadcastBalance("user-1", BalanceUpdate{AccountID: "acc-1"})
}

func TestUnregisterRemovesClient(t *testing.T) {
	hub := NewHub()
	client := newHubClient()
	hub.Register("user-1", client)
	hub.Unregister("user-1", client)

	hub.BroadcastBalance("user-1", BalanceUpdate{AccountID: "acc-1"})
	select {
	case <-client.send:
		t.Fatalf("unregistered client received update")
	default:
	}
}

func TestUnregisterUnknownClient(t *testing.T) {
	hub := NewHub()
	hub.Unregister("ghost", newHubClient())
}
