package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startFeed(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	router := gin.New()
	router.GET("/feed", NewHandler(hub, zerolog.Nop()).ServeFeed)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *gws.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/feed" + query
	conn, _, err := gws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestFeedDeliversToTopicSubscribers(t *testing.T) {
	hub, srv := startFeed(t)

	all := dial(t, srv, "")
	stress := dial(t, srv, "?category=stress")
	require.Eventually(t, func() bool {
		return hub.ClientsCount(TopicAll) == 1 && hub.ClientsCount(CategoryTopic("stress")) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish([]string{TopicAll, CategoryTopic("stress")}, "post_created", map[string]string{"id": "post_1"})

	for _, conn := range []*gws.Conn{all, stress} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var event struct {
			Type    string            `json:"type"`
			Topic   string            `json:"topic"`
			Payload map[string]string `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(data, &event))
		assert.Equal(t, "post_created", event.Type)
		assert.Equal(t, "post_1", event.Payload["id"])
	}
}

func TestFeedSkipsOtherCategories(t *testing.T) {
	hub, srv := startFeed(t)

	exams := dial(t, srv, "?category=exams")
	require.Eventually(t, func() bool {
		return hub.ClientsCount(CategoryTopic("exams")) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish([]string{TopicAll, CategoryTopic("stress")}, "post_created", "x")

	require.NoError(t, exams.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := exams.ReadMessage()
	assert.Error(t, err)
}

func TestClientUnregistersOnClose(t *testing.T) {
	hub, srv := startFeed(t)

	conn := dial(t, srv, "")
	require.Eventually(t, func() bool { return hub.ClientsCount(TopicAll) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.ClientsCount(TopicAll) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestPublishDoesNotBlockWithoutRunner(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Publish([]string{TopicAll}, "post_created", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked")
	}
}

func TestStoppedHubRejectsNewClients(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zerolog.Nop())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	done := make(chan struct{})
	go func() {
		assert.False(t, hub.Register(&Client{hub: hub, topic: TopicAll, send: make(chan []byte, 1)}))
		hub.Unregister(&Client{hub: hub, topic: TopicAll})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("register blocked on a stopped hub")
	}

	router := gin.New()
	router.GET("/feed", NewHandler(hub, zerolog.Nop()).ServeFeed)
	srv := httptest.NewServer(router)
	defer srv.Close()

	conn := dial(t, srv, "")
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, gws.IsCloseError(err, gws.CloseGoingAway), "unexpected error: %v", err)
	assert.Equal(t, 0, hub.ClientsCount(TopicAll))
}
