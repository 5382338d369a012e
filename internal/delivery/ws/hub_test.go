package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Vovarama1992/cinecampaign/internal/domain"
	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func nopLogger() *logger.ZapLogger {
	return logger.NewZapLogger(zap.NewNop().Sugar())
}

type fakeConn struct {
	mu     sync.Mutex
	msgs   [][]byte
	closed bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, data)
	return nil
}

func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.msgs)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) first() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.msgs[0]
}

// stuckConn never finishes a write until it is closed, like a peer whose
// TCP window stays at zero.
type stuckConn struct {
	once    sync.Once
	release chan struct{}
}

func newStuckConn() *stuckConn { return &stuckConn{release: make(chan struct{})} }

func (c *stuckConn) WriteMessage(int, []byte) error {
	<-c.release
	return errors.New("use of closed connection")
}

func (c *stuckConn) SetWriteDeadline(time.Time) error { return nil }

func (c *stuckConn) Close() error {
	c.once.Do(func() { close(c.release) })
	return nil
}

func (c *stuckConn) isClosed() bool {
	select {
	case <-c.release:
		return true
	default:
		return false
	}
}

func TestBroadcastEventRouting(t *testing.T) {
	hub := NewHub(nopLogger())

	campaignID := uuid.New()
	distID := uuid.New()
	otherDist := uuid.New()

	admin := &fakeConn{}
	owner := &fakeConn{}
	watcher := &fakeConn{}
	stranger := &fakeConn{}

	hub.Register(admin, AdminRoom)
	hub.Register(owner, DistributorRoom(distID), CampaignRoom(campaignID))
	hub.Register(watcher, CampaignRoom(campaignID))
	hub.Register(stranger, DistributorRoom(otherDist))

	hub.BroadcastEvent(models.Event{
		Type:          models.EventStatusChanged,
		CampaignID:    campaignID,
		DistributorID: distID,
	})

	require.Eventually(t, func() bool {
		return admin.count() == 1 && owner.count() == 1 && watcher.count() == 1
	}, time.Second, 5*time.Millisecond)

	// give a misrouted or duplicate write the chance to land
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, owner.count(), "one copy even when in two rooms")
	assert.Equal(t, 0, stranger.count())

	var ev models.Event
	require.NoError(t, json.Unmarshal(owner.first(), &ev))
	assert.Equal(t, models.EventStatusChanged, ev.Type)
}

func TestStalledClientDoesNotBlockOthers(t *testing.T) {
	hub := NewHub(nopLogger())
	distID := uuid.New()

	stuck := newStuckConn()
	healthy := &fakeConn{}
	hub.Register(stuck, AdminRoom)
	hub.Register(healthy, DistributorRoom(distID))

	total := sendBuffer + 5
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < total; i++ {
			hub.BroadcastEvent(models.Event{Type: models.EventStatusChanged, CampaignID: uuid.New(), DistributorID: distID})

			// let the healthy pump keep up so only the stalled queue overflows
			deadline := time.Now().Add(time.Second)
			for healthy.count() < i+1 && time.Now().Before(deadline) {
				time.Sleep(time.Millisecond)
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("broadcast blocked on a stalled connection")
	}

	assert.Equal(t, total, healthy.count())

	// the stalled client overflowed its queue and was dropped
	require.Eventually(t, stuck.isClosed, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, hub.Rooms(AdminRoom))
	assert.Equal(t, 1, hub.Rooms(DistributorRoom(distID)))
}

func TestWriteErrorDropsClient(t *testing.T) {
	hub := NewHub(nopLogger())
	room := CampaignRoom(uuid.New())

	broken := &failingConn{}
	hub.Register(broken, room)
	hub.SendToRoom(room, []byte("x"))

	require.Eventually(t, func() bool { return hub.Rooms(room) == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, broken.isClosed())
}

type failingConn struct {
	fakeConn
}

func (c *failingConn) WriteMessage(int, []byte) error {
	return errors.New("broken pipe")
}

func TestUnregisterClosesAndDropsRooms(t *testing.T) {
	hub := NewHub(nopLogger())
	conn := &fakeConn{}
	room := CampaignRoom(uuid.New())

	hub.Register(conn, room, AdminRoom)
	assert.Equal(t, 1, hub.Rooms(room))

	hub.Unregister(conn)
	assert.True(t, conn.isClosed())
	assert.Equal(t, 0, hub.Rooms(room))
	assert.Equal(t, 0, hub.Rooms(AdminRoom))

	// second call is a no-op
	hub.Unregister(conn)
	hub.SendToRoom(room, []byte("x"))
	assert.Equal(t, 0, conn.count())
}

type fakeAuth struct {
	principal models.Principal
}

func (f fakeAuth) ValidateToken(ctx context.Context, token string) (models.Principal, error) {
	if token != "good" {
		return models.Principal{}, errors.New("invalid token")
	}
	return f.principal, nil
}

type allowAll struct{}

func (allowAll) CheckAccess(context.Context, models.Principal, uuid.UUID) error { return nil }

type accessErr struct{ err error }

func (a accessErr) CheckAccess(context.Context, models.Principal, uuid.UUID) error { return a.err }

func TestWSHandlerAccessErrors(t *testing.T) {
	auth := fakeAuth{principal: models.Principal{UserID: uuid.New(), Role: models.RoleDistributor, DistributorID: uuid.New()}}

	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrForbidden, http.StatusForbidden},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		h := WSHandler(NewHub(nopLogger()), auth, accessErr{tc.err}, nopLogger())
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/ws?token=good&campaignID="+uuid.NewString(), nil)
		h(rec, req)
		assert.Equal(t, tc.want, rec.Code, tc.err.Error())
	}
}

func TestWSHandlerEndToEnd(t *testing.T) {
	hub := NewHub(nopLogger())
	distID := uuid.New()
	campaignID := uuid.New()

	auth := fakeAuth{principal: models.Principal{UserID: uuid.New(), Role: models.RoleDistributor, DistributorID: distID}}
	srv := httptest.NewServer(WSHandler(hub, auth, allowAll{}, nopLogger()))
	defer srv.Close()

	base := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(base+"?token=bad", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(base+"?token=good&campaignID="+campaignID.String(), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.Rooms(CampaignRoom(campaignID)) == 1 && hub.Rooms(DistributorRoom(distID)) == 1
	}, time.Second, 10*time.Millisecond)

	hub.BroadcastEvent(models.Event{Type: models.EventMessagePosted, CampaignID: campaignID, DistributorID: distID})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev models.Event
	require.NoError(t, json.Unmarshal(raw, &ev))
	assert.Equal(t, models.EventMessagePosted, ev.Type)
	assert.Equal(t, campaignID, ev.CampaignID)
}
