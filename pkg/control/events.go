package control

import (
	"encoding/json"
	"io"
	"net"
	"net/http"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/entrhq/hypergx/pkg/settings"
)

// Event types carried on the event stream.
const (
	EventSnapshot  = "snapshot"
	EventTabs      = "tabs"
	EventSettings  = "settings"
	EventSpeedDial = "speed_dial"
)

// Event is one message on the event stream.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type snapshotPayload struct {
	tabsPayload
	Settings settings.State `json:"settings"`
}

// serveEvents upgrades to a websocket and streams change events until the
// client goes away or the server closes. The first message is a full
// snapshot.
func (s *Server) serveEvents(w http.ResponseWriter, r *http.Request) {
	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		s.logger.Warnf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	stream := s.broker.Subscribe()
	defer stream.Close()
	client := r.RemoteAddr
	s.logger.Debugf("event client %s connected (%d total)", client, s.broker.Len())

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		drainClient(conn)
	}()

	snap := snapshotPayload{tabsPayload: s.tabsSnapshot(), Settings: s.store.State()}
	if err := writeEvent(conn, Event{Type: EventSnapshot, Data: snap}); err != nil {
		s.logger.Debugf("event client %s: %v", client, err)
		return
	}

	for {
		select {
		case <-gone:
			s.logger.Debugf("event client %s disconnected (%d events dropped)", client, stream.Dropped())
			return
		case evt, ok := <-stream.C:
			if !ok {
				body := ws.NewCloseFrameBody(ws.StatusGoingAway, "server closing")
				_ = ws.WriteFrame(conn, ws.NewCloseFrame(body))
				return
			}
			if err := writeEvent(conn, evt); err != nil {
				s.logger.Debugf("event client %s: %v", client, err)
				return
			}
		}
	}
}

// drainClient discards client frames until the client closes or the
// connection fails. It never writes, so the stream loop owns the
// connection's write side.
func drainClient(conn net.Conn) {
	for {
		hdr, err := ws.ReadHeader(conn)
		if err != nil {
			return
		}
		if _, err := io.CopyN(io.Discard, conn, hdr.Length); err != nil {
			return
		}
		if hdr.OpCode == ws.OpClose {
			return
		}
	}
}

func writeEvent(conn net.Conn, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return wsutil.WriteServerText(conn, data)
}
