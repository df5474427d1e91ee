package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/memogen/internal/memo"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Event types sent on the generate stream.
const (
	EventSectionStarted  = "section_started"
	EventSectionFinished = "section_finished"
	EventDone            = "done"
	EventError           = "error"
)

type event struct {
	Type    string        `json:"type"`
	Index   int           `json:"index"`
	Name    string        `json:"name,omitempty"`
	Section *memo.Section `json:"section,omitempty"`
	Error   *apiError     `json:"error,omitempty"`
	Session *memo.View    `json:"session,omitempty"`
}

// wsObserver forwards section progress to one connection. Writes are
// serialized because sections may finish on several goroutines.
type wsObserver struct {
	mu   sync.Mutex
	conn *websocket.Conn
	err  error
}

func (o *wsObserver) send(ev event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return
	}
	_ = o.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := o.conn.WriteJSON(ev); err != nil {
		o.err = err
		log.Debug().Err(err).Msg("websocket write failed")
	}
}

func (o *wsObserver) SectionStarted(index int, name string) {
	o.send(event{Type: EventSectionStarted, Index: index, Name: name})
}

func (o *wsObserver) SectionFinished(index int, s memo.Section) {
	o.send(event{Type: EventSectionFinished, Index: index, Name: s.Name, Section: &s})
}

// generateWebSocket reruns generation on an extracted session and streams
// progress. Closing the connection cancels the remaining sections.
func (s *Server) generateWebSocket(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// Read pump: any read error means the peer went away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	obs := &wsObserver{conn: conn}
	err = s.orch.Regenerate(ctx, sess, obs)
	view := sess.Snapshot()
	if err != nil {
		code, ok := preconditionCode(err)
		if !ok {
			code = ErrorInternalError
		}
		obs.send(event{Type: EventError, Error: &apiError{Code: code, Message: err.Error()}, Session: &view})
	} else {
		obs.send(event{Type: EventDone, Session: &view})
	}

	obs.mu.Lock()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	obs.mu.Unlock()
}
