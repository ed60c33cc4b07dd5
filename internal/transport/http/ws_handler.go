package http

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"geoquiz-service/internal/domain"
	"geoquiz-service/internal/engine"
)

// WSHandler drives a quiz session over a websocket. The server owns the
// per-question countdown and the reveal pause; the client only ever sends
// intent (start, answer, next) and renders what it is pushed.
type WSHandler struct {
	service  *engine.Service
	upgrader websocket.Upgrader
}

func NewWSHandler(service *engine.Service) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

// publicQuestion is the wire view of a prompt; the correct answer and
// explanation never leave the server before the answer lands.
type publicQuestion struct {
	ID         string              `json:"id"`
	Kind       domain.QuestionKind `json:"kind"`
	Prompt     string              `json:"prompt"`
	Options    []string            `json:"options"`
	Difficulty domain.Difficulty   `json:"difficulty"`
	Points     int                 `json:"points"`
}

type questionPayload struct {
	SessionID        string         `json:"sessionId"`
	Index            int            `json:"index"`
	Total            int            `json:"total"`
	Score            int            `json:"score"`
	TimeLimitSeconds int            `json:"timeLimitSeconds,omitempty"`
	Question         publicQuestion `json:"question"`
}

type resultPayload struct {
	QuestionID    string         `json:"questionId"`
	Outcome       domain.Outcome `json:"outcome"`
	Correct       bool           `json:"correct"`
	CorrectAnswer string         `json:"correctAnswer"`
	Explanation   string         `json:"explanation,omitempty"`
	UserAnswer    string         `json:"userAnswer"`
	Score         int            `json:"score"`
}

type summaryPayload struct {
	Summary domain.SessionSummary `json:"summary"`
	Stats   domain.UserStats      `json:"stats"`
}

// playState tracks the connection's live session across the read loop and the
// event forwarder goroutine.
type playState struct {
	mu        sync.Mutex
	sessionID string
	cancelSub func()
	done      chan struct{}
}

func (p *playState) set(sessionID string, cancel func(), done chan struct{}) {
	p.mu.Lock()
	p.sessionID, p.cancelSub, p.done = sessionID, cancel, done
	p.mu.Unlock()
}

func (p *playState) current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sessionID
}

// clear detaches the session if id still owns the slot and returns its cancel.
func (p *playState) clear(id string) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id != "" && p.sessionID != id {
		return nil
	}
	cancel := p.cancelSub
	p.sessionID, p.cancelSub = "", nil
	return cancel
}

func (p *playState) wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

// ServeWS upgrades the request and runs the play loop until the client
// disconnects. An unfinished session is abandoned on disconnect.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	state := &playState{}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		switch inbound.Type {
		case "start":
			h.handleStart(r, state, send, closeSignals, userID, inbound.Payload)

		case "answer":
			sessionID := state.current()
			if sessionID == "" {
				send <- errMsg("no active session")
				continue
			}
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errMsg("invalid answer payload")
				continue
			}
			// Duplicate or mistimed submissions are rejected, never fatal.
			if _, err := h.service.SubmitAnswer(sessionID, payload.Answer); err != nil {
				send <- errMsg(err.Error())
			}

		case "next":
			if sessionID := state.current(); sessionID != "" {
				h.service.Advance(sessionID)
			}

		default:
			send <- errMsg("unsupported message type")
		}
	}

	close(closeSignals)
	state.wait()
	sessionID := state.current()
	if cancel := state.clear(""); cancel != nil {
		cancel()
	}
	if sessionID != "" {
		h.service.Abandon(sessionID)
	}
	close(send)
	<-writerDone
}

func (h *WSHandler) handleStart(r *http.Request, state *playState, send chan outboundMessage[any], closeSignals chan struct{}, userID string, raw json.RawMessage) {
	if state.current() != "" {
		send <- errMsg("session already in progress")
		return
	}
	var settings domain.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		send <- errMsg("invalid settings payload")
		return
	}
	snap, err := h.service.StartSession(r.Context(), userID, settings)
	if err != nil {
		send <- errMsg(err.Error())
		return
	}
	events, cancel, err := h.service.Subscribe(snap.ID)
	if err != nil {
		h.service.Abandon(snap.ID)
		send <- errMsg(err.Error())
		return
	}
	done := make(chan struct{})
	state.set(snap.ID, cancel, done)

	// The first prompt was broadcast before this subscription existed.
	send <- outboundMessage[any]{Type: "question", Payload: questionFrom(snap)}

	go func() {
		defer close(done)
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				msg, final := h.outboundFor(r, event)
				select {
				case send <- msg:
				case <-closeSignals:
					return
				}
				if final {
					if cancel := state.clear(event.Snapshot.ID); cancel != nil {
						cancel()
					}
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()
}

// outboundFor maps a session event to its wire message. The completed event
// finalizes the session, folding the result into the user's statistics.
func (h *WSHandler) outboundFor(r *http.Request, event engine.Event) (outboundMessage[any], bool) {
	switch event.Type {
	case engine.EventResult:
		return outboundMessage[any]{Type: "result", Payload: resultFrom(event)}, false
	case engine.EventCompleted:
		summary, stats, err := h.service.Finish(r.Context(), event.Snapshot.ID)
		if err != nil {
			return errMsg(err.Error()), true
		}
		return outboundMessage[any]{Type: "summary", Payload: summaryPayload{Summary: summary, Stats: stats}}, true
	default:
		return outboundMessage[any]{Type: "question", Payload: questionFrom(event.Snapshot)}, false
	}
}

func errMsg(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}

func questionFrom(snap domain.SessionSnapshot) questionPayload {
	payload := questionPayload{
		SessionID:        snap.ID,
		Index:            snap.CurrentIndex,
		Total:            len(snap.Questions),
		Score:            snap.Score,
		TimeLimitSeconds: snap.Settings.TimeLimitSeconds,
	}
	if snap.CurrentIndex < len(snap.Questions) {
		q := snap.Questions[snap.CurrentIndex]
		payload.Question = publicQuestion{
			ID:         q.ID,
			Kind:       q.Kind,
			Prompt:     q.Prompt,
			Options:    q.Options,
			Difficulty: q.Difficulty,
			Points:     q.Points,
		}
	}
	return payload
}

func resultFrom(event engine.Event) resultPayload {
	payload := resultPayload{Score: event.Snapshot.Score}
	if event.Record == nil {
		return payload
	}
	payload.QuestionID = event.Record.QuestionID
	payload.Outcome = event.Record.Outcome
	payload.Correct = event.Record.IsCorrect
	payload.UserAnswer = event.Record.UserAnswer
	for _, q := range event.Snapshot.Questions {
		if q.ID == event.Record.QuestionID {
			payload.CorrectAnswer = q.CorrectAnswer
			payload.Explanation = q.Explanation
			break
		}
	}
	return payload
}
