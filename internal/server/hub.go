package server

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/app"
)

// clientBuffer is how many messages a slow subscriber may lag before
// messages to it are dropped.
const clientBuffer = 8

// Hub fans out what the poll loop publishes: JPEG preview frames and tick
// reports. Nothing but the poll loop touches the camera.
type Hub struct {
	mu     sync.Mutex
	frames map[chan []byte]struct{}
	ticks  map[chan []byte]struct{}
	last   []byte
	log    zerolog.Logger
}

// NewHub creates an empty Hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		frames: make(map[chan []byte]struct{}),
		ticks:  make(map[chan []byte]struct{}),
		log:    log.With().Str("component", "hub").Logger(),
	}
}

// PublishFrame sends a JPEG frame to every stream subscriber.
func (h *Hub) PublishFrame(jpeg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = jpeg
	broadcast(h.frames, jpeg)
}

// PublishTick sends a tick report to every WebSocket subscriber.
func (h *Hub) PublishTick(r app.TickReport) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.ticks) == 0 {
		return
	}

	msg, err := json.Marshal(r)
	if err != nil {
		h.log.Debug().Err(err).Msg("tick report not encodable")
		return
	}
	broadcast(h.ticks, msg)
}

// LastFrame returns the most recent frame, or nil.
func (h *Hub) LastFrame() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// SubscribeFrames returns a frame channel and its cancel func.
func (h *Hub) SubscribeFrames() (<-chan []byte, func()) {
	return h.subscribe(h.frames)
}

// SubscribeTicks returns a channel of JSON tick reports and its cancel func.
func (h *Hub) SubscribeTicks() (<-chan []byte, func()) {
	return h.subscribe(h.ticks)
}

// Subscribers returns the number of frame and tick subscribers.
func (h *Hub) Subscribers() (frames, ticks int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.frames), len(h.ticks)
}

func (h *Hub) subscribe(set map[chan []byte]struct{}) (<-chan []byte, func()) {
	ch := make(chan []byte, clientBuffer)

	h.mu.Lock()
	set[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(set, ch)
			h.mu.Unlock()
		})
	}
}

func broadcast(set map[chan []byte]struct{}, msg []byte) {
	for ch := range set {
		select {
		case ch <- msg:
		default:
		}
	}
}

// WantsFrames reports whether any stream client is connected.
func (h *Hub) WantsFrames() bool {
	frames, _ := h.Subscribers()
	return frames > 0
}
