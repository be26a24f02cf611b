package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

const defaultSendBuffer = 16

// Observer is one live subscription to a room's state changes.
// Messages are queued without blocking; a full queue drops the message.
type Observer struct {
	send chan []byte
	done chan struct{}

	closeOnce sync.Once
}

func NewObserver(buffer int) *Observer {
	if buffer <= 0 {
		buffer = defaultSendBuffer
	}

	return &Observer{
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

// Messages - queued state updates, drained by the write pump.
func (that *Observer) Messages() <-chan []byte {
	return that.send
}

// Done - closed once the observer is closed.
func (that *Observer) Done() <-chan struct{} {
	return that.done
}

func (that *Observer) Close() {
	that.closeOnce.Do(func() {
		close(that.done)
	})
}

func (that *Observer) IsClosed() bool {
	select {
	case <-that.done:
		return true
	default:
		return false
	}
}

// enqueue - reports false when the observer is closed or its queue is full.
func (that *Observer) enqueue(message []byte) bool {
	if that.IsClosed() {
		return false
	}

	select {
	case that.send <- message:
		return true
	default:
		return false
	}
}

// Hub keeps the observers of every room.
type Hub struct {
	logger *slog.Logger

	mu    sync.Mutex
	rooms map[string]map[*Observer]struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger.With("component", "hub"),
		rooms:  make(map[string]map[*Observer]struct{}),
	}
}

// Attach - registers obs under roomID and queues current as its first message when the room exists.
func (that *Hub) Attach(roomID string, obs *Observer, current *entity.GameState) {
	log := that.logger.With("method", "Attach", "roomID", roomID)

	that.mu.Lock()
	defer that.mu.Unlock()

	observers, ok := that.rooms[roomID]
	if !ok {
		observers = make(map[*Observer]struct{})
		that.rooms[roomID] = observers
	}
	observers[obs] = struct{}{}

	if current == nil {
		log.Debug("observer attached to unknown room")
		return
	}

	message, err := json.Marshal(current)
	if err != nil {
		log.Error("failed to marshal game", "error", err)
		return
	}

	if !obs.enqueue(message) {
		log.Warn("failed to queue initial state")
	}
}

// Detach - removes obs; a room without observers is forgotten.
func (that *Hub) Detach(roomID string, obs *Observer) {
	that.mu.Lock()
	defer that.mu.Unlock()

	observers, ok := that.rooms[roomID]
	if !ok {
		return
	}

	delete(observers, obs)
	if len(observers) == 0 {
		delete(that.rooms, roomID)
	}
}

// Broadcast - queues game for every observer of roomID, skipping those that cannot take it.
func (that *Hub) Broadcast(roomID string, game entity.GameState) {
	log := that.logger.With("method", "Broadcast", "roomID", roomID)

	message, err := json.Marshal(game)
	if err != nil {
		log.Error("failed to marshal game", "error", err)
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	skipped := 0
	for obs := range that.rooms[roomID] {
		if !obs.enqueue(message) {
			skipped++
		}
	}

	if skipped > 0 {
		log.Warn("observers skipped", "count", skipped)
	}
}

// CloseRoom - closes and forgets every observer of roomID.
func (that *Hub) CloseRoom(roomID string) {
	that.mu.Lock()
	observers := that.rooms[roomID]
	delete(that.rooms, roomID)
	that.mu.Unlock()

	for obs := range observers {
		obs.Close()
	}
}

// Observers - number of observers attached to roomID.
func (that *Hub) Observers(roomID string) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.rooms[roomID])
}

// Rooms - number of rooms with at least one observer.
func (that *Hub) Rooms() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.rooms)
}
