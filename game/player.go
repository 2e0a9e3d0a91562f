package game

import (
	"context"
	"encoding/json"
	"errors"

	"golang.org/x/time/rate"
)

var ErrInboxFull = errors.New("player inbox full")

type player struct {
	id          string
	inbox       chan []byte
	pingChan    chan struct{}
	hubChan     chan<- clientPacketEnvelope
	removeMe    chan<- Player
	rateLimiter *rate.Limiter
	ctx         context.Context
	cancelCtx   context.CancelFunc
}

func NewPlayer(id string, hubChan chan<- clientPacketEnvelope, removeMe chan<- Player) *player {
	ctx, cancel := context.WithCancel(context.Background())
	return &player{
		id:          id,
		inbox:       make(chan []byte, 256),
		pingChan:    make(chan struct{}, 1),
		hubChan:     hubChan,
		removeMe:    removeMe,
		rateLimiter: rate.NewLimiter(1, 5),
		ctx:         ctx,
		cancelCtx:   cancel,
	}
}

func (p *player) Id() string {
	return p.id
}

// Send queues a packet for the write pump. Never blocks: a client that
// stopped draining its socket loses packets instead of stalling an actor.
func (p *player) Send(data []byte) error {
	select {
	case p.inbox <- data:
		return nil
	default:
		return ErrInboxFull
	}
}

func (p *player) Ping() error {
	select {
	case p.pingChan <- struct{}{}:
		return nil
	default:
		return nil
	}
}

func (p *player) CancelAndRelease() {
	p.cancelCtx()
}

func (p *player) notifyRemoval() {
	select {
	case p.removeMe <- p:
	case <-p.ctx.Done():
	}
}

// ReadPump decodes inbound envelopes and forwards them to the hub. Control
// events are rate limited per connection; draw traffic is not, a stroke burst
// is the normal case.
func (p *player) ReadPump(socket NetworkSession) {
	defer socket.Close()

	for {
		data, err := socket.Read()
		if err != nil {
			p.notifyRemoval()
			return
		}

		var packet clientPacket
		if err := json.Unmarshal(data, &packet); err != nil || packet.Event == "" {
			p.Send(MakePacketError(ErrMalformedEvent.Error()))
			continue
		}

		if packet.Event != EVENT_DRAW && !p.rateLimiter.Allow() {
			continue
		}

		select {
		case p.hubChan <- clientPacketEnvelope{event: packet.Event, data: packet.Data, from: p}:
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *player) WritePump(socket NetworkSession) {
	defer socket.Close()

	for {
		select {
		case data, ok := <-p.inbox:
			if !ok {
				return
			}
			if err := socket.Write(data); err != nil {
				p.notifyRemoval()
				return
			}
		case _, ok := <-p.pingChan:
			if !ok {
				return
			}
			if err := socket.Ping(); err != nil {
				p.notifyRemoval()
				return
			}
		case <-p.ctx.Done():
			return
		}
	}
}
