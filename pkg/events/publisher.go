// Package events publishes engine output to NATS for external
// consumers (overlays, timing screens). Publishing is fire-and-forget:
// a missing or slow broker never stalls the simulation.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/pobstone/racesim/log"
	"github.com/pobstone/racesim/pkg/model"
)

type Publisher interface {
	PublishEvent(sessionKey string, ev model.Event)
	PublishSnapshot(sessionKey string, snap *model.RaceSnapshot)
	Close()
}

type NatsPublisher struct {
	conn *nats.Conn
	l    *log.Logger
}

func NewNatsPublisher(url string) (*NatsPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("racesim"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &NatsPublisher{conn: conn, l: log.Default().Named("events")}, nil
}

// PublishEvent sends one engine event on
// racesim.<session>.events.<kind>.
func (p *NatsPublisher) PublishEvent(sessionKey string, ev model.Event) {
	subject := fmt.Sprintf("racesim.%s.events.%s", sessionKey, ev.EventKind())
	p.publish(subject, ev)
}

// PublishSnapshot sends the current race state on
// racesim.<session>.snapshot.
func (p *NatsPublisher) PublishSnapshot(sessionKey string, snap *model.RaceSnapshot) {
	p.publish(fmt.Sprintf("racesim.%s.snapshot", sessionKey), snap)
}

func (p *NatsPublisher) publish(subject string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		p.l.Error("marshaling payload", log.String("subject", subject), log.ErrorField(err))
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		p.l.Warn("publish failed", log.String("subject", subject), log.ErrorField(err))
	}
}

func (p *NatsPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.l.Warn("drain failed", log.ErrorField(err))
	}
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishEvent(string, model.Event)            {}
func (NopPublisher) PublishSnapshot(string, *model.RaceSnapshot) {}
func (NopPublisher) Close()                                      {}
