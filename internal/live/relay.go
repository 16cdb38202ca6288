package live

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"
)

// ScoreboardSubject is the NATS subject scoreboards are relayed on.
const ScoreboardSubject = "football.scoreboard"

// natsConn is the part of *nats.Conn the relay uses.
type natsConn interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// envelope wraps a relayed scoreboard with the instance that produced it.
type envelope struct {
	Origin     string     `msgpack:"origin"`
	Scoreboard Scoreboard `msgpack:"scoreboard"`
}

// Relay shares scoreboards between instances over NATS, so observers connected
// to any instance see the match driven on another.
type Relay struct {
	id    string
	conn  natsConn
	board *Board
	sub   *nats.Subscription
	stop  func()
}

// Connect dials NATS with reconnects enabled.
func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("football-tracker"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return nc, nil
}

// NewRelay publishes local board updates and feeds remote ones into the board.
func NewRelay(conn natsConn, board *Board) (*Relay, error) {
	r := &Relay{id: uuid.New().String(), conn: conn, board: board}

	sub, err := conn.Subscribe(ScoreboardSubject, r.receive)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", ScoreboardSubject, err)
	}
	r.sub = sub
	r.stop = board.Listen(r.send)
	log.Info("Scoreboard relay started", "instance", r.id, "subject", ScoreboardSubject)
	return r, nil
}

func (r *Relay) send(u Update) {
	if u.Remote {
		return
	}
	data, err := msgpack.Marshal(envelope{Origin: r.id, Scoreboard: u.Scoreboard})
	if err != nil {
		log.Error("Failed to encode scoreboard", "error", err)
		return
	}
	if err := r.conn.Publish(ScoreboardSubject, data); err != nil {
		log.Warn("Failed to relay scoreboard", "error", err)
	}
}

func (r *Relay) receive(msg *nats.Msg) {
	var env envelope
	if err := msgpack.Unmarshal(msg.Data, &env); err != nil {
		log.Error("Failed to decode relayed scoreboard", "error", err)
		return
	}
	if env.Origin == r.id {
		return
	}
	r.board.Publish(env.Scoreboard, true)
}

func (r *Relay) Close() {
	r.stop()
	if r.sub != nil {
		if err := r.sub.Unsubscribe(); err != nil {
			log.Warn("Failed to unsubscribe scoreboard relay", "error", err)
		}
	}
}
