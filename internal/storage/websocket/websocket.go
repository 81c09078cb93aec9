package websocket

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/armada-sim/simcore/pkg/core"
	"github.com/armada-sim/simcore/pkg/streaming"
)

const defaultAckTimeout = 10 * time.Second

// Config holds WebSocket backend configuration.
type Config struct {
	URL        string
	Secret     string
	AckTimeout time.Duration
	Logger     *slog.Logger
}

// Backend streams run data over WebSocket to a collector.
// It implements storage.Backend but not storage.Exporter.
type Backend struct {
	conn      *connection
	cfg       Config
	nextRunID atomic.Uint64
}

// New creates a new WebSocket storage backend.
func New(cfg Config) *Backend {
	if cfg.AckTimeout <= 0 {
		cfg.AckTimeout = defaultAckTimeout
	}
	return &Backend{
		conn: newConnection(cfg.Logger),
		cfg:  cfg,
	}
}

// Init connects to the WebSocket server.
func (b *Backend) Init() error {
	return b.conn.dial(b.cfg.URL, b.cfg.Secret)
}

// Close disconnects from the WebSocket server.
func (b *Backend) Close() error {
	return b.conn.close()
}

// sendEnvelope pushes a message to the write loop (fire-and-forget).
func (b *Backend) sendEnvelope(msgType string, payload any) error {
	data, err := streaming.Marshal(msgType, payload)
	if err != nil {
		return err
	}
	b.conn.send(data)
	return nil
}

// StartRun assigns a run id when none is set, sends the run and waits for the ack.
func (b *Backend) StartRun(run *core.Run) error {
	if run.ID == 0 {
		run.ID = uint(b.nextRunID.Add(1))
	}

	data, err := streaming.Marshal(streaming.TypeStartRun, streaming.StartRunPayload{Run: run})
	if err != nil {
		return err
	}
	b.conn.setReplay(data)

	return b.conn.sendAndWait(data, streaming.TypeStartRun, b.cfg.AckTimeout)
}

// EndRun sends end_run and waits for the ack.
func (b *Backend) EndRun(summary *core.RunSummary) error {
	data, err := streaming.Marshal(streaming.TypeEndRun, streaming.EndRunPayload{Summary: summary})
	if err == nil {
		err = b.conn.sendAndWait(data, streaming.TypeEndRun, b.cfg.AckTimeout)
	}

	// Clear cached state regardless of error.
	b.conn.setReplay(nil)
	return err
}

func (b *Backend) AddVehicle(v *core.Vehicle) error {
	return b.sendEnvelope(streaming.TypeAddVehicle, v)
}

func (b *Backend) RecordVehicleState(s *core.VehicleState) error {
	return b.sendEnvelope(streaming.TypeVehicleState, s)
}

func (b *Backend) RecordAttackEvent(e *core.AttackEvent) error {
	return b.sendEnvelope(streaming.TypeAttackEvent, e)
}

func (b *Backend) RecordNuclearEvent(e *core.NuclearStrikeEvent) error {
	return b.sendEnvelope(streaming.TypeNuclearStrike, e)
}

func (b *Backend) RecordKillEvent(e *core.KillEvent) error {
	return b.sendEnvelope(streaming.TypeKillEvent, e)
}
