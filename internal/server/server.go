// Package server runs the wildfire automaton headless at a fixed tick rate,
// streams it to websocket spectators and keeps periodic snapshots.
package server

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"wildfire-ca/internal/config"
	"wildfire-ca/internal/persist"
	"wildfire-ca/internal/story"
	"wildfire-ca/internal/stream"
	"wildfire-ca/internal/wildfire"
)

// Server owns the Sim. All mutation happens on the goroutine running Run;
// HTTP handlers hand work over through the command channel.
type Server struct {
	cfg     config.ServerConfig
	sim     *wildfire.Sim
	session *story.Session
	hub     *stream.Hub
	store   persist.Storage
	log     *zap.Logger

	tickEvery time.Duration
	commands  chan command
}

type command struct {
	apply func(*wildfire.Sim) any
	reply chan any
}

// New wires a server around sim. store may be nil to disable snapshots and
// level may be nil for free play.
func New(cfg config.ServerConfig, sim *wildfire.Sim, level *story.Level, store persist.Storage, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	tps := sim.Config().TPS
	if tps <= 0 {
		tps = wildfire.DefaultConfig().TPS
	}
	s := &Server{
		cfg:       cfg,
		sim:       sim,
		hub:       stream.NewHub(log.Named("stream")),
		store:     store,
		log:       log,
		tickEvery: time.Second / time.Duration(tps),
		commands:  make(chan command),
	}
	if level != nil {
		session, err := story.NewSession(*level, sim, log.Named("story"))
		if err != nil {
			return nil, err
		}
		s.session = session
	}
	s.publish()
	return s, nil
}

// Hub exposes the spectator hub.
func (s *Server) Hub() *stream.Hub { return s.hub }

// Resume replaces the running state with the named snapshot. It must be called
// before Run.
func (s *Server) Resume(ctx context.Context, name string) error {
	if s.store == nil {
		return errors.New("snapshots disabled")
	}
	snap, err := s.store.Load(ctx, name)
	if err != nil {
		return err
	}
	if err := snap.RestoreInto(s.sim); err != nil {
		return err
	}
	s.log.Info("resumed snapshot", zap.String("name", name), zap.Uint64("tick", snap.Tick))
	s.publish()
	return nil
}

// Run ticks the automaton until ctx is cancelled, then writes a final
// snapshot.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tickEvery)
	defer ticker.Stop()

	var snapshots <-chan time.Time
	if s.store != nil && s.cfg.SnapshotInterval > 0 {
		st := time.NewTicker(s.cfg.SnapshotInterval)
		defer st.Stop()
		snapshots = st.C
	}

	s.log.Info("tick loop started", zap.Duration("every", s.tickEvery))
	for {
		select {
		case <-ctx.Done():
			s.hub.Close()
			// ctx is already done, the final write needs its own deadline
			saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return s.Snapshot(saveCtx)
		case <-ticker.C:
			s.Tick()
		case cmd := <-s.commands:
			cmd.reply <- cmd.apply(s.sim)
			s.sim.Sync()
			s.publish()
		case <-snapshots:
			if err := s.Snapshot(ctx); err != nil {
				s.log.Warn("periodic snapshot failed", zap.Error(err))
			}
		}
	}
}

// Tick advances the level script and the automaton by one step and
// publishes the result. A finished level stops ticking.
func (s *Server) Tick() {
	if s.session != nil {
		prev := s.session.Outcome()
		s.session.Advance(s.tickEvery.Seconds())
		if out := s.session.Outcome(); out != story.Playing {
			if prev == story.Playing {
				s.log.Info("level finished", zap.String("level", s.session.Level().Name), zap.Stringer("outcome", out))
			}
			s.sim.Sync()
			s.publish()
			return
		}
	}
	s.sim.Step()
	s.publish()
}

// Outcome reports the level result, or Playing in free play.
func (s *Server) Outcome() story.Outcome {
	if s.session == nil {
		return story.Playing
	}
	return s.session.Outcome()
}

// Snapshot writes the current state under the configured name.
func (s *Server) Snapshot(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	snap := persist.Capture(s.cfg.SnapshotName, s.sim)
	if err := s.store.Save(ctx, snap); err != nil {
		return err
	}
	s.log.Debug("snapshot saved", zap.String("name", snap.Name), zap.Uint64("tick", snap.Tick))
	return nil
}

// Do runs fn on the tick goroutine and returns its result.
func (s *Server) Do(ctx context.Context, fn func(*wildfire.Sim) any) (any, error) {
	cmd := command{apply: fn, reply: make(chan any, 1)}
	select {
	case s.commands <- cmd:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case v := <-cmd.reply:
		return v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Server) publish() {
	key := stream.Keyframe(s.sim)
	delta := stream.Delta(s.sim)
	if out := s.Outcome(); out != story.Playing {
		key.Outcome = out.String()
		delta.Outcome = out.String()
	}
	if err := s.hub.Publish(key, delta); err != nil {
		s.log.Error("publish failed", zap.Error(err))
	}
}
