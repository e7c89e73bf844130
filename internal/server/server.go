package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"worldforge/internal/chunk"
	"worldforge/internal/config"
	"worldforge/internal/environment"
	"worldforge/internal/journal"
	"worldforge/internal/network"
	"worldforge/internal/pipeline"
	"worldforge/internal/world"
)

// maxSummaryBatch bounds the summaries sent in one broadcast.
const maxSummaryBatch = 256

type Server struct {
	cfg        *config.Config
	world      *world.Manager
	dispatcher *pipeline.Dispatcher
	director   *environment.Director
	net        *network.Server
	journal    *journal.Journal
	log        *slog.Logger

	dirtyMu         sync.Mutex
	dirtyChunks     map[chunk.Coord]struct{}
	dirtyChunkQueue []chunk.Coord
	pendingEvents   []network.EventApplied
}

func New(cfg *config.Config, log *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		cfg:         cfg,
		dispatcher:  pipeline.New(cfg, log.With("component", "pipeline")),
		log:         log,
		dirtyChunks: make(map[chunk.Coord]struct{}),
	}

	listeners := world.Listeners{s}
	if cfg.Server.JournalDir != "" {
		s.journal = journal.Open(cfg.Server.JournalDir, log.With("component", "journal"))
		listeners = append(listeners, s.journal)
	}

	manager, err := world.NewManager(cfg, s.dispatcher,
		world.WithLogger(log.With("component", "world")),
		world.WithListener(listeners),
	)
	if err != nil {
		return nil, err
	}
	s.world = manager

	var env *environment.Environment
	if cfg.Environment.Enabled {
		env = environment.New(cfg)
	}
	var script *environment.Script
	if cfg.Server.ScriptPath != "" {
		script, err = environment.LoadScript(cfg.Server.ScriptPath)
		if err != nil {
			return nil, err
		}
	}
	s.director = environment.NewDirector(env, script, manager, log.With("component", "environment"))

	if cfg.Server.Listen != "" {
		s.net, err = network.NewServer(cfg.Server, log.With("component", "network"))
		if err != nil {
			return nil, err
		}
		s.registerHandlers()
	}
	return s, nil
}

// World exposes the chunk manager.
func (s *Server) World() *world.Manager {
	return s.world
}

func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.closeJournal()

	s.world.SetViewpoint(mgl64.Vec3(s.cfg.Server.Spawn))
	s.log.Info("world server starting",
		"id", s.cfg.Server.ID,
		"spawn", s.cfg.Server.Spawn,
		"chunkSize", s.cfg.World.ChunkSize,
		"resolution", s.cfg.World.BaseResolution,
	)

	var netDone chan struct{}
	if s.net != nil {
		netDone = make(chan struct{})
		go func() {
			defer close(netDone)
			if err := s.net.ListenAndServe(ctx, s.cfg.Server.Listen); err != nil && ctx.Err() == nil {
				s.log.Error("observer endpoint stopped", "err", err)
				cancel()
			}
		}()
	}

	tickTicker := time.NewTicker(s.cfg.Server.TickRate.Duration())
	defer tickTicker.Stop()

	broadcastTicker := time.NewTicker(s.cfg.Server.BroadcastRate.Duration())
	defer broadcastTicker.Stop()

	envRate := s.cfg.Server.EnvironmentRate.Duration()
	envTicker := time.NewTicker(envRate)
	defer envTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			if netDone != nil {
				<-netDone
			}
			return ctx.Err()
		case <-tickTicker.C:
			s.tick(ctx)
		case <-broadcastTicker.C:
			s.broadcastChunkSummaries()
			s.flushEvents()
			s.flushJournal()
		case <-envTicker.C:
			s.stepEnvironment(envRate)
		}
	}
}

func (s *Server) tick(ctx context.Context) {
	if err := s.world.Tick(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.log.Error("world tick failed", "err", err)
	}
}

func (s *Server) stepEnvironment(delta time.Duration) {
	state, err := s.director.Step(delta)
	if err != nil {
		s.log.Warn("environment events rejected", "err", err)
	}
	if s.net != nil && s.cfg.Environment.Enabled {
		if _, err := s.net.Broadcast(network.MessageEnvironment, state); err != nil {
			s.log.Warn("broadcast environment", "err", err)
		}
	}
	stats := s.world.Stats()
	s.log.Debug("world stats",
		"active", stats.Active,
		"complete", stats.Complete,
		"cached", stats.Cached,
		"near", stats.NearQueue,
		"far", stats.FarQueue,
		"events", stats.StoredEvents,
	)
}

func (s *Server) flushJournal() {
	if s.journal == nil {
		return
	}
	if err := s.journal.Flush(); err != nil {
		s.log.Warn("flush journal", "err", err)
	}
}

func (s *Server) closeJournal() {
	if s.journal == nil {
		return
	}
	if err := s.journal.Close(); err != nil {
		s.log.Warn("close journal", "err", err)
	}
}
