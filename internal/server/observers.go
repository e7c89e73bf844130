package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"worldforge/internal/chunk"
	"worldforge/internal/network"
)

// The server listens to the manager so completed chunks and applied events
// reach observers on the next broadcast. These run under the manager lock
// and only touch the dirty queue.

func (s *Server) ChunkCompleted(summary chunk.Summary) {
	s.markChunksDirty([]chunk.Coord{summary.Coord})
}

func (s *Server) ChunkEvicted(chunk.Coord, bool) {}

func (s *Server) ChunkDisposed(chunk.Coord) {}

func (s *Server) EventApplied(e chunk.WorldEvent, affected []chunk.Coord) {
	s.dirtyMu.Lock()
	s.pendingEvents = append(s.pendingEvents, network.NewEventApplied(e, affected))
	s.dirtyMu.Unlock()
}

func (s *Server) markChunksDirty(coords []chunk.Coord) {
	s.dirtyMu.Lock()
	defer s.dirtyMu.Unlock()
	for _, coord := range coords {
		if _, exists := s.dirtyChunks[coord]; exists {
			continue
		}
		s.dirtyChunks[coord] = struct{}{}
		s.dirtyChunkQueue = append(s.dirtyChunkQueue, coord)
	}
}

// popDirtyChunks removes up to max coordinates from the dirty queue.
func (s *Server) popDirtyChunks(max int) []chunk.Coord {
	s.dirtyMu.Lock()
	defer s.dirtyMu.Unlock()
	var out []chunk.Coord
	for len(s.dirtyChunkQueue) > 0 && len(out) < max {
		coord := s.dirtyChunkQueue[0]
		s.dirtyChunkQueue = s.dirtyChunkQueue[1:]
		if _, ok := s.dirtyChunks[coord]; !ok {
			continue
		}
		delete(s.dirtyChunks, coord)
		out = append(out, coord)
	}
	return out
}

func (s *Server) broadcastChunkSummaries() {
	coords := s.popDirtyChunks(maxSummaryBatch)
	if len(coords) == 0 || s.net == nil {
		return
	}
	msg := network.ChunkSummaries{Viewpoint: s.viewpoint()}
	for _, coord := range coords {
		c, ok := s.world.Get(coord)
		if !ok || !c.Complete() {
			continue
		}
		msg.Summaries = append(msg.Summaries, c.Summary())
	}
	if len(msg.Summaries) == 0 {
		return
	}
	if _, err := s.net.Broadcast(network.MessageChunkSummaries, msg); err != nil {
		s.log.Warn("broadcast chunk summaries", "err", err)
	}
}

func (s *Server) flushEvents() {
	s.dirtyMu.Lock()
	events := s.pendingEvents
	s.pendingEvents = nil
	s.dirtyMu.Unlock()
	if s.net == nil {
		return
	}
	for _, e := range events {
		if _, err := s.net.Broadcast(network.MessageEventApplied, e); err != nil {
			s.log.Warn("broadcast event", "id", e.ID, "err", err)
		}
	}
}

func (s *Server) viewpoint() [3]float64 {
	vp, _ := s.world.Viewpoint()
	return [3]float64(vp)
}

func (s *Server) registerHandlers() {
	s.net.OnConnect(s.onConnect)
	s.net.Register(network.MessageViewpoint, s.onViewpoint)
	s.net.Register(network.MessageTriggerEvent, s.onTriggerEvent)
	s.net.Register(network.MessageChunkRequest, s.onChunkRequest)
}

// onConnect greets a new observer and sends the current chunk set.
func (s *Server) onConnect(conn *network.Conn) {
	lods := s.world.LODs()
	hello := network.Hello{ServerID: s.cfg.Server.ID, ChunkSize: s.cfg.World.ChunkSize}
	for l := chunk.LODFull; l <= chunk.LODLow; l++ {
		hello.Resolutions = append(hello.Resolutions, lods.Resolution(l))
		hello.ViewDistances = append(hello.ViewDistances, lods.ViewDistance(l))
	}
	if err := conn.Send(network.MessageHello, hello); err != nil {
		s.log.Warn("send hello", "observer", conn.ID(), "err", err)
		return
	}

	msg := network.ChunkSummaries{Viewpoint: s.viewpoint()}
	for _, summary := range s.world.Summaries() {
		if summary.Stage == chunk.StageComplete {
			msg.Summaries = append(msg.Summaries, summary)
		}
	}
	if err := conn.Send(network.MessageChunkSummaries, msg); err != nil {
		s.log.Warn("send chunk snapshot", "observer", conn.ID(), "err", err)
	}
}

func (s *Server) onViewpoint(_ context.Context, conn *network.Conn, env network.Envelope) error {
	var req network.Viewpoint
	if err := json.Unmarshal(env.Payload, &req); err != nil {
		return err
	}
	pos := mgl64.Vec3(req.Position)
	s.world.SetViewpoint(pos)
	s.log.Debug("viewpoint moved", "observer", conn.ID(), "position", pos)
	return nil
}

func (s *Server) onTriggerEvent(_ context.Context, conn *network.Conn, env network.Envelope) error {
	var req network.TriggerEvent
	if err := json.Unmarshal(env.Payload, &req); err != nil {
		return err
	}
	kind, err := chunk.ParseEventKind(req.Kind)
	if err != nil {
		return err
	}
	report, err := s.world.ApplyEvent(kind, mgl64.Vec3(req.Position), req.Radius, req.Intensity)
	if err != nil {
		return err
	}
	s.log.Info("event triggered", "observer", conn.ID(), "kind", kind, "affected", len(report.Affected))
	return nil
}

func (s *Server) onChunkRequest(_ context.Context, conn *network.Conn, env network.Envelope) error {
	var req network.ChunkRequest
	if err := json.Unmarshal(env.Payload, &req); err != nil {
		return err
	}
	coord := chunk.Coord{X: req.X, Z: req.Z}
	c, ok := s.world.Get(coord)
	if !ok || !c.Complete() {
		return fmt.Errorf("chunk %v is not loaded", coord)
	}
	return conn.Send(network.MessageChunkLayers, network.NewChunkLayers(c))
}
