package environment

import (
	"errors"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"worldforge/internal/chunk"
	"worldforge/internal/world"
)

// World is the part of the chunk manager the director drives.
type World interface {
	ApplyEvent(kind chunk.EventKind, pos mgl64.Vec3, radius, intensity float64) (world.EventReport, error)
	SetViewpoint(pos mgl64.Vec3)
	Viewpoint() (mgl64.Vec3, bool)
}

// Director turns weather and a scenario script into world events and
// viewpoint moves. Either source may be nil.
type Director struct {
	env     *Environment
	script  *Script
	world   World
	log     *slog.Logger
	elapsed time.Duration
	fired   int
	lastWay mgl64.Vec3
	moved   bool
}

func NewDirector(env *Environment, script *Script, w World, log *slog.Logger) *Director {
	if log == nil {
		log = slog.Default()
	}
	return &Director{env: env, script: script, world: w, log: log}
}

// Elapsed is the scenario time consumed so far.
func (d *Director) Elapsed() time.Duration {
	return d.elapsed
}

// Step advances the clock by delta. A storm front rolls a natural disaster
// around the current viewpoint, due scripted events fire in order and the
// viewpoint follows the script's waypoints. Event errors are collected and
// do not stop later events.
func (d *Director) Step(delta time.Duration) (State, error) {
	d.elapsed += delta

	var state State
	var errs []error
	if d.env != nil {
		state = d.env.Step(delta)
		if storm := state.Storm; storm != nil {
			if vp, ok := d.world.Viewpoint(); ok {
				pos := vp.Add(storm.Offset)
				report, err := d.world.ApplyEvent(chunk.EventNaturalDisaster, pos, storm.Radius, storm.Intensity)
				if err != nil {
					errs = append(errs, err)
				} else {
					d.log.Info("storm front", "epicenter", pos, "intensity", storm.Intensity, "affected", len(report.Affected))
				}
			}
		}
	}

	if d.script == nil {
		return state, errors.Join(errs...)
	}
	if pos, ok := d.script.ViewpointAt(d.elapsed); ok && (!d.moved || pos != d.lastWay) {
		d.world.SetViewpoint(pos)
		d.lastWay = pos
		d.moved = true
	}
	for ; d.fired < len(d.script.Events) && d.script.Events[d.fired].At <= d.elapsed; d.fired++ {
		e := d.script.Events[d.fired]
		report, err := d.world.ApplyEvent(e.Kind, e.Position, e.Radius, e.Intensity)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		d.log.Info("scripted event", "kind", e.Kind, "at", e.At, "affected", len(report.Affected))
	}
	return state, errors.Join(errs...)
}
