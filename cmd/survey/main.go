// Command survey generates a square of chunks without running the server,
// stores their summaries in a SQLite database and prints a biome map.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"worldforge/internal/chunk"
	"worldforge/internal/config"
	"worldforge/internal/pipeline"
	"worldforge/internal/survey"
)

func main() {
	var (
		cfgPath string
		dbPath  string
		lodName string
		radius  int
		centerX int
		centerZ int
		cells   int
		debug   bool
	)
	flag.StringVar(&cfgPath, "config", "", "path to world configuration file (.yaml or .json)")
	flag.StringVar(&dbPath, "db", "", "SQLite database to write (empty skips indexing)")
	flag.StringVar(&lodName, "lod", "medium", "level of detail: full, high, medium or low")
	flag.IntVar(&radius, "radius", 8, "chunks around the center on each side")
	flag.IntVar(&centerX, "x", 0, "center chunk x")
	flag.IntVar(&centerZ, "z", 0, "center chunk z")
	flag.IntVar(&cells, "cells", 2, "map glyphs per chunk side")
	flag.BoolVar(&debug, "debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(log, cfgPath, dbPath, lodName, radius, chunk.Coord{X: centerX, Z: centerZ}, cells); err != nil {
		log.Error("survey failed", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, cfgPath, dbPath, lodName string, radius int, center chunk.Coord, cells int) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	lod, err := chunk.ParseLOD(lodName)
	if err != nil {
		return err
	}
	lods, err := chunk.NewLODTable(cfg.World.BaseResolution, cfg.World.ViewDistances)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	area := survey.Area{Center: center, Radius: radius, LOD: lod}
	chunks, err := survey.Generate(ctx, pipeline.New(cfg, log), lods, area, cfg.World.MaxChunksPerTick)
	if err != nil {
		return err
	}
	log.Info("area generated", "chunks", len(chunks), "lod", lod, "resolution", lods.Resolution(lod), "took", time.Since(start))

	if dbPath != "" {
		ix, err := survey.Open(dbPath)
		if err != nil {
			return err
		}
		defer ix.Close()
		if err := ix.SetMeta(ctx, "seed.terrain", strconv.FormatInt(cfg.Seeds.Terrain, 10)); err != nil {
			return err
		}
		if err := ix.SetMeta(ctx, "lod", lod.String()); err != nil {
			return err
		}
		if err := ix.Record(ctx, chunks...); err != nil {
			return err
		}
		totals, err := ix.Totals(ctx)
		if err != nil {
			return err
		}
		log.Info("survey indexed", "db", dbPath,
			"chunks", totals.Chunks,
			"settlements", totals.Settlements,
			"dungeons", totals.Dungeons,
			"rivers", totals.Rivers,
			"roads", totals.Roads,
			"pois", totals.POIs,
		)
	}

	fmt.Print(survey.BiomeMap(chunks, cells))
	fmt.Println()
	fmt.Print(survey.Legend())
	return nil
}
