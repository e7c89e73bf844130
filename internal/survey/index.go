package survey

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"worldforge/internal/chunk"
)

// Index is a SQLite database of generated chunk summaries.
type Index struct {
	db *sql.DB
}

func Open(path string) (*Index, error) {
	if path == "" {
		return nil, errors.New("survey: empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Index{db: db}, nil
}

func (ix *Index) Close() error {
	return ix.db.Close()
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS chunks (
			x INTEGER NOT NULL,
			z INTEGER NOT NULL,
			lod INTEGER NOT NULL,
			resolution INTEGER NOT NULL,
			dominant_biome TEXT NOT NULL,
			min_height REAL NOT NULL,
			max_height REAL NOT NULL,
			has_river INTEGER NOT NULL,
			has_road INTEGER NOT NULL,
			pois INTEGER NOT NULL,
			settlement_size INTEGER NOT NULL,
			dungeon_depth INTEGER NOT NULL,
			entities INTEGER NOT NULL,
			events INTEGER NOT NULL,
			threat REAL NOT NULL,
			PRIMARY KEY (x, z)
		);`,
		`CREATE INDEX IF NOT EXISTS chunks_settlement ON chunks(settlement_size);`,
		`CREATE TABLE IF NOT EXISTS pois (
			x INTEGER NOT NULL,
			z INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			vx INTEGER NOT NULL,
			vz INTEGER NOT NULL,
			biome TEXT NOT NULL,
			PRIMARY KEY (x, z, seq)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (ix *Index) SetMeta(ctx context.Context, key, value string) error {
	_, err := ix.db.ExecContext(ctx,
		`INSERT INTO meta(key, value) VALUES(?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}

func (ix *Index) Meta(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := ix.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Record stores the summary and points of interest of a Complete chunk,
// replacing any earlier row for the same coordinate.
func (ix *Index) Record(ctx context.Context, chunks ...*chunk.Chunk) error {
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, c := range chunks {
		if !c.Complete() {
			return fmt.Errorf("survey: chunk %v is at stage %s", c.Coord, c.Stage)
		}
		s := c.Summary()
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO chunks(
				x, z, lod, resolution, dominant_biome, min_height, max_height,
				has_river, has_road, pois, settlement_size, dungeon_depth, entities, events, threat
			) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.Coord.X, s.Coord.Z, int(s.LOD), s.Resolution, s.DominantBiome.String(),
			float64(s.MinHeight), float64(s.MaxHeight), s.HasRiver, s.HasRoad, s.POIs,
			int(s.SettlementSize), s.DungeonDepth, s.Entities, s.Events, s.Threat,
		); err != nil {
			return fmt.Errorf("record chunk %v: %w", c.Coord, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM pois WHERE x = ? AND z = ?`, c.Coord.X, c.Coord.Z); err != nil {
			return err
		}
		for i, p := range c.POIs.Items() {
			biome := c.Biome[c.Index(p.X, p.Z)]
			if _, err := tx.ExecContext(ctx, `INSERT INTO pois(x, z, seq, vx, vz, biome) VALUES(?, ?, ?, ?, ?, ?)`,
				c.Coord.X, c.Coord.Z, i, p.X, p.Z, biome.String()); err != nil {
				return fmt.Errorf("record poi %d of %v: %w", i, c.Coord, err)
			}
		}
	}
	return tx.Commit()
}

// Totals aggregates the indexed chunks.
type Totals struct {
	Chunks      int
	Settlements int
	Dungeons    int
	Rivers      int
	Roads       int
	POIs        int
	Entities    int
}

func (ix *Index) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := ix.db.QueryRowContext(ctx, `SELECT
			COUNT(*),
			COALESCE(SUM(settlement_size > 0), 0),
			COALESCE(SUM(dungeon_depth > 0), 0),
			COALESCE(SUM(has_river), 0),
			COALESCE(SUM(has_road), 0),
			COALESCE(SUM(pois), 0),
			COALESCE(SUM(entities), 0)
		FROM chunks`).Scan(&t.Chunks, &t.Settlements, &t.Dungeons, &t.Rivers, &t.Roads, &t.POIs, &t.Entities)
	return t, err
}

// Settlement is one indexed settlement chunk.
type Settlement struct {
	Coord chunk.Coord
	Size  uint8
	Biome chunk.BiomeID
}

// Settlements lists chunks with a settlement of at least minSize, largest
// first.
func (ix *Index) Settlements(ctx context.Context, minSize uint8) ([]Settlement, error) {
	rows, err := ix.db.QueryContext(ctx, `SELECT x, z, settlement_size, dominant_biome FROM chunks
		WHERE settlement_size >= ? AND settlement_size > 0
		ORDER BY settlement_size DESC, z, x`, int(minSize))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Settlement
	for rows.Next() {
		var s Settlement
		var size int
		var biome string
		if err := rows.Scan(&s.Coord.X, &s.Coord.Z, &size, &biome); err != nil {
			return nil, err
		}
		s.Size = uint8(size)
		if s.Biome, err = chunk.ParseBiome(biome); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// BiomeCounts returns how many indexed chunks each biome dominates.
func (ix *Index) BiomeCounts(ctx context.Context) (map[chunk.BiomeID]int, error) {
	rows, err := ix.db.QueryContext(ctx, `SELECT dominant_biome, COUNT(*) FROM chunks GROUP BY dominant_biome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[chunk.BiomeID]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		b, err := chunk.ParseBiome(name)
		if err != nil {
			return nil, err
		}
		out[b] = n
	}
	return out, rows.Err()
}
