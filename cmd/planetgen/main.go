// Command planetgen generates a planet from PLANET_* environment settings,
// stores it in SQLite, optionally exports a compressed snapshot, and can
// serve it over the read-only HTTP API.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/talgya/mini-planet/internal/api"
	"github.com/talgya/mini-planet/internal/globe"
	"github.com/talgya/mini-planet/internal/persistence"
	"github.com/talgya/mini-planet/internal/world"
)

func main() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	cfg := configFromEnv()
	dbPath := envOrDefault("PLANET_DB", "data/planet.db")
	exportPath := os.Getenv("PLANET_EXPORT")
	apiPort := envIntOrDefault("PLANET_PORT", 0)
	reuse := envBoolOrDefault("PLANET_LOAD", false)

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(dbPath), 0755)
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	// ── Planet (loaded when asked, otherwise generated from seed) ─────
	var (
		planet *globe.Planet
		meta   map[string]string
	)
	if reuse {
		planet, err = db.LoadPlanet()
		if err != nil {
			slog.Warn("no stored planet, generating", "error", err)
		} else if meta, err = db.AllMeta(); err != nil {
			slog.Error("failed to load metadata", "error", err)
			os.Exit(1)
		}
	}
	if planet == nil {
		planet, meta, err = generate(cfg, db)
		if err != nil {
			slog.Error("generation failed", "error", err)
			os.Exit(1)
		}
	}

	for b, n := range world.BiomeCounts(planet) {
		slog.Info("biome", "type", world.BiomeName(b), "tiles", humanize.Comma(int64(n)))
	}

	// ── Export ────────────────────────────────────────────────────────
	if exportPath != "" {
		if err := export(exportPath, planet, meta); err != nil {
			slog.Error("export failed", "error", err)
			os.Exit(1)
		}
	}

	s := world.Summarize(planet)
	fmt.Printf("\nPlanet %s: %s tiles, %d plates, %.1f%% land, %d lakes, %s river tiles, %d watersheds.\n",
		meta["run_id"], humanize.Comma(int64(s.Tiles)), s.Plates, s.LandFraction*100,
		s.Lakes, humanize.Comma(int64(s.Rivers)), s.Watersheds)

	if apiPort <= 0 {
		return
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	adminKey := os.Getenv("PLANET_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("PLANET_ADMIN_KEY not set, snapshot endpoint disabled")
	}
	apiServer := &api.Server{
		Planet:   planet,
		Meta:     meta,
		DB:       db,
		Port:     apiPort,
		AdminKey: adminKey,
	}
	apiServer.Start()
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", apiPort)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)
}

// generate runs the pipeline and stores the planet with its run metadata.
func generate(cfg world.GenConfig, db *persistence.DB) (*globe.Planet, map[string]string, error) {
	runID := uuid.New().String()
	slog.Info("generating planet", "run_id", runID)

	planet, stats, err := world.Generate(cfg)
	if err != nil {
		return nil, nil, err
	}

	cfgJSON, _ := json.Marshal(cfg)
	meta := map[string]string{
		"run_id":       runID,
		"seed":         strconv.FormatInt(stats.Seed, 10),
		"config":       string(cfgJSON),
		"generated_at": time.Now().UTC().Format(time.RFC3339),
		"elapsed":      stats.Elapsed.String(),
		"anomalies":    strconv.Itoa(len(stats.Hydrology.Anomalies)),
	}

	if err := db.SavePlanet(planet); err != nil {
		return nil, nil, fmt.Errorf("save planet: %w", err)
	}
	for k, v := range meta {
		if err := db.SaveMeta(k, v); err != nil {
			return nil, nil, fmt.Errorf("save meta %s: %w", k, err)
		}
	}
	return planet, meta, nil
}

func export(path string, planet *globe.Planet, meta map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	defer f.Close()
	if err := persistence.ExportJSON(f, planet, meta); err != nil {
		return err
	}
	info, err := f.Stat()
	if err == nil {
		slog.Info("snapshot exported", "path", path, "size", humanize.Bytes(uint64(info.Size())))
	}
	return nil
}
