// Package api provides the HTTP API for reading a generated planet.
// GET endpoints are public and read-only.
// POST /api/v1/snapshot requires a bearer token and writes the planet to the database.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/talgya/mini-planet/internal/biome"
	"github.com/talgya/mini-planet/internal/globe"
	"github.com/talgya/mini-planet/internal/persistence"
	"github.com/talgya/mini-planet/internal/world"
)

const defaultPageSize = 500

// Server serves a planet over HTTP.
type Server struct {
	Planet   *globe.Planet
	Meta     map[string]string // Run id, seed, and config echoed by /status
	DB       *persistence.DB
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	// Guards Planet against a concurrent snapshot.
	mu sync.RWMutex
}

// Handler builds the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	exportLimiter := NewRateLimiter(6, time.Minute, 2)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/tiles", s.handleTiles)
	mux.HandleFunc("/api/v1/tile/", s.handleTileDetail)
	mux.HandleFunc("/api/v1/plates", s.handlePlates)
	mux.HandleFunc("/api/v1/lakes", s.handleLakes)
	mux.HandleFunc("/api/v1/watersheds", s.handleWatersheds)
	mux.HandleFunc("/api/v1/rivers", s.handleRivers)
	mux.HandleFunc("/api/v1/biomes", s.handleBiomes)
	mux.HandleFunc("/api/v1/export", RateLimitMiddleware(exportLimiter, s.handleExport))

	mux.HandleFunc("/api/v1/snapshot", s.adminOnly(s.handleSnapshot))

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, s.Handler()); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed renderer origins.
// Set CORS_ORIGINS to a comma-separated list; localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no PLANET_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, map[string]any{
		"name":    "planetgen",
		"summary": world.Summarize(s.Planet),
		"meta":    s.Meta,
	})
}

type tileSummary struct {
	ID          int     `json:"id"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Elevation   float64 `json:"elevation"`
	Temperature float64 `json:"temperature"`
	Moisture    float64 `json:"moisture"`
	Biome       string  `json:"biome"`
	Plate       int     `json:"plate"`
	River       bool    `json:"river,omitempty"`
}

func summarizeTile(t *globe.Tile) tileSummary {
	return tileSummary{
		ID:          t.ID,
		Lat:         globe.Latitude(t.Position),
		Lon:         globe.Longitude(t.Position),
		Elevation:   t.Elevation,
		Temperature: t.Temperature,
		Moisture:    t.Moisture,
		Biome:       t.Biome.String(),
		Plate:       t.Plate,
		River:       t.River,
	}
}

// handleTiles pages through tiles. Filters: biome=<tag>, land=true|false.
// Paging: offset, limit (default 500).
func (s *Server) handleTiles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, limit := 0, defaultPageSize
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid offset", http.StatusBadRequest)
			return
		}
		offset = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	var (
		wantBiome globe.Biome
		hasBiome  bool
	)
	if v := q.Get("biome"); v != "" {
		b, ok := globe.ParseBiome(v)
		if !ok {
			http.Error(w, "unknown biome", http.StatusBadRequest)
			return
		}
		wantBiome, hasBiome = b, true
	}
	land := q.Get("land")
	if land != "" && land != "true" && land != "false" {
		http.Error(w, "land must be true or false", http.StatusBadRequest)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]tileSummary, 0, min(limit, len(s.Planet.Tiles)))
	matched := 0
	for i := range s.Planet.Tiles {
		t := &s.Planet.Tiles[i]
		if hasBiome && t.Biome != wantBiome {
			continue
		}
		if land != "" && t.IsLand() != (land == "true") {
			continue
		}
		if matched >= offset && len(result) < limit {
			result = append(result, summarizeTile(t))
		}
		matched++
	}
	writeJSON(w, map[string]any{
		"total":  matched,
		"offset": offset,
		"tiles":  result,
	})
}

// handleTileDetail returns one tile with its physical-unit readings.
func (s *Server) handleTileDetail(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) < 5 || parts[4] == "" {
		http.Error(w, "missing tile id", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(parts[4])
	if err != nil {
		http.Error(w, "invalid tile id", http.StatusBadRequest)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if id < 0 || id >= len(s.Planet.Tiles) {
		http.Error(w, "tile not found", http.StatusNotFound)
		return
	}
	t := &s.Planet.Tiles[id]

	resources := make(map[string]float64)
	for k, v := range t.Resources {
		if v > 0 {
			resources[globe.Resource(k).String()] = v
		}
	}
	writeJSON(w, map[string]any{
		"tile":             summarizeTile(t),
		"biome_name":       world.BiomeName(t.Biome),
		"celsius":          biome.Celsius(t),
		"precipitation_mm": biome.PrecipitationMM(t),
		"neighbors":        t.Neighbors,
		"slope":            t.Slope,
		"resources":        resources,
		"calories":         t.Calories,
		"upstream_weight":  t.UpstreamWeight,
		"drain":            t.Drain,
		"downstream":       t.Downstream,
		"upstream_count":   len(t.Upstream),
		"outflow":          t.Outflow,
		"lake_depth":       t.LakeDepth,
		"watershed":        t.Watershed,
		"flagged":          t.Flagged,
	})
}

func (s *Server) handlePlates(w http.ResponseWriter, r *http.Request) {
	type plateSummary struct {
		ID        int        `json:"id"`
		Color     string     `json:"color"`
		Oceanic   bool       `json:"oceanic"`
		Elevation float64    `json:"elevation"`
		DriftAxis globe.Vec3 `json:"drift_axis"`
		DriftRate float64    `json:"drift_rate"`
		SpinRate  float64    `json:"spin_rate"`
		Tiles     int        `json:"tiles"`
		Boundary  int        `json:"boundary_corners"`
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]plateSummary, 0, len(s.Planet.Plates))
	for _, pl := range s.Planet.Plates {
		result = append(result, plateSummary{
			ID:        pl.ID,
			Color:     fmt.Sprintf("#%06x", pl.Color&0xffffff),
			Oceanic:   pl.Oceanic,
			Elevation: pl.Elevation,
			DriftAxis: pl.DriftAxis,
			DriftRate: pl.DriftRate,
			SpinRate:  pl.SpinRate,
			Tiles:     len(pl.Tiles),
			Boundary:  len(pl.BoundaryCorners),
		})
	}
	writeJSON(w, result)
}

func (s *Server) handleLakes(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lakes := s.Planet.Lakes
	if lakes == nil {
		lakes = []globe.Lake{}
	}
	writeJSON(w, lakes)
}

func (s *Server) handleWatersheds(w http.ResponseWriter, r *http.Request) {
	type watershedSummary struct {
		ID        int   `json:"id"`
		Outlet    int   `json:"outlet"`
		Color     int   `json:"color"`
		Size      int   `json:"size"`
		Neighbors []int `json:"neighbors"`
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]watershedSummary, 0, len(s.Planet.Watersheds))
	for _, ws := range s.Planet.Watersheds {
		result = append(result, watershedSummary{
			ID:        ws.ID,
			Outlet:    ws.Outlet,
			Color:     ws.Color,
			Size:      len(ws.Tiles),
			Neighbors: ws.Neighbors,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Size != result[j].Size {
			return result[i].Size > result[j].Size
		}
		return result[i].ID < result[j].ID
	})
	writeJSON(w, result)
}

// handleRivers returns river segments: each river tile and the tile it drains into.
func (s *Server) handleRivers(w http.ResponseWriter, r *http.Request) {
	type segment struct {
		From    int     `json:"from"`
		To      int     `json:"to"`
		Outflow float64 `json:"outflow"`
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	result := []segment{}
	for i := range s.Planet.Tiles {
		t := &s.Planet.Tiles[i]
		if t.River && t.Drain != globe.None {
			result = append(result, segment{From: i, To: t.Drain, Outflow: t.Outflow})
		}
	}
	writeJSON(w, result)
}

func (s *Server) handleBiomes(w http.ResponseWriter, r *http.Request) {
	type biomeCount struct {
		Biome string `json:"biome"`
		Name  string `json:"name"`
		Tiles int    `json:"tiles"`
	}

	s.mu.RLock()
	counts := world.BiomeCounts(s.Planet)
	s.mu.RUnlock()

	result := make([]biomeCount, 0, len(counts))
	for b := globe.Biome(0); int(b) < globe.NumBiomes; b++ {
		if n := counts[b]; n > 0 {
			result = append(result, biomeCount{Biome: b.String(), Name: world.BiomeName(b), Tiles: n})
		}
	}
	writeJSON(w, result)
}

// handleExport streams the lz4-compressed JSON snapshot.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="planet.json.lz4"`)
	if err := persistence.ExportJSON(w, s.Planet, s.Meta); err != nil {
		slog.Error("export failed", "error", err)
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.DB.SavePlanet(s.Planet); err != nil {
		slog.Error("snapshot save failed", "error", err)
		http.Error(w, "snapshot failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"tiles":   len(s.Planet.Tiles),
		"message": "snapshot saved",
	})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
