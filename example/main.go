package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jpalmerr/gradebook"
)

// seed is posted to the running server once it is up.
var seed = []struct {
	Name   string             `json:"name"`
	Grades map[string]float64 `json:"grades"`
}{
	{"Ada", map[string]float64{"math": 9.0, "physics": 8.5}},
	{"Linus", map[string]float64{"math": 5.5, "physics": 7.0}},
	{"Grace", map[string]float64{"math": 7.25}},
	{"Alan", map[string]float64{}},
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	dataPath := filepath.Join(os.TempDir(), "gradebook-example.json")

	gb, err := gradebook.New(
		gradebook.WithPort(8080),
		gradebook.WithLogger(logger),
		gradebook.WithJSONFile(dataPath),
		gradebook.WithAutosaveInterval(10*time.Second),
	)
	if err != nil {
		slog.Error("failed to create gradebook", "error", err)
		os.Exit(1)
	}

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go seedAndQuery(ctx, "http://localhost:8080")

	fmt.Println()
	fmt.Println("  Gradebook demo")
	fmt.Println("  API on http://localhost:8080")
	fmt.Printf("  Snapshot: %s\n", dataPath)
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()

	if err := gb.Start(ctx); err != nil {
		slog.Error("gradebook error", "error", err)
		os.Exit(1)
	}
}

// seedAndQuery waits for the server, posts the seed students and prints a
// few query results.
func seedAndQuery(ctx context.Context, base string) {
	client := &http.Client{Timeout: 5 * time.Second}

	for i := 0; i < 50; i++ {
		resp, err := client.Get(base + "/healthz")
		if err == nil {
			resp.Body.Close()
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(100 * time.Millisecond):
		}
	}

	for _, s := range seed {
		body, _ := json.Marshal(s)
		resp, err := client.Post(base+"/students/", "application/json", bytes.NewReader(body))
		if err != nil {
			slog.Error("seed failed", "name", s.Name, "error", err)
			return
		}
		resp.Body.Close()
	}

	for _, path := range []string{
		"/grades/math",
		"/grades/statistics/math",
		"/grades/below_average/",
	} {
		resp, err := client.Get(base + path)
		if err != nil {
			slog.Error("query failed", "path", path, "error", err)
			continue
		}
		out, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		fmt.Printf("  GET %-26s %s\n", path, bytes.TrimSpace(out))
	}
}
