package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	natsadapter "github.com/geofieldx/geofieldx/internal/adapters/nats"
	"github.com/geofieldx/geofieldx/internal/adapters/postgres"
	"github.com/geofieldx/geofieldx/internal/core/ports"
	"github.com/geofieldx/geofieldx/internal/core/usecases"
	"github.com/geofieldx/geofieldx/internal/pkg/config"
)

// shpimport bulk-loads a directory of zipped shapefile archives, converting
// each to GeoJSON and storing it. Useful for seeding a fresh deployment with
// reference layers (ward boundaries, duct routes, survey exports).
//
//	shpimport -dir ./layers -label "reference layer" -by <user-id>
func main() {
	dir := flag.String("dir", ".", "directory containing .zip shapefile archives")
	label := flag.String("label", "", "type label applied to every imported collection")
	uploadedBy := flag.String("by", "system", "user ID recorded as the uploader")
	workers := flag.Int("workers", 4, "concurrent conversions")
	flag.Parse()

	cfg, err := config.Load("geofieldx-shpimport")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Printf("nats unavailable, importing without events: %v", err)
		publisher = nil
	} else {
		defer publisher.Close()
	}

	// Avoid storing a typed nil in the service's interface field.
	var pub ports.EventPublisher
	if publisher != nil {
		pub = publisher
	}
	svc := usecases.NewShapefileService(
		postgres.NewShapefileRepo(db), nil, pub,
		cfg.Uploads.SimplifyAboveN, cfg.Uploads.SimplifyEpsilonM, 0,
	)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("read dir: %v", err)
	}

	var archives []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".zip") {
			archives = append(archives, e.Name())
		}
	}
	if len(archives) == 0 {
		log.Fatalf("no .zip archives in %s", *dir)
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, *workers) // cap concurrent conversions

	var mu sync.Mutex
	imported, failed := 0, 0

	for _, name := range archives {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			data, err := os.ReadFile(filepath.Join(*dir, name))
			if err != nil {
				log.Printf("FAIL %s: %v", name, err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}

			sf, err := svc.Import(ctx, usecases.ImportShapefileInput{
				Name:      strings.TrimSuffix(name, filepath.Ext(name)),
				TypeLabel: *label,
				Filename:  name,
				Archive:   data,
			}, *uploadedBy)
			if err != nil {
				log.Printf("FAIL %s: %v", name, err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}

			fmt.Printf("OK  %s (%d features)\n", name, sf.FeatureCount)
			mu.Lock()
			imported++
			mu.Unlock()
		}(name)
	}
	wg.Wait()

	log.Printf("done: %d imported, %d failed", imported, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
