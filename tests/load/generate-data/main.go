package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/gamassss/shortlink/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Seeds a hot/warm/cold link distribution so cache hit rates and the
// analytics queries can be exercised under realistic skew.
const (
	HOT_COUNT  = 100
	WARM_COUNT = 10000
	COLD_COUNT = 9890000

	CLICKS_PER_HOT = 500

	BATCH_SIZE  = 5000
	NUM_WORKERS = 4
)

var (
	countries = []string{"United States", "Germany", "Brazil", "India", "Japan", ""}
	browsers  = []string{"Chrome", "Firefox", "Safari", "Edge", ""}
	systems   = []string{"Windows", "macOS", "Linux", "Android", "iOS"}
	devices   = []string{"desktop", "desktop", "desktop", "mobile", "mobile", "tablet"}
)

type DataGenerator struct {
	pool *pgxpool.Pool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v\n", err)
	}

	gen := &DataGenerator{pool: pool}

	if err := gen.clearData(ctx); err != nil {
		log.Fatalf("Failed to clear data: %v\n", err)
	}

	if err := gen.insertHotLinks(ctx); err != nil {
		log.Fatalf("Failed to insert hot links: %v\n", err)
	}

	if err := gen.insertWarmLinks(ctx); err != nil {
		log.Fatalf("Failed to insert warm links: %v\n", err)
	}

	if err := gen.insertColdLinksParallel(ctx); err != nil {
		log.Fatalf("Failed to insert cold links: %v\n", err)
	}

	if err := gen.insertHotClicks(ctx); err != nil {
		log.Fatalf("Failed to insert clicks: %v\n", err)
	}

	if err := gen.analyze(ctx); err != nil {
		log.Fatalf("Failed to analyze tables: %v\n", err)
	}

	if err := gen.verifyData(ctx); err != nil {
		log.Printf("Warning: Data verification failed: %v\n", err)
	}
}

func (g *DataGenerator) clearData(ctx context.Context) error {
	_, err := g.pool.Exec(ctx, "TRUNCATE links, clicks, user_stats RESTART IDENTITY CASCADE")
	return err
}

func (g *DataGenerator) insertHotLinks(ctx context.Context) error {
	batch := &pgx.Batch{}

	for i := 1; i <= HOT_COUNT; i++ {
		shortCode := fmt.Sprintf("hot%06d", i)
		destination := fmt.Sprintf("https://youtube.com/watch?v=%06d", i)
		batch.Queue(
			"INSERT INTO links (short_code, destination, created_at) VALUES ($1, $2, $3)",
			shortCode, destination, time.Now().Add(-time.Duration(i)*time.Minute),
		)
	}

	br := g.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec failed: %w", err)
		}
	}

	return nil
}

func (g *DataGenerator) insertWarmLinks(ctx context.Context) error {
	for start := 1; start <= WARM_COUNT; start += BATCH_SIZE {
		end := start + BATCH_SIZE - 1
		if end > WARM_COUNT {
			end = WARM_COUNT
		}

		batch := &pgx.Batch{}
		for i := start; i <= end; i++ {
			shortCode := fmt.Sprintf("warm%06d", i)
			destination := fmt.Sprintf("https://github.com/repo/%06d", i)
			batch.Queue(
				"INSERT INTO links (short_code, destination, created_at) VALUES ($1, $2, $3)",
				shortCode, destination, time.Now().Add(-time.Duration(i)*time.Hour),
			)
		}

		br := g.pool.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("batch exec failed: %w", err)
			}
		}
		br.Close()
	}

	return nil
}

func (g *DataGenerator) insertColdLinksParallel(ctx context.Context) error {
	var wg sync.WaitGroup
	errChan := make(chan error, NUM_WORKERS)

	rowsPerWorker := COLD_COUNT / NUM_WORKERS

	for workerID := 0; workerID < NUM_WORKERS; workerID++ {
		wg.Add(1)

		start := workerID*rowsPerWorker + 1
		end := start + rowsPerWorker - 1
		if workerID == NUM_WORKERS-1 {
			end = COLD_COUNT
		}

		go func(id, start, end int) {
			defer wg.Done()

			if err := g.insertColdLinksBatch(ctx, start, end); err != nil {
				errChan <- fmt.Errorf("worker %d failed: %w", id, err)
			}
		}(workerID, start, end)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		return err
	}

	return nil
}

func (g *DataGenerator) insertColdLinksBatch(ctx context.Context, start, end int) error {
	for i := start; i <= end; i += BATCH_SIZE {
		batchEnd := i + BATCH_SIZE - 1
		if batchEnd > end {
			batchEnd = end
		}

		batch := &pgx.Batch{}
		for j := i; j <= batchEnd; j++ {
			shortCode := fmt.Sprintf("cold%07d", j)
			destination := fmt.Sprintf("https://example.com/page/%07d", j)
			batch.Queue(
				"INSERT INTO links (short_code, destination, created_at) VALUES ($1, $2, $3)",
				shortCode, destination, time.Now().Add(-time.Duration(j)*time.Second),
			)
		}

		br := g.pool.SendBatch(ctx, batch)
		for k := 0; k < batch.Len(); k++ {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("batch exec failed: %w", err)
			}
		}
		br.Close()
	}

	return nil
}

// insertHotClicks backfills click history on the hot links so the
// analytics aggregation has a skewed, multi-dimension dataset to chew
// on.
func (g *DataGenerator) insertHotClicks(ctx context.Context) error {
	rng := rand.New(rand.NewSource(42))

	for hot := 1; hot <= HOT_COUNT; hot++ {
		batch := &pgx.Batch{}
		for c := 0; c < CLICKS_PER_HOT; c++ {
			batch.Queue(`
				INSERT INTO clicks (link_id, ip_address, country, browser, os, device_type, clicked_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				hot,
				fmt.Sprintf("198.51.%d.%d", rng.Intn(256), rng.Intn(256)),
				countries[rng.Intn(len(countries))],
				browsers[rng.Intn(len(browsers))],
				systems[rng.Intn(len(systems))],
				devices[rng.Intn(len(devices))],
				time.Now().Add(-time.Duration(rng.Intn(30*24*3600))*time.Second),
			)
		}

		br := g.pool.SendBatch(ctx, batch)
		for k := 0; k < batch.Len(); k++ {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("click batch exec failed: %w", err)
			}
		}
		br.Close()

		if _, err := g.pool.Exec(ctx,
			"UPDATE links SET click_count = $2 WHERE id = $1", hot, CLICKS_PER_HOT); err != nil {
			return err
		}
	}

	return nil
}

func (g *DataGenerator) analyze(ctx context.Context) error {
	for _, table := range []string{"links", "clicks"} {
		if _, err := g.pool.Exec(ctx, "ANALYZE "+table); err != nil {
			return err
		}
	}
	return nil
}

func (g *DataGenerator) verifyData(ctx context.Context) error {
	var count int64
	err := g.pool.QueryRow(ctx, "SELECT COUNT(*) FROM links").Scan(&count)
	if err != nil {
		return err
	}

	expected := int64(HOT_COUNT + WARM_COUNT + COLD_COUNT)
	if count != expected {
		return fmt.Errorf("expected %d rows but got %d", expected, count)
	}

	return nil
}
