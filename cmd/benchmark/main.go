package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"reco/internal/domain"
	"reco/internal/engine"
)

func main() {
	items := flag.Int("items", 5000, "Number of synthetic products")
	dim := flag.Int("dim", 384, "Embedding dimension")
	queries := flag.Int("queries", 1000, "Number of timed queries per operation")
	topK := flag.Int("k", 6, "Number of results")
	users := flag.Int("users", 200, "Number of synthetic users")
	eventsPerUser := flag.Int("events", 25, "Events per user")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	if *items <= 0 || *dim <= 0 || *queries <= 0 {
		fmt.Println("Usage: go run cmd/benchmark/main.go -items 5000 -dim 384 -queries 1000")
		fmt.Println("\nMeasures:")
		fmt.Println("  1. Store rebuild (normalization, snapshot publish)")
		fmt.Println("  2. Top-k ranking by query vector")
		fmt.Println("  3. Item-to-item similarity")
		fmt.Println("  4. Per-user recommendation from decayed events")
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))
	eng := engine.New(engine.DefaultOptions())

	fmt.Println("RECOMMENDER LATENCY BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Products: %d  Dimension: %d  k: %d\n", *items, *dim, *topK)
	fmt.Printf("Users: %d  Events/user: %d\n\n", *users, *eventsPerUser)

	entries := make([]engine.Entry, *items)
	for i := range entries {
		entries[i] = engine.Entry{ID: i + 1, Vector: randomVector(rng, *dim)}
	}

	start := time.Now()
	stats := eng.Rebuild(entries)
	fmt.Printf("Rebuild: %d rows in %v\n", stats.Rows, time.Since(start))
	fmt.Println(strings.Repeat("-", 70))

	now := time.Now().UTC()
	events := make([]domain.InteractionEvent, 0, *users**eventsPerUser)
	kinds := []domain.EventKind{domain.EventView, domain.EventView, domain.EventAddToCart, domain.EventPurchase}
	for u := 1; u <= *users; u++ {
		for j := 0; j < *eventsPerUser; j++ {
			events = append(events, domain.InteractionEvent{
				Timestamp: now.Add(-time.Duration(rng.Intn(60*24)) * time.Hour),
				UserID:    u,
				ItemID:    rng.Intn(*items) + 1,
				Kind:      kinds[rng.Intn(len(kinds))],
			})
		}
	}

	report("search", timeOp(*queries, func() {
		eng.SearchByVector(randomVector(rng, *dim), *topK)
	}))
	report("similar", timeOp(*queries, func() {
		eng.SimilarToItem(rng.Intn(*items)+1, *topK)
	}))
	report("recommend", timeOp(*queries, func() {
		user := rng.Intn(*users) + 1
		eng.RecommendForUser(engine.RecommendRequest{UserID: &user, K: *topK}, events, now)
	}))
	report("popularity", timeOp(*queries, func() {
		eng.RecommendForUser(engine.RecommendRequest{K: *topK}, events, now)
	}))
	fmt.Println(strings.Repeat("=", 70))
}

func randomVector(rng *rand.Rand, dim int) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = float32(rng.NormFloat64())
	}
	return v
}

func timeOp(n int, fn func()) []time.Duration {
	samples := make([]time.Duration, n)
	for i := range samples {
		start := time.Now()
		fn()
		samples[i] = time.Since(start)
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return samples
}

func report(name string, samples []time.Duration) {
	var total time.Duration
	for _, s := range samples {
		total += s
	}
	pct := func(p float64) time.Duration {
		return samples[int(p*float64(len(samples)-1))]
	}
	fmt.Printf("%-10s avg=%-10v p50=%-10v p95=%-10v p99=%v\n",
		name, total/time.Duration(len(samples)), pct(0.50), pct(0.95), pct(0.99))
}
