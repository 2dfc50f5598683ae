package main

import (
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/joho/godotenv"

	"github.com/MuseumTrail/MT-Backend/internal/catalog"
	"github.com/MuseumTrail/MT-Backend/internal/db"
)

// Usage: check_catalog [catalog.yaml]
//
// Prints the catalog grouped by city. When DATABASE_URL is set, review counts
// and average ratings are shown next to each museum.
func main() {
	godotenv.Load(".env.local")

	path := os.Getenv("CATALOG_PATH")
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cat, err := catalog.Load(path)
	if err != nil {
		log.Fatalf("Catalog error: %v", err)
	}

	type Result struct {
		MuseumKey string
		Reviews   int
		AvgRating float64
	}
	stats := make(map[string]Result)

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		conn, err := db.Open(db.Config{DSN: dsn, Schema: os.Getenv("DB_SCHEMA")})
		if err != nil {
			log.Fatalf("DB connection error: %v", err)
		}

		var results []Result
		query := `
			SELECT museum_key, COUNT(*) AS reviews, AVG(rating) AS avg_rating
			FROM reviews
			GROUP BY museum_key
		`
		if err := conn.Raw(query).Scan(&results).Error; err != nil {
			log.Fatalf("Query error: %v", err)
		}
		for _, r := range results {
			stats[r.MuseumKey] = r
		}
	}

	byCity := make(map[string][]catalog.Museum)
	for _, m := range cat.All() {
		byCity[m.City] = append(byCity[m.City], m)
	}
	cities := make([]string, 0, len(byCity))
	for c := range byCity {
		cities = append(cities, c)
	}
	sort.Strings(cities)

	fmt.Printf("Museums in catalog: %d\n\n", cat.Len())

	for _, city := range cities {
		ms := byCity[city]
		fmt.Printf("=== %s (%d) ===\n", city, len(ms))
		for _, m := range ms {
			line := fmt.Sprintf("  - %s [%s] | %d exhibits", m.Name, m.Key, len(m.TopExhibits))
			if s, ok := stats[m.Key]; ok {
				line += fmt.Sprintf(" | %d reviews, avg %.1f", s.Reviews, s.AvgRating)
			}
			fmt.Println(line)
		}
		fmt.Println()
	}

	for key := range stats {
		if _, err := cat.Get(key); err != nil {
			fmt.Printf("WARNING: reviews stored for unknown museum %q\n", key)
		}
	}
}
