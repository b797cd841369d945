// Package reconcile turns the shop export (CSV) or the JSON snapshot into the
// canonical shop list and upserts it into the store.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"mainstreet/internal/models"
	"mainstreet/internal/repositories"
	"mainstreet/pkg/logger"
)

// Source names reported after a run.
const (
	SourceCSV  = "csv"
	SourceJSON = "json"
)

// ErrNoSource is returned when neither the CSV export nor the JSON snapshot exists.
var ErrNoSource = errors.New("no source file found")

// Result describes one reconciled source.
type Result struct {
	Source string
	Path   string
	Shops  []models.Shop
}

// Resolve loads the canonical shop list. The CSV wins when present, then the snapshot.
func Resolve(csvPath, jsonPath string) (*Result, error) {
	if fileExists(csvPath) {
		shops, err := LoadCSV(csvPath)
		if err != nil {
			return nil, err
		}
		return &Result{Source: SourceCSV, Path: csvPath, Shops: shops}, nil
	}
	if fileExists(jsonPath) {
		shops, err := LoadSnapshot(jsonPath)
		if err != nil {
			return nil, err
		}
		return &Result{Source: SourceJSON, Path: jsonPath, Shops: shops}, nil
	}
	return nil, fmt.Errorf("%w: looked for %s and %s", ErrNoSource, csvPath, jsonPath)
}

// Upsert writes every shop through the repository, one statement per record.
// Re-running it with the same input leaves the store unchanged.
func Upsert(ctx context.Context, repo repositories.ShopRepository, shops []models.Shop) (int, error) {
	for i := range shops {
		if err := repo.Upsert(ctx, &shops[i]); err != nil {
			return i, err
		}
	}
	return len(shops), nil
}

// Seed resolves the source files and upserts the result.
func Seed(ctx context.Context, repo repositories.ShopRepository, csvPath, jsonPath string) (*Result, error) {
	res, err := Resolve(csvPath, jsonPath)
	if err != nil {
		return nil, err
	}
	if _, err := Upsert(ctx, repo, res.Shops); err != nil {
		return nil, err
	}
	logger.Info().Str("source", res.Source).Str("path", res.Path).Int("count", len(res.Shops)).Msg("Shops seeded")
	return res, nil
}

// dedupe keeps the first shop for each case-insensitive, trimmed name.
// Shops without a name are never collapsed.
func dedupe(shops []models.Shop) []models.Shop {
	seen := make(map[string]struct{}, len(shops))
	out := make([]models.Shop, 0, len(shops))
	for _, s := range shops {
		key := strings.ToLower(strings.TrimSpace(s.Name))
		if key != "" {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, s)
	}
	return out
}

// cityFromAddress returns the second non-empty comma-separated segment.
func cityFromAddress(address string) string {
	var parts []string
	for _, p := range strings.Split(address, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) >= 2 {
		return parts[1]
	}
	return ""
}

func isHTTP(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "http")
}

// normalizePhotos yields exactly MaxProductPhotos entries, each an http URL
// from the source or the placeholder.
func normalizePhotos(src []string) models.PhotoList {
	photos := make(models.PhotoList, models.MaxProductPhotos)
	for i := range photos {
		photos[i] = models.PlaceholderPhoto
		if i < len(src) {
			if u := strings.TrimSpace(src[i]); isHTTP(u) {
				photos[i] = u
			}
		}
	}
	return photos
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Import converts a CSV export into the JSON snapshot at jsonPath and copies
// the export to csvDest so later seeds pick it up.
func Import(csvPath, jsonPath, csvDest string) (int, error) {
	if !fileExists(csvPath) {
		return 0, fmt.Errorf("%w: %s", ErrNoSource, csvPath)
	}
	shops, err := LoadCSV(csvPath)
	if err != nil {
		return 0, err
	}
	if err := WriteSnapshot(jsonPath, shops); err != nil {
		return 0, err
	}
	logger.Info().Str("path", jsonPath).Int("count", len(shops)).Msg("Snapshot written")

	if csvDest != "" {
		dest, err := CopyCSV(csvPath, csvDest)
		if err != nil {
			return 0, err
		}
		logger.Info().Str("path", dest).Msg("CSV copied")
	}
	return len(shops), nil
}
