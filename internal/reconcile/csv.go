package reconcile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"mainstreet/internal/models"
)

// LoadCSV reads a boutique export and returns the canonical, de-duplicated shops.
func LoadCSV(path string) ([]models.Shop, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	shops, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return shops, nil
}

// ParseCSV reads export rows. Columns are looked up by header name; rows
// without an ID are dropped.
func ParseCSV(r io.Reader) ([]models.Shop, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return []models.Shop{}, nil
	}
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		index[strings.TrimSpace(name)] = i
	}

	var shops []models.Shop
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := csvRow{index: index, record: record}
		if shop, ok := row.shop(); ok {
			shops = append(shops, shop)
		}
	}
	return dedupe(shops), nil
}

type csvRow struct {
	index  map[string]int
	record []string
}

func (r csvRow) get(column string) string {
	i, ok := r.index[column]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func (r csvRow) shop() (models.Shop, bool) {
	id := r.get("ID")
	if id == "" {
		return models.Shop{}, false
	}

	address := r.get("Address")
	logo := r.get("Logo")
	hero := r.get("Hero Image")
	if hero == "" && isHTTP(logo) {
		hero = logo
	}
	category := r.get("Category")
	if category == "" {
		category = r.get("Shop Type")
	}

	src := make([]string, models.MaxProductPhotos)
	for i := range src {
		src[i] = r.get("Product Images " + strconv.Itoa(i+1))
	}

	return models.Shop{
		ID:            id,
		Name:          r.get("Boutique Name"),
		Address:       address,
		City:          cityFromAddress(address),
		Category:      category,
		Description:   r.get("50-Word Description"),
		Link:          r.get("Website"),
		ShopImage:     hero,
		Logo:          logo,
		ProductPhotos: normalizePhotos(src),
		ProductCount:  r.get("Estimated Item Count"),
	}, true
}

// CopyCSV copies the export into dataDir under the seed file name unless it
// is already there. It returns the destination path.
func CopyCSV(src, dest string) (string, error) {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return "", err
	}
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return "", err
	}
	if absSrc == absDest {
		return dest, nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to copy csv: %w", err)
	}
	return dest, out.Close()
}
