// Package enrichment reads and writes the identity-keyed enrichment file
// that persists across ranking refreshes.
package enrichment

import (
	"bytes"
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/okian/draftboard/internal/adapters/export"
	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/ingest/csvparse"
)

// DefaultFile is the conventional enrichment file name.
const DefaultFile = "player-enrichment.csv"

// Columns is the header of the enrichment file.
var Columns = []string{
	"name", "school", "espn_id", "photo_url", "summary",
	"year", "size", "weight", "speed", "prior_rank", "fantasy_multiplier",
}

// ErrInvalidRecord marks enrichment rows with unusable numeric cells.
var ErrInvalidRecord = errors.New("invalid enrichment record")

// ReadFile loads path. A missing file is not an error: it returns no records
// and found == false.
func ReadFile(path string) (records []model.EnrichmentRecord, found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "read enrichment %s", path)
	}
	records, err = Parse(string(data))
	if err != nil {
		return nil, true, errors.Wrapf(err, "parse enrichment %s", path)
	}
	return records, true, nil
}

// Parse decodes enrichment CSV. A header-only file yields no records.
func Parse(text string) ([]model.EnrichmentRecord, error) {
	rows, err := csvparse.Parse(text)
	if errors.Is(err, csvparse.ErrTooFewLines) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]model.EnrichmentRecord, 0, len(rows))
	for _, r := range rows {
		rec := model.EnrichmentRecord{
			Name:     r.Value("name"),
			School:   r.Value("school"),
			ESPNID:   r.Value("espn_id"),
			PhotoURL: r.Value("photo_url"),
			Summary:  r.Value("summary"),
			Year:     r.Value("year"),
			Size:     r.Value("size"),
			Weight:   r.Value("weight"),
			Speed:    r.Value("speed"),
		}
		if v := r.Value("prior_rank"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return nil, errors.Wrapf(ErrInvalidRecord, "row %d: prior_rank %q", r.Line, v)
			}
			rec.PriorRank = &n
		}
		if v := r.Value("fantasy_multiplier"); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, errors.Wrapf(ErrInvalidRecord, "row %d: fantasy_multiplier %q", r.Line, v)
			}
			rec.FantasyMultiplier = &f
		}
		out = append(out, rec)
	}
	return out, nil
}

// Encode renders records as enrichment CSV.
func Encode(records []model.EnrichmentRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Columns); err != nil {
		return nil, errors.Wrap(err, "write enrichment header")
	}
	for _, r := range records {
		prior, mult := "", ""
		if r.PriorRank != nil {
			prior = strconv.Itoa(*r.PriorRank)
		}
		if r.FantasyMultiplier != nil {
			mult = strconv.FormatFloat(*r.FantasyMultiplier, 'f', -1, 64)
		}
		row := []string{
			r.Name, r.School, r.ESPNID, r.PhotoURL, r.Summary,
			r.Year, r.Size, r.Weight, r.Speed, prior, mult,
		}
		if err := w.Write(row); err != nil {
			return nil, errors.Wrapf(err, "write enrichment %s", r.Key())
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "flush enrichment")
	}
	return buf.Bytes(), nil
}

// WriteFile renders records and replaces path atomically.
func WriteFile(path string, records []model.EnrichmentRecord) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}
	return export.WriteFile(path, data)
}

// PromoteResult summarizes a promotion.
type PromoteResult struct {
	Records []model.EnrichmentRecord
	Updated int
	Added   int
}

// Promote records every board player's finalized rank as prior_rank. Other
// fields and rows for players not on the board are kept; players without a
// row get one appended in board order.
func Promote(records []model.EnrichmentRecord, board []model.PlayerRecord) PromoteResult {
	ranks := make(map[string]int, len(board))
	for _, p := range board {
		k := model.IdentityKey(p.Name, p.School)
		if _, seen := ranks[k]; !seen {
			ranks[k] = p.Rank
		}
	}

	res := PromoteResult{Records: make([]model.EnrichmentRecord, 0, len(records)+len(board))}
	matched := make(map[string]struct{}, len(records))
	for _, r := range records {
		k := r.Key()
		if rank, ok := ranks[k]; ok {
			r.PriorRank = &rank
			res.Updated++
			matched[k] = struct{}{}
		}
		res.Records = append(res.Records, r)
	}
	for _, p := range board {
		k := model.IdentityKey(p.Name, p.School)
		if _, ok := matched[k]; ok {
			continue
		}
		matched[k] = struct{}{}
		rank := ranks[k]
		res.Records = append(res.Records, model.EnrichmentRecord{
			Name:      strings.TrimSpace(p.Name),
			School:    strings.TrimSpace(p.School),
			ESPNID:    p.ESPNID,
			PriorRank: &rank,
		})
		res.Added++
	}
	return res
}
