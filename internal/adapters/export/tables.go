package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/okian/draftboard/internal/domain/model"
)

const byteOrderMark = "\uFEFF"

// PlayerColumns is the header of players.csv.
var PlayerColumns = []string{
	"id", "rank", "name", "pos", "school", "year", "size", "weight", "speed",
	"tier", "consensusRank", "fantasyRank", "sourceCount", "grade", "draftScore",
	"isGenerational", "fantasyMultiplier", "previousRank", "rankChange",
	"espnId", "photoUrl", "summary", "highlightUrl", "initials",
}

// SourceColumns is the header of player-sources.csv.
var SourceColumns = []string{"player_id", "source", "rank", "weight"}

// EncodeTables renders players.csv and player-sources.csv.
func EncodeTables(players []model.PlayerRecord) (playersCSV, sourcesCSV []byte, err error) {
	var pb, sb bytes.Buffer
	pw, sw := csv.NewWriter(&pb), csv.NewWriter(&sb)

	if err := pw.Write(PlayerColumns); err != nil {
		return nil, nil, errors.Wrap(err, "write players header")
	}
	if err := sw.Write(SourceColumns); err != nil {
		return nil, nil, errors.Wrap(err, "write sources header")
	}
	for _, p := range players {
		if err := pw.Write(playerRow(p)); err != nil {
			return nil, nil, errors.Wrapf(err, "write player %d", p.ID)
		}
		for _, s := range p.Sources {
			row := []string{itoa(p.ID), s.Source, itoa(s.Rank), ftoa(s.Weight)}
			if err := sw.Write(row); err != nil {
				return nil, nil, errors.Wrapf(err, "write sources of player %d", p.ID)
			}
		}
	}
	pw.Flush()
	sw.Flush()
	if err := pw.Error(); err != nil {
		return nil, nil, errors.Wrap(err, "flush players")
	}
	if err := sw.Error(); err != nil {
		return nil, nil, errors.Wrap(err, "flush sources")
	}
	return pb.Bytes(), sb.Bytes(), nil
}

func playerRow(p model.PlayerRecord) []string {
	prev := ""
	if p.PreviousRank != nil {
		prev = itoa(*p.PreviousRank)
	}
	return []string{
		itoa(p.ID), itoa(p.Rank), p.Name, string(p.Position), p.School,
		p.Year, p.Size, p.Weight, p.Speed,
		itoa(p.Tier), ftoa(p.ConsensusRank), itoa(p.FantasyRank), itoa(p.SourceCount),
		ftoa(p.Grade), ftoa(p.DraftScore), strconv.FormatBool(p.IsGenerational),
		ftoa(p.FantasyMultiplier), prev, itoa(p.RankChange),
		p.ESPNID, p.PhotoURL, p.Summary, p.HighlightURL, p.Initials,
	}
}

// DecodeTables rebuilds a board from the flat pair. The source file may be
// nil. Players keep file order; players without source rows get an empty list.
func DecodeTables(playersCSV, sourcesCSV []byte) ([]model.PlayerRecord, error) {
	sources, err := decodeSources(sourcesCSV)
	if err != nil {
		return nil, err
	}

	t, err := readTable("players.csv", playersCSV, "id", "name")
	if err != nil {
		return nil, err
	}
	players := make([]model.PlayerRecord, 0, len(t.rows))
	for i := range t.rows {
		r := rowReader{table: t, row: i}
		p := model.PlayerRecord{
			ID:                r.int("id"),
			Rank:              r.int("rank"),
			Name:              r.str("name"),
			Position:          model.Position(r.str("pos")),
			School:            r.str("school"),
			Year:              r.str("year"),
			Size:              r.str("size"),
			Weight:            r.str("weight"),
			Speed:             r.str("speed"),
			Tier:              r.int("tier"),
			ConsensusRank:     r.float("consensusRank"),
			FantasyRank:       r.int("fantasyRank"),
			SourceCount:       r.int("sourceCount"),
			Grade:             r.float("grade"),
			DraftScore:        r.float("draftScore"),
			IsGenerational:    r.bool("isGenerational"),
			FantasyMultiplier: r.float("fantasyMultiplier"),
			PreviousRank:      r.optInt("previousRank"),
			RankChange:        r.int("rankChange"),
			ESPNID:            r.str("espnId"),
			PhotoURL:          r.str("photoUrl"),
			Summary:           r.str("summary"),
			HighlightURL:      r.str("highlightUrl"),
			Initials:          r.str("initials"),
		}
		if r.err != nil {
			return nil, r.err
		}
		p.Sources = sources[p.ID]
		if p.Sources == nil {
			p.Sources = []model.SourceRanking{}
		}
		players = append(players, p)
	}
	return players, nil
}

// DecodeSourceRows parses player-sources.csv into rows in file order.
func DecodeSourceRows(sourcesCSV []byte) ([]model.SourceRow, error) {
	if len(bytes.TrimSpace(sourcesCSV)) == 0 {
		return nil, nil
	}
	t, err := readTable("player-sources.csv", sourcesCSV, "player_id", "source", "rank")
	if err != nil {
		return nil, err
	}
	out := make([]model.SourceRow, 0, len(t.rows))
	for i := range t.rows {
		r := rowReader{table: t, row: i}
		w := r.float("weight")
		if w <= 0 {
			w = 1.0
		}
		row := model.SourceRow{
			PlayerID: r.int("player_id"),
			Ranking:  model.SourceRanking{Source: r.str("source"), Rank: r.int("rank"), Weight: w},
		}
		if r.err != nil {
			return nil, r.err
		}
		out = append(out, row)
	}
	return out, nil
}

func decodeSources(sourcesCSV []byte) (map[int][]model.SourceRanking, error) {
	rows, err := DecodeSourceRows(sourcesCSV)
	if err != nil {
		return nil, err
	}
	by := make(map[int][]model.SourceRanking)
	for _, r := range rows {
		by[r.PlayerID] = append(by[r.PlayerID], r.Ranking)
	}
	return by, nil
}

type table struct {
	name  string
	index map[string]int
	rows  [][]string
	lines []int
}

func readTable(name string, data []byte, required ...string) (*table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(ErrMalformedTable, "%s: missing header", name)
	}
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "%s", name), ErrMalformedTable)
	}
	t := &table{name: name, index: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, byteOrderMark))
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
	for _, c := range required {
		if _, ok := t.index[c]; !ok {
			return nil, errors.Wrapf(ErrMalformedTable, "%s: missing column %q", name, c)
		}
	}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "%s", name), ErrMalformedTable)
		}
		line, _ := r.FieldPos(0)
		t.rows = append(t.rows, rec)
		t.lines = append(t.lines, line)
	}
	return t, nil
}

// rowReader converts cells, keeping the first conversion error.
type rowReader struct {
	table *table
	row   int
	err   error
}

func (r *rowReader) str(col string) string {
	i, ok := r.table.index[col]
	rec := r.table.rows[r.row]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func (r *rowReader) fail(col, v string, err error) {
	if r.err == nil {
		r.err = errors.Mark(
			errors.Wrapf(err, "%s: line %d: column %s: %q", r.table.name, r.table.lines[r.row], col, v),
			ErrMalformedTable,
		)
	}
}

func (r *rowReader) int(col string) int {
	v := r.str(col)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(col, v, err)
	}
	return n
}

func (r *rowReader) optInt(col string) *int {
	if r.str(col) == "" {
		return nil
	}
	n := r.int(col)
	return &n
}

func (r *rowReader) float(col string) float64 {
	v := r.str(col)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(col, v, err)
	}
	return f
}

func (r *rowReader) bool(col string) bool {
	v := r.str(col)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(col, v, err)
	}
	return b
}

func itoa(n int) string { return strconv.Itoa(n) }

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
