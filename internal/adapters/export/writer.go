package export

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/okian/draftboard/internal/domain/model"
)

// Output file names of a build.
const (
	BoardFile   = "players-final.json"
	PlayersFile = "players.csv"
	SourcesFile = "player-sources.csv"
)

const filePerm = 0o644

// File is one rendered output.
type File struct {
	Path string
	Data []byte
}

// Render produces every output of a board under dir. Nothing is written; the
// JSON document is checked against the board schema first.
func Render(dir string, players []model.PlayerRecord) ([]File, error) {
	board, err := EncodeJSON(players)
	if err != nil {
		return nil, err
	}
	if err := ValidateJSON(board); err != nil {
		return nil, err
	}
	playersCSV, sourcesCSV, err := EncodeTables(players)
	if err != nil {
		return nil, err
	}
	return []File{
		{Path: filepath.Join(dir, BoardFile), Data: board},
		{Path: filepath.Join(dir, PlayersFile), Data: playersCSV},
		{Path: filepath.Join(dir, SourcesFile), Data: sourcesCSV},
	}, nil
}

// WriteAll writes files in order, each atomically.
func WriteAll(files []File) error {
	for _, f := range files {
		if err := WriteFile(f.Path, f.Data); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile replaces path with data through a synced temp file in the same
// directory. A failure leaves any previous file intact.
func WriteFile(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Mark(errors.Wrapf(err, "create %s", dir), ErrWrite)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "create temp file for %s", path), ErrWrite)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.Mark(errors.Wrapf(err, "write %s", tmp.Name()), ErrWrite)
	}
	if err = tmp.Sync(); err != nil {
		return errors.Mark(errors.Wrapf(err, "sync %s", tmp.Name()), ErrWrite)
	}
	if err = tmp.Close(); err != nil {
		return errors.Mark(errors.Wrapf(err, "close %s", tmp.Name()), ErrWrite)
	}
	if err = os.Chmod(tmp.Name(), filePerm); err != nil {
		return errors.Mark(errors.Wrapf(err, "chmod %s", tmp.Name()), ErrWrite)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Mark(errors.Wrapf(err, "rename onto %s", path), ErrWrite)
	}
	return nil
}
