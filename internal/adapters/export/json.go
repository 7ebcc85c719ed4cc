// Package export renders boards to the JSON array and the flat table pair,
// and writes outputs atomically.
package export

import (
	_ "embed"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/xeipuuv/gojsonschema"

	"github.com/okian/draftboard/internal/domain/model"
)

//go:embed board.schema.json
var boardSchema string

var schemaLoader = gojsonschema.NewStringLoader(boardSchema)

// EncodeJSON renders players as a 2-space indented JSON array.
func EncodeJSON(players []model.PlayerRecord) ([]byte, error) {
	if players == nil {
		players = []model.PlayerRecord{}
	}
	out, err := sonic.ConfigStd.MarshalIndent(players, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encode board json")
	}
	return append(out, '\n'), nil
}

// DecodeJSON parses a JSON board. Records without sources get an empty list.
func DecodeJSON(data []byte) ([]model.PlayerRecord, error) {
	var players []model.PlayerRecord
	if err := sonic.ConfigStd.Unmarshal(data, &players); err != nil {
		return nil, errors.Wrap(err, "decode board json")
	}
	for i := range players {
		if players[i].Sources == nil {
			players[i].Sources = []model.SourceRanking{}
		}
	}
	return players, nil
}

// SchemaError lists the JSON schema violations of a document.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	msg := "board json violates schema"
	for i, v := range e.Violations {
		if i == 3 {
			return msg + " (and more)"
		}
		msg += "; " + v
	}
	return msg
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchemaViolation }

// ValidateJSON checks data against the embedded board schema.
func ValidateJSON(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return errors.Wrap(err, "load board json for validation")
	}
	if result.Valid() {
		return nil
	}
	se := &SchemaError{Violations: make([]string, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		se.Violations = append(se.Violations, field+": "+desc.Description())
	}
	return se
}
