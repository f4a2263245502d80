package fleet

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaCUE string

// SchemaError reports a fixture that does not conform to the fleet schema.
type SchemaError struct {
	Filename string
	Details  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: fixture does not match schema:\n%s", e.Filename, e.Details)
}

// ValidateSchema checks raw fixture YAML against the #Snapshot definition.
func ValidateSchema(filename string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile fleet schema: %w", err)
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return &SchemaError{Filename: filename, Details: cueerrors.Details(err, nil)}
	}

	value := ctx.BuildFile(file)
	if err := value.Err(); err != nil {
		return &SchemaError{Filename: filename, Details: cueerrors.Details(err, nil)}
	}

	unified := schema.LookupPath(cue.ParsePath("#Snapshot")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &SchemaError{Filename: filename, Details: cueerrors.Details(err, nil)}
	}
	return nil
}
