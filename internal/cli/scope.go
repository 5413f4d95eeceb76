package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/caasets/internal/projection"
)

// Scope is a dataset selection read from a CUE file:
//
//	interviews: ["S1", "S2"]
//	properties: [1, 2, 3]
//	globals: []
//	client_as_text: false
//
// Absent fields are unset; an empty list is an explicit empty selection.
type Scope struct {
	Interviews   projection.Filter[string]
	Properties   projection.Filter[int64]
	Globals      projection.Filter[int64]
	ClientAsText *bool
}

// LoadError represents an error that occurred while loading a scope file.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var scopeFields = map[string]bool{
	"interviews":     true,
	"properties":     true,
	"globals":        true,
	"client_as_text": true,
}

// LoadScope loads and decodes a CUE scope file. Unknown top-level fields
// are rejected so typos do not silently widen a selection.
func LoadScope(path string) (*Scope, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("scope file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing scope file: %v", err)}
	}
	if info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("scope path is a directory: %s", path)}
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: filepath.Dir(path)}
	instances := load.Instances([]string{"./" + filepath.Base(path)}, cfg)
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE file: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	iter, err := value.Fields()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScopeInvalid, Message: fmt.Sprintf("scope must be a struct: %v", err)}
	}
	for iter.Next() {
		if !scopeFields[iter.Selector().String()] {
			return nil, &LoadError{
				Code:    ErrCodeScopeInvalid,
				Message: fmt.Sprintf("unknown field %q (want interviews, properties, globals, client_as_text)", iter.Selector().String()),
				Pos:     iter.Value().Pos(),
			}
		}
	}

	scope := &Scope{}

	var names []string
	if ok, err := decodeField(value, "interviews", &names); err != nil {
		return nil, err
	} else if ok {
		scope.Interviews = projection.Only(names...)
	}

	var props []int64
	if ok, err := decodeField(value, "properties", &props); err != nil {
		return nil, err
	} else if ok {
		scope.Properties = projection.Only(props...)
	}

	var globals []int64
	if ok, err := decodeField(value, "globals", &globals); err != nil {
		return nil, err
	} else if ok {
		scope.Globals = projection.Only(globals...)
	}

	var clientAsText bool
	if ok, err := decodeField(value, "client_as_text", &clientAsText); err != nil {
		return nil, err
	} else if ok {
		scope.ClientAsText = &clientAsText
	}

	return scope, nil
}

// decodeField decodes the named field into dst, reporting whether it exists.
func decodeField(value cue.Value, name string, dst any) (bool, error) {
	field := value.LookupPath(cue.ParsePath(name))
	if !field.Exists() {
		return false, nil
	}
	if err := field.Decode(dst); err != nil {
		return false, &LoadError{
			Code:    ErrCodeScopeInvalid,
			Message: fmt.Sprintf("%s: %v", name, err),
			Pos:     field.Pos(),
		}
	}
	return true, nil
}
