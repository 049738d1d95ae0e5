package stylesheet

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// Extensions lists the file extensions DirProvider and FindFiles recognise,
// in lookup order.
var Extensions = []string{".yaml", ".yml", ".cue"}

// DecodeYAML decodes a YAML stylesheet. path is used for error messages.
func DecodeYAML(path string, data []byte) (*Sheet, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &DecodeError{Path: path, Message: "invalid YAML", Err: err}
	}
	if doc == nil {
		return nil, &DecodeError{Path: path, Message: "empty document"}
	}
	return build(path, doc)
}

// DecodeCUE decodes a CUE stylesheet after unifying it with the #Sheet
// schema. path is used for error messages.
func DecodeCUE(path string, data []byte) (*Sheet, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile stylesheet schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, cueError(path, "invalid CUE", err)
	}

	v = schema.LookupPath(cue.ParsePath("#Sheet")).Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(path, "schema violation", err)
	}

	raw, err := cueToGo(v)
	if err != nil {
		return nil, cueError(path, "unsupported value", err)
	}
	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, &DecodeError{Path: path, Message: "document must be a struct"}
	}
	return build(path, doc)
}

// DecodeFile reads and decodes the stylesheet at path, choosing the format
// by extension.
func DecodeFile(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stylesheet: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(path, data)
	case ".cue":
		return DecodeCUE(path, data)
	default:
		return nil, &DecodeError{Path: path, Message: "unsupported stylesheet extension"}
	}
}

// FindFiles walks root and returns every stylesheet file below it.
func FindFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && isSheetFile(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func isSheetFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// cueError keeps the position of the first CUE error in the message.
func cueError(path, message string, err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &DecodeError{Path: path, Message: message, Err: err}
	}
	first := errs[0]
	field := strings.Join(first.Path(), ".")
	if pos := first.Position(); pos.IsValid() {
		message = fmt.Sprintf("%s at %d:%d", message, pos.Line(), pos.Column())
	}
	return &DecodeError{Path: path, Field: field, Message: message, Err: err}
}

// cueToGo converts a concrete CUE value into the generic shapes YAML decodes
// to: map[string]any, []any, string, int, float64, bool and nil.
func cueToGo(v cue.Value) (any, error) {
	switch v.Kind() {
	case cue.StructKind:
		out := make(map[string]any)
		iter, err := v.Fields()
		if err != nil {
			return nil, err
		}
		for iter.Next() {
			child, err := cueToGo(iter.Value())
			if err != nil {
				return nil, err
			}
			out[iter.Selector().Unquoted()] = child
		}
		return out, nil
	case cue.ListKind:
		var out []any
		iter, err := v.List()
		if err != nil {
			return nil, err
		}
		for iter.Next() {
			child, err := cueToGo(iter.Value())
			if err != nil {
				return nil, err
			}
			out = append(out, child)
		}
		return out, nil
	case cue.StringKind:
		return v.String()
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, err
		}
		return int(n), nil
	case cue.FloatKind, cue.NumberKind:
		return v.Float64()
	case cue.BoolKind:
		return v.Bool()
	case cue.NullKind:
		return nil, nil
	default:
		return nil, fmt.Errorf("%s: unsupported kind %s", v.Path(), v.Kind())
	}
}
