package manifest

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log"
	"os"
	"strconv"
	"strings"
)

// ParseFile reads a plugin source file and extracts its manifest.
func ParseFile(path string) (*Manifest, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, src)
}

// Parse statically extracts a manifest from plugin source text. The
// source is never executed: only top-level var declarations named
// Requires, Trusted, Config and Info are inspected, and only values
// expressible as literals are taken. A declaration whose value cannot
// be evaluated statically is skipped with a warning so one dynamic
// expression does not hide the rest of the manifest.
func Parse(filename string, src []byte) (*Manifest, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	manifest := &Manifest{}
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.VAR {
			continue
		}
		for _, spec := range gen.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for i, name := range valueSpec.Names {
				if i >= len(valueSpec.Values) {
					continue
				}
				if err := applyDeclaration(manifest, filename, name.Name, valueSpec.Values[i]); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := validate(manifest); err != nil {
		return nil, err
	}
	return manifest, nil
}

func applyDeclaration(manifest *Manifest, filename, name string, value ast.Expr) error {
	switch name {
	case "Requires":
		evaluated, err := evalExpr(value)
		if err != nil {
			log.Printf("WARN: %s: skipping Requires: %v", filename, err)
			return nil
		}
		requires, err := toStringSlice(evaluated)
		if err != nil {
			return &ValidationError{Reason: fmt.Sprintf("Requires must be a list of strings: %v", err)}
		}
		manifest.Requires = requires

	case "Trusted":
		evaluated, err := evalExpr(value)
		if err != nil {
			log.Printf("WARN: %s: skipping Trusted: %v", filename, err)
			return nil
		}
		trusted, ok := evaluated.(bool)
		if !ok {
			return &ValidationError{Reason: fmt.Sprintf("Trusted must be a boolean, got %T", evaluated)}
		}
		manifest.Trusted = trusted

	case "Config":
		evaluated, err := evalExpr(value)
		if err != nil {
			log.Printf("WARN: %s: skipping Config: %v", filename, err)
			return nil
		}
		config, ok := evaluated.(map[string]any)
		if !ok {
			return &ValidationError{Reason: fmt.Sprintf("Config must be a map with string keys, got %T", evaluated)}
		}
		manifest.Config = config

	case "Info":
		info, err := evalInfo(value)
		if err != nil {
			log.Printf("WARN: %s: skipping Info: %v", filename, err)
			return nil
		}
		manifest.Info = info
	}
	return nil
}

func validate(m *Manifest) error {
	var descriptions []string
	if m.Info != nil {
		if len(m.Info.Patterns) != len(m.Info.Descriptions) {
			return &ValidationError{Reason: fmt.Sprintf(
				"Info declares %d patterns but %d descriptions",
				len(m.Info.Patterns), len(m.Info.Descriptions))}
		}
		descriptions = append(descriptions, m.Info.Descriptions...)
		descriptions = append(descriptions, m.Info.ExtDescriptions...)
	}

	if len(m.Config) > 0 && len(descriptions) == 0 {
		return &ValidationError{Reason: "Config declared without an Info block documenting it"}
	}

	joined := strings.Join(descriptions, " ")
	for key := range m.Config {
		if !strings.Contains(joined, key) {
			return &ValidationError{Reason: fmt.Sprintf(
				"configuration key %q is not mentioned in any command description", key)}
		}
	}
	return nil
}

// evalExpr evaluates the subset of Go expressions a manifest is
// allowed to use: basic literals, true/false, negated numbers, string
// slices and string-keyed map literals.
func evalExpr(expr ast.Expr) (any, error) {
	switch e := expr.(type) {
	case *ast.BasicLit:
		return evalBasicLit(e)

	case *ast.Ident:
		switch e.Name {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("identifier %q is not a constant", e.Name)

	case *ast.UnaryExpr:
		if e.Op != token.SUB {
			return nil, fmt.Errorf("unsupported operator %s", e.Op)
		}
		operand, err := evalExpr(e.X)
		if err != nil {
			return nil, err
		}
		switch n := operand.(type) {
		case int:
			return -n, nil
		case float64:
			return -n, nil
		}
		return nil, fmt.Errorf("cannot negate %T", operand)

	case *ast.CompositeLit:
		return evalCompositeLit(e)

	case *ast.ParenExpr:
		return evalExpr(e.X)
	}
	return nil, fmt.Errorf("expression is not statically evaluable")
}

func evalBasicLit(lit *ast.BasicLit) (any, error) {
	switch lit.Kind {
	case token.STRING:
		return strconv.Unquote(lit.Value)
	case token.INT:
		return strconv.Atoi(lit.Value)
	case token.FLOAT:
		return strconv.ParseFloat(lit.Value, 64)
	}
	return nil, fmt.Errorf("unsupported literal kind %s", lit.Kind)
}

func evalCompositeLit(lit *ast.CompositeLit) (any, error) {
	switch typ := lit.Type.(type) {
	case *ast.ArrayType:
		values := make([]any, 0, len(lit.Elts))
		for _, elt := range lit.Elts {
			value, err := evalExpr(elt)
			if err != nil {
				return nil, err
			}
			values = append(values, value)
		}
		return values, nil

	case *ast.MapType:
		values := make(map[string]any, len(lit.Elts))
		for _, elt := range lit.Elts {
			kv, ok := elt.(*ast.KeyValueExpr)
			if !ok {
				return nil, fmt.Errorf("map literal entry is not key: value")
			}
			key, err := evalExpr(kv.Key)
			if err != nil {
				return nil, err
			}
			keyStr, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("map key must be a string, got %T", key)
			}
			value, err := evalExpr(kv.Value)
			if err != nil {
				return nil, err
			}
			values[keyStr] = value
		}
		return values, nil

	default:
		return nil, fmt.Errorf("unsupported composite literal type %T", typ)
	}
}

// evalInfo evaluates the Info struct literal field by field, so an
// unknown field is an error while a well-formed block maps cleanly.
func evalInfo(expr ast.Expr) (*Info, error) {
	lit, ok := expr.(*ast.CompositeLit)
	if !ok {
		return nil, fmt.Errorf("Info must be a struct literal")
	}

	info := &Info{}
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			return nil, fmt.Errorf("Info fields must be named")
		}
		field, ok := kv.Key.(*ast.Ident)
		if !ok {
			return nil, fmt.Errorf("Info field name is not an identifier")
		}

		value, err := evalExpr(kv.Value)
		if err != nil {
			return nil, fmt.Errorf("Info field %s: %w", field.Name, err)
		}

		switch field.Name {
		case "Name":
			info.Name, err = toString(value)
		case "Category":
			info.Category, err = toString(value)
		case "Version":
			info.Version, err = toString(value)
		case "Authors":
			info.Authors, err = toStringSlice(value)
		case "Patterns":
			info.Patterns, err = toStringSlice(value)
		case "Descriptions":
			info.Descriptions, err = toStringSlice(value)
		case "ExtDescriptions":
			info.ExtDescriptions, err = toStringSlice(value)
		default:
			return nil, fmt.Errorf("unknown Info field %s", field.Name)
		}
		if err != nil {
			return nil, fmt.Errorf("Info field %s: %w", field.Name, err)
		}
	}
	return info, nil
}

func toString(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", value)
	}
	return s, nil
}

func toStringSlice(value any) ([]string, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("expected list, got %T", value)
	}
	strs := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected string element, got %T", item)
		}
		strs = append(strs, s)
	}
	return strs, nil
}
