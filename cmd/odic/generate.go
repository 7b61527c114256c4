// cmd/odic/generate.go
package main

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/sghaida/odic/manifest"
	"go.uber.org/zap"
)

// ImportSpec is one import line of the generated file.
type ImportSpec struct {
	Alias string
	Path  string
}

// slotView is the template view of one manifest slot.
type slotView struct {
	Name        string
	Method      string
	TypeExpr    string
	DefaultExpr string
	Result      string
}

// templateData is the input passed to the Go template.
type templateData struct {
	Package     string
	Container   string
	Strategy    string
	ImportsList []ImportSpec
	Slots       []slotView
}

// reservedMethods are generated on every wrapper and cannot be slot accessors.
var reservedMethods = map[string]bool{"Container": true}

// generate loads the manifest, renders the wrapper and writes it atomically.
func generate(cfg Config, logger *zap.Logger) error {
	spec, err := manifest.Load(cfg.SpecPath)
	if err != nil {
		return err
	}
	if spec.Package == "" {
		return fmt.Errorf("manifest %s: package is required for generation", cfg.SpecPath)
	}

	generatedFilePath := filepath.Clean(cfg.OutPath)
	packageDir := filepath.Dir(generatedFilePath)

	ownerGoFilePath, err := findOwnerGoGenerateFile(packageDir)
	if err != nil {
		// Generation still works when the manifest only uses local types.
		logger.Debug("no owner file", zap.String("dir", packageDir), zap.Error(err))
		ownerGoFilePath = ""
	}

	data, err := buildTemplateData(spec)
	if err != nil {
		return err
	}

	qualifiers, err := usedQualifiers(spec)
	if err != nil {
		return err
	}

	data.ImportsList, err = resolveImports(ownerGoFilePath, qualifiers, cfg.DIImport)
	if err != nil {
		return err
	}

	src, err := render(data)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(generatedFilePath, src, 0o644); err != nil {
		return err
	}

	logger.Info("generated container",
		zap.String("container", spec.Container),
		zap.String("strategy", spec.Strategy),
		zap.Int("slots", len(spec.Slots)),
		zap.String("out", generatedFilePath),
	)
	return nil
}

// buildTemplateData turns manifest slots into Go expressions.
func buildTemplateData(spec *manifest.Spec) (templateData, error) {
	data := templateData{
		Package:   spec.Package,
		Container: spec.Container,
		Strategy:  strategyFunc(spec.Strategy),
		Slots:     make([]slotView, 0, len(spec.Slots)),
	}

	for _, slot := range spec.Slots {
		method := slot.MethodName()
		if reservedMethods[method] {
			return templateData{}, fmt.Errorf("slot %q: accessor name %s is reserved", slot.Name, method)
		}
		data.Slots = append(data.Slots, slotView{
			Name:        strconv.Quote(slot.Name),
			Method:      method,
			TypeExpr:    typeExpr(slot.Type),
			DefaultExpr: defaultExpr(slot.Default),
			Result:      slot.AccessorType(),
		})
	}
	return data, nil
}

func strategyFunc(strategy string) string {
	if strings.EqualFold(strategy, "implicit") {
		return "Implicit"
	}
	return "Explicit"
}

func typeExpr(t string) string {
	switch t {
	case manifest.TypeCallable:
		return "di.Callable"
	case manifest.TypeDeferred:
		return "di.Deferred"
	}
	return "di.TypeOf[" + t + "]()"
}

func defaultExpr(d *manifest.DefaultSpec) string {
	switch {
	case d == nil:
		return ""
	case d.Construct != "":
		return "di.ConstructOf[" + d.Construct + "]()"
	case d.Produce != "":
		return "di.Produce(" + d.Produce + ")"
	default:
		return "di.Instance(" + d.Instance + ")"
	}
}

// usedQualifiers returns the package identifiers referenced by the manifest's
// Go expressions ("store" in "*store.Repo"), sorted.
func usedQualifiers(spec *manifest.Spec) ([]string, error) {
	seen := map[string]bool{}

	collect := func(slot, expr string) error {
		if expr == "" || expr == manifest.TypeCallable || expr == manifest.TypeDeferred {
			return nil
		}
		node, err := parser.ParseExpr(expr)
		if err != nil {
			return fmt.Errorf("slot %q: invalid Go expression %q: %w", slot, expr, err)
		}
		ast.Inspect(node, func(n ast.Node) bool {
			sel, ok := n.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			if ident, ok := sel.X.(*ast.Ident); ok {
				seen[ident.Name] = true
			}
			return true
		})
		return nil
	}

	for _, slot := range spec.Slots {
		exprs := []string{slot.Type, slot.GoType}
		if d := slot.Default; d != nil {
			exprs = append(exprs, d.Construct, d.Produce, d.Instance)
		}
		for _, expr := range exprs {
			if err := collect(slot.Name, expr); err != nil {
				return nil, err
			}
		}
	}

	out := make([]string, 0, len(seen))
	for q := range seen {
		out = append(out, q)
	}
	sort.Strings(out)
	return out, nil
}

// findOwnerGoGenerateFile finds the Go source file in packageDir that contains
// a go:generate directive invoking odic.
func findOwnerGoGenerateFile(packageDir string) (string, error) {
	dirEntries, err := os.ReadDir(packageDir)
	if err != nil {
		return "", err
	}

	for _, entry := range dirEntries {
		if entry.IsDir() {
			continue
		}

		fileName := entry.Name()
		if !strings.HasSuffix(fileName, ".go") ||
			strings.HasSuffix(fileName, "_test.go") ||
			strings.HasSuffix(fileName, ".gen.go") {
			continue
		}

		filePath := filepath.Join(packageDir, fileName)
		fileBytes, err := os.ReadFile(filePath)
		if err != nil {
			// Best-effort: an unreadable file shouldn't break generation.
			continue
		}

		if bytes.Contains(fileBytes, []byte("go:generate")) && bytes.Contains(fileBytes, []byte("odic")) {
			return filePath, nil
		}
	}

	return "", fmt.Errorf("could not find owner file with go:generate invoking odic in %s", packageDir)
}

// readImportsFromFile parses imports from a Go file.
func readImportsFromFile(goFilePath string) ([]ImportSpec, error) {
	fileSet := token.NewFileSet()
	parsedFile, err := parser.ParseFile(fileSet, goFilePath, nil, parser.ImportsOnly)
	if err != nil {
		return nil, err
	}

	var imports []ImportSpec
	for _, importDecl := range parsedFile.Imports {
		importPath := strings.Trim(importDecl.Path.Value, `"`)
		importAlias := ""
		if importDecl.Name != nil {
			importAlias = importDecl.Name.Name
		}
		imports = append(imports, ImportSpec{Alias: importAlias, Path: importPath})
	}

	return imports, nil
}

// importIdent returns the identifier an import is referred to by.
func importIdent(imp ImportSpec) string {
	if imp.Alias != "" {
		return imp.Alias
	}
	// Import paths always use forward slashes, even on Windows.
	return path.Base(strings.TrimSpace(imp.Path))
}

// resolveImports builds the final imports list for the generated file.
//
// Rules:
// - di is always imported under the identifier di
// - every other qualifier must be provided by an owner file import
// - owner imports the manifest doesn't reference are dropped
func resolveImports(ownerFilePath string, qualifiers []string, diImport string) ([]ImportSpec, error) {
	var importsFromOwner []ImportSpec
	if ownerFilePath != "" {
		var err error
		importsFromOwner, err = readImportsFromFile(ownerFilePath)
		if err != nil {
			return nil, fmt.Errorf("read owner imports: %w", err)
		}
	}

	byIdent := make(map[string]ImportSpec, len(importsFromOwner))
	for _, imp := range importsFromOwner {
		if imp.Alias == "_" || imp.Alias == "." {
			continue
		}
		byIdent[importIdent(imp)] = imp
	}

	imports := []ImportSpec{{Alias: "di", Path: diImport}}
	for _, q := range qualifiers {
		if q == "di" {
			continue
		}
		imp, ok := byIdent[q]
		if !ok {
			return nil, fmt.Errorf("manifest references package %q but no owner file import provides it", q)
		}
		imports = append(imports, imp)
	}
	return imports, nil
}

// render executes the template and gofmts the result.
func render(data templateData) ([]byte, error) {
	var out bytes.Buffer
	if err := genTemplate.Execute(&out, data); err != nil {
		return nil, err
	}
	src, err := format.Source(out.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated code: %w", err)
	}
	return src, nil
}

// genTemplate is the Go source template used to generate the wrapper.
var genTemplate = template.Must(
	template.New("odic").Parse(`// Code generated by odic; DO NOT EDIT.

package {{.Package}}

import (
{{- range .ImportsList}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)

// new{{.Container}}Registry declares the {{.Container}} slots in manifest order.
func new{{.Container}}Registry() *di.MapRegistry {
	reg := di.NewRegistry()
	{{- range .Slots}}
	reg.Declare({{.Name}}, {{.TypeExpr}})
	{{- if .DefaultExpr}}
	reg.Default({{.Name}}, {{.DefaultExpr}})
	{{- end}}
	{{- end}}
	return reg
}

// {{.Container}}Definition builds {{.Container}} containers.
var {{.Container}}Definition = di.{{.Strategy}}(new{{.Container}}Registry(), di.WithName("{{.Container}}"))

// {{.Container}} is a typed view over an immutable di.Container.
type {{.Container}} struct {
	c *di.Container
}

// Make{{.Container}} resolves inputs into a new {{.Container}}.
func Make{{.Container}}(inputs any) (*{{.Container}}, error) {
	c, err := {{.Container}}Definition.Make(inputs)
	if err != nil {
		return nil, err
	}
	return &{{.Container}}{c: c}, nil
}

// MustMake{{.Container}} is like Make{{.Container}} but panics on error.
func MustMake{{.Container}}(inputs any) *{{.Container}} {
	ctr, err := Make{{.Container}}(inputs)
	if err != nil {
		panic(err)
	}
	return ctr
}

// Container returns the underlying container.
func (ctr *{{.Container}}) Container() *di.Container { return ctr.c }
{{- range .Slots}}

func (ctr *{{$.Container}}) {{.Method}}() ({{.Result}}, error) {
	return di.GetAs[{{.Result}}](ctr.c, {{.Name}})
}
{{- end}}
`),
)
