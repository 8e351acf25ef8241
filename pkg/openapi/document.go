package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

var (
	// ErrOperationNotFound reports that no operation matched the selector.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoRequestSchema reports an operation without a usable object schema.
	ErrNoRequestSchema = errors.New("openapi: operation has no request body schema")
)

// Selector picks the operation whose request body describes the form. An
// empty selector matches the first POST operation, ordered by path.
type Selector struct {
	OperationID string
	Method      string
	Path        string
}

func (s Selector) String() string {
	switch {
	case s.OperationID != "":
		return "operationId " + s.OperationID
	case s.Path != "":
		return strings.ToUpper(s.method()) + " " + s.Path
	default:
		return "first POST operation"
	}
}

func (s Selector) method() string {
	if s.Method == "" {
		return "POST"
	}
	return strings.ToUpper(s.Method)
}

// Document wraps a loaded OpenAPI 3 document.
type Document struct {
	spec *openapi3.T
}

// LoadData parses a JSON or YAML document.
func LoadData(ctx context.Context, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	return load(ctx, func(l *openapi3.Loader) (*openapi3.T, error) {
		return l.LoadFromData(data)
	})
}

// LoadFile reads a document from disk. Relative $refs resolve against the
// file's directory.
func LoadFile(ctx context.Context, path string) (*Document, error) {
	return load(ctx, func(l *openapi3.Loader) (*openapi3.T, error) {
		return l.LoadFromFile(path)
	})
}

// LoadURL fetches a document over HTTP(S).
func LoadURL(ctx context.Context, raw string) (*Document, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: parse url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("openapi: unsupported url scheme %q", u.Scheme)
	}
	return load(ctx, func(l *openapi3.Loader) (*openapi3.T, error) {
		return l.LoadFromURI(u)
	})
}

func load(ctx context.Context, fn func(*openapi3.Loader) (*openapi3.T, error)) (*Document, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: true,
	}
	spec, err := fn(loader)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi: document does not contain any paths")
	}
	return &Document{spec: spec}, nil
}

// Title returns the document's info title, if any.
func (d *Document) Title() string {
	if d == nil || d.spec == nil || d.spec.Info == nil {
		return ""
	}
	return d.spec.Info.Title
}

// Operation resolves sel to a method, path and operation.
func (d *Document) Operation(sel Selector) (string, string, *openapi3.Operation, error) {
	if d == nil || d.spec == nil || d.spec.Paths == nil {
		return "", "", nil, ErrOperationNotFound
	}
	items := d.spec.Paths.Map()
	paths := make([]string, 0, len(items))
	for path := range items {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		item := items[path]
		if item == nil {
			continue
		}
		if sel.Path != "" && sel.OperationID == "" && path != sel.Path {
			continue
		}
		methods := item.Operations()
		names := make([]string, 0, len(methods))
		for method := range methods {
			names = append(names, method)
		}
		sort.Strings(names)
		for _, method := range names {
			op := methods[method]
			if op == nil {
				continue
			}
			if sel.OperationID != "" {
				if op.OperationID == sel.OperationID {
					return method, path, op, nil
				}
				continue
			}
			if strings.EqualFold(method, sel.method()) {
				return method, path, op, nil
			}
		}
	}
	return "", "", nil, fmt.Errorf("%w: %s", ErrOperationNotFound, sel)
}

// requestSchema prefers JSON bodies, then the two form encodings.
func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mime := range []string{
		"application/json",
		"application/x-www-form-urlencoded",
		"multipart/form-data",
	} {
		media := content.Get(mime)
		if media == nil || media.Schema == nil || media.Schema.Value == nil {
			continue
		}
		return media.Schema.Value
	}
	return nil
}
