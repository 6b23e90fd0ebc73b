package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/docussandra/docussandra-go/pkg/constants"
	"github.com/docussandra/docussandra-go/pkg/hal"
	"github.com/docussandra/docussandra-go/pkg/models"
)

// ResourceKind configures a DAO for one kind of resource.
type ResourceKind struct {
	// Name is used in error messages, e.g. "document".
	Name string
	// Path addresses the collection the resource lives in; the resource id is
	// appended to it. e.g. "databases/{database}/tables".
	Path Template
	// Collection is a literal segment appended to Path for create and list calls,
	// e.g. "documents". Empty when Path already names the collection.
	Collection string
	// ListAtPath lists at Path itself, with a trailing slash, instead of under
	// Collection. Documents are created under ".../{table}/documents" but listed
	// at ".../{table}/".
	ListAtPath bool
	// Embedded is the _embedded member holding list items. Defaults to Collection.
	Embedded string
}

func (k ResourceKind) embedded() string {
	if k.Embedded != "" {
		return k.Embedded
	}
	return k.Collection
}

// DAO exposes create, read, list, update, delete and exists over one resource kind.
//
// Every operation checks the identifier depth it needs before building a URL, so an
// identifier that is too shallow fails with a CallerError and sends nothing.
type DAO[T models.Entity] struct {
	engine *Engine
	kind   ResourceKind
}

func NewDAO[T models.Entity](engine *Engine, kind ResourceKind) *DAO[T] {
	return &DAO[T]{engine: engine, kind: kind}
}

func (d *DAO[T]) Kind() ResourceKind {
	return d.kind
}

// ResourceDepth is the identifier depth addressing a single resource.
func (d *DAO[T]) ResourceDepth() int {
	return d.kind.Path.Placeholders() + 1
}

// CollectionDepth is the identifier depth addressing the collection, one less than
// ResourceDepth.
func (d *DAO[T]) CollectionDepth() int {
	return d.kind.Path.Placeholders()
}

// Create posts obj to the collection addressed by prefix and returns the created
// resource as the server reports it.
func (d *DAO[T]) Create(ctx context.Context, prefix models.Identifier, obj T) (T, error) {
	res, err := d.CreateResource(ctx, prefix, obj)
	if err != nil {
		var zero T
		return zero, err
	}
	return res.Value, nil
}

func (d *DAO[T]) CreateResource(ctx context.Context, prefix models.Identifier, obj T) (*hal.Resource[T], error) {
	op := "create " + d.kind.Name
	u, err := d.engine.Resolve(d.kind.Path, prefix, d.CollectionDepth(), d.kind.Collection)
	if err != nil {
		return nil, WithOp(op, err)
	}
	at := prefix.Prefix(d.CollectionDepth())
	bind(&obj, at)
	if err := validate(op, obj); err != nil {
		return nil, err
	}
	payload, err := d.engine.Encode(op, obj)
	if err != nil {
		return nil, err
	}

	body, err := d.engine.Do(ctx, http.MethodPost, u, nil, payload)
	if err != nil {
		return nil, err
	}
	return hal.DecodeSingle(d.engine.Unmarshaler(), body, binder[T](at))
}

// Read fetches the resource at id. A missing resource is a NotFoundError.
func (d *DAO[T]) Read(ctx context.Context, id models.Identifier) (T, error) {
	res, err := d.ReadResource(ctx, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return res.Value, nil
}

// ReadResource is Read keeping the resource's links.
func (d *DAO[T]) ReadResource(ctx context.Context, id models.Identifier) (*hal.Resource[T], error) {
	op := "read " + d.kind.Name
	u, err := d.engine.Resolve(d.kind.Path, id, d.ResourceDepth())
	if err != nil {
		return nil, WithOp(op, err)
	}
	body, err := d.engine.Do(ctx, http.MethodGet, u, nil, nil)
	if err != nil {
		return nil, err
	}
	return hal.DecodeSingle(d.engine.Unmarshaler(), body, binder[T](id.Prefix(d.ResourceDepth())))
}

// ReadAll lists one page of the collection addressed by prefix, in server order.
func (d *DAO[T]) ReadAll(ctx context.Context, prefix models.Identifier, limit int, offset int64) (*hal.List[T], error) {
	op := "list " + d.kind.Name
	u, err := d.listURL(prefix)
	if err != nil {
		return nil, WithOp(op, err)
	}
	query, err := Page(op, limit, offset)
	if err != nil {
		return nil, err
	}
	body, err := d.engine.Do(ctx, http.MethodGet, u, query, nil)
	if err != nil {
		return nil, err
	}
	return hal.DecodeList(d.engine.Unmarshaler(), body, d.kind.embedded(), binder[T](prefix.Prefix(d.CollectionDepth())))
}

func (d *DAO[T]) listURL(prefix models.Identifier) (string, error) {
	if !d.kind.ListAtPath {
		return d.engine.Resolve(d.kind.Path, prefix, d.CollectionDepth(), d.kind.Collection)
	}
	u, err := d.engine.Resolve(d.kind.Path, prefix, d.CollectionDepth())
	if err != nil {
		return "", err
	}
	return u + "/", nil
}

// Update replaces the resource at obj.Identifier(). The response body is ignored.
func (d *DAO[T]) Update(ctx context.Context, obj T) error {
	op := "update " + d.kind.Name
	u, err := d.engine.Resolve(d.kind.Path, obj.Identifier(), d.ResourceDepth())
	if err != nil {
		return WithOp(op, err)
	}
	if err := validate(op, obj); err != nil {
		return err
	}
	payload, err := d.engine.Encode(op, obj)
	if err != nil {
		return err
	}
	_, err = d.engine.Do(ctx, http.MethodPut, u, nil, payload)
	return err
}

// Delete removes the resource at id.
func (d *DAO[T]) Delete(ctx context.Context, id models.Identifier) error {
	op := "delete " + d.kind.Name
	u, err := d.engine.Resolve(d.kind.Path, id, d.ResourceDepth())
	if err != nil {
		return WithOp(op, err)
	}
	_, err = d.engine.Do(ctx, http.MethodDelete, u, nil, nil)
	return err
}

// Exists reports whether the resource at id exists. Only a 404 means false; any other
// failure is returned.
func (d *DAO[T]) Exists(ctx context.Context, id models.Identifier) (bool, error) {
	op := "exists " + d.kind.Name
	u, err := d.engine.Resolve(d.kind.Path, id, d.ResourceDepth())
	if err != nil {
		return false, WithOp(op, err)
	}
	_, err = d.engine.Do(ctx, http.MethodGet, u, nil, nil)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, constants.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func bind[T any](obj *T, id models.Identifier) {
	if b, ok := any(obj).(models.Binder); ok {
		b.SetIdentifier(id)
	}
}

func binder[T any](id models.Identifier) func(*T) {
	return func(obj *T) { bind(obj, id) }
}

func validate[T any](op string, obj T) error {
	v, ok := any(&obj).(models.Validator)
	if !ok {
		return nil
	}
	if err := v.Validate(); err != nil {
		return callerErr(op, "invalid %s", err)
	}
	return nil
}

// WithOp renames the operation of a CallerError, e.g. one raised by Resolve, to op.
// Other errors are returned unchanged.
func WithOp(op string, err error) error {
	var ce *CallerError
	if errors.As(err, &ce) {
		return &CallerError{Op: op, Reason: ce.Reason}
	}
	return err
}
