package docussandra

import (
	"context"
	"fmt"
	"net/http"

	"github.com/docussandra/docussandra-go/pkg/hal"
	"github.com/docussandra/docussandra-go/pkg/models"
	"github.com/docussandra/docussandra-go/pkg/rest"
)

// QueryResponse is one page of the documents matching a query, in server order.
type QueryResponse = hal.List[models.Document]

var queryPath = rest.MustParseTemplate("databases/{database}/queries")

// Query runs q against its table and returns one page of matching documents.
// limit <= 0 leaves the page size to the server.
func (c *Client) Query(ctx context.Context, q models.Query, limit int, offset int64) (*QueryResponse, error) {
	const op = "query"
	u, err := c.engine.Resolve(queryPath, q.Identifier(), queryPath.Placeholders())
	if err != nil {
		return nil, rest.WithOp(op, err)
	}
	if err := q.Validate(); err != nil {
		return nil, &rest.CallerError{Op: op, Reason: fmt.Sprintf("invalid query: %v", err)}
	}
	page, err := rest.Page(op, limit, offset)
	if err != nil {
		return nil, err
	}
	payload, err := c.engine.Encode(op, q)
	if err != nil {
		return nil, err
	}

	body, err := c.engine.Do(ctx, http.MethodPost, u, page, payload)
	if err != nil {
		return nil, err
	}
	table := q.Identifier()
	return hal.DecodeList(c.engine.Unmarshaler(), body, DocumentKind.Collection, func(d *models.Document) {
		d.SetIdentifier(table)
	})
}

// QueryAs runs q and decodes each matching document's object into T.
func QueryAs[T any](ctx context.Context, c *Client, q models.Query, limit int, offset int64) ([]T, error) {
	res, err := c.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, res.Len())
	for _, doc := range res.Values() {
		var v T
		if err := doc.DecodeObject(&v); err != nil {
			return nil, &rest.DecodeError{Reason: fmt.Sprintf("document %s", doc.ID), Err: err}
		}
		out = append(out, v)
	}
	return out, nil
}
