package docussandra

import (
	"context"

	"github.com/docussandra/docussandra-go/pkg/connection"
	"github.com/docussandra/docussandra-go/pkg/models"
	"github.com/docussandra/docussandra-go/pkg/rest"
)

var (
	// DatabaseKind addresses databases at /databases/{name}.
	DatabaseKind = rest.ResourceKind{
		Name:     "database",
		Path:     rest.MustParseTemplate("databases"),
		Embedded: "databases",
	}
	// TableKind addresses tables at /databases/{database}/tables/{name}.
	TableKind = rest.ResourceKind{
		Name:     "table",
		Path:     rest.MustParseTemplate("databases/{database}/tables"),
		Embedded: "tables",
	}
	// IndexKind addresses indexes at /databases/{database}/tables/{table}/indexes/{name}.
	IndexKind = rest.ResourceKind{
		Name:     "index",
		Path:     rest.MustParseTemplate("databases/{database}/tables/{table}/indexes"),
		Embedded: "indexes",
	}
	// DocumentKind addresses documents at /databases/{database}/tables/{table}/{id}.
	// They are created through /databases/{database}/tables/{table}/documents and
	// listed at /databases/{database}/tables/{table}/.
	DocumentKind = rest.ResourceKind{
		Name:       "document",
		Path:       rest.MustParseTemplate("databases/{database}/tables/{table}"),
		Collection: "documents",
		ListAtPath: true,
		Embedded:   "documents",
	}
)

// Client gives access to every Docussandra resource kind through one connection.
// It is safe for concurrent use.
type Client struct {
	conn   *connection.HTTPConnection
	engine *rest.Engine

	Databases *rest.DAO[models.Database]
	Tables    *rest.DAO[models.Table]
	Indexes   *rest.DAO[models.Index]
	Documents *rest.DAO[models.Document]
}

// New creates a client from a validated Config.
func New(cfg *connection.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return FromConnection(connection.NewHTTPConnection(cfg), rest.WithCodec(cfg.Marshaler, cfg.Unmarshaler)), nil
}

// FromURL creates a client with the default Config for the endpoint URL,
// such as "http://localhost:19080".
func FromURL(rawURL string) (*Client, error) {
	cfg, err := connection.ParseConfig(rawURL)
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// FromEnv creates a client configured by the DOCUSSANDRA_* environment variables.
func FromEnv() (*Client, error) {
	cfg, err := connection.LoadEnvConfig()
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// FromConnection wires the DAOs to an existing connection.
func FromConnection(conn *connection.HTTPConnection, opts ...rest.Option) *Client {
	engine := rest.NewEngine(conn, conn.BaseURL(), opts...)
	return &Client{
		conn:      conn,
		engine:    engine,
		Databases: rest.NewDAO[models.Database](engine, DatabaseKind),
		Tables:    rest.NewDAO[models.Table](engine, TableKind),
		Indexes:   rest.NewDAO[models.Index](engine, IndexKind),
		Documents: rest.NewDAO[models.Document](engine, DocumentKind),
	}
}

// Ping checks that the server answers at the base URL.
func (c *Client) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// Engine is the engine the DAOs share, for building DAOs over other resource kinds.
func (c *Client) Engine() *rest.Engine {
	return c.engine
}

// Connection is the underlying HTTP connection.
func (c *Client) Connection() *connection.HTTPConnection {
	return c.conn
}
