// Package docussandra is a client for the Docussandra document database REST API.
//
// # Resources
//
// Docussandra resources form a hierarchy addressed by [models.Identifier]:
// databases contain tables, and tables contain indexes and documents.
// [Client] exposes one DAO per kind. Every DAO is the same generic
// [rest.DAO], configured with the path template of its kind, so every kind
// offers the same Create, Read, ReadAll, Update, Delete and Exists operations.
//
//	client, err := docussandra.FromURL("http://localhost:19080")
//	...
//	doc, err := client.Documents.Read(ctx, models.NewIdentifier("mydb", "mytable", id))
//
// # Errors
//
// Failures are typed. Use [rest.KindOf] or errors.Is with the sentinels in
// [github.com/docussandra/docussandra-go/pkg/constants] to tell a caller error
// (nothing was sent) from a transport failure, a 404, another non-2xx status
// or an unexpected response body.
//
// The client never retries. Mutations are not assumed to be idempotent.
//
// # Queries
//
// [Client.Query] runs a where clause over a table's indexed fields and
// [QueryAs] decodes the matching documents into your own type.
package docussandra
