package benchmark_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	docussandra "github.com/docussandra/docussandra-go"
	"github.com/docussandra/docussandra-go/internal/mock"
	"github.com/docussandra/docussandra-go/pkg/models"
	"github.com/docussandra/docussandra-go/pkg/rest"
)

const base = "http://localhost:19080"

func listBody(n int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"id":"11111111-0000-0000-0000-%012d","n":%d,"_links":{"self":{"href":"/x"}}}`, i, i)
	}
	return `{"_links":{},"_embedded":{"documents":[` + strings.Join(items, ",") + `]}}`
}

// BenchmarkRead benchmarks resolve, classify and decode of a single document
func BenchmarkRead(b *testing.B) {
	m := mock.Create().Respond(http.MethodGet, http.StatusOK, `{"greeting":"hi","_links":{"self":{"href":"/x"}}}`)
	dao := rest.NewDAO[models.Document](rest.NewEngine(m, base), docussandra.DocumentKind)
	id := models.NewIdentifier("db", "table", "11111111-0000-0000-0000-000000000001")
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := dao.Read(ctx, id); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkReadAll benchmarks decoding a page of 100 documents
func BenchmarkReadAll(b *testing.B) {
	m := mock.Create().Respond(http.MethodGet, http.StatusOK, listBody(100))
	dao := rest.NewDAO[models.Document](rest.NewEngine(m, base), docussandra.DocumentKind)
	prefix := models.NewIdentifier("db", "table")
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := dao.ReadAll(ctx, prefix, 100, 0); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkResolve(b *testing.B) {
	tmpl := docussandra.IndexKind.Path
	id := models.NewIdentifier("db", "table", "index name")
	for i := 0; i < b.N; i++ {
		if _, err := rest.Resolve(base, tmpl, id, 3); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkShallowIdentifier benchmarks the caller error path, which never invokes
func BenchmarkShallowIdentifier(b *testing.B) {
	m := mock.Create()
	dao := rest.NewDAO[models.Document](rest.NewEngine(m, base), docussandra.DocumentKind)
	id := models.NewIdentifier("db")
	ctx := context.Background()

	for i := 0; i < b.N; i++ {
		if _, err := dao.Read(ctx, id); err == nil {
			b.Fatal("expected a caller error")
		}
	}
	if m.Calls() != 0 {
		b.Fatalf("invoked %d times", m.Calls())
	}
}
