package docussandra

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/docussandra/docussandra-go/internal/fakedocussandra"
	"github.com/docussandra/docussandra-go/pkg/connection"
	"github.com/docussandra/docussandra-go/pkg/constants"
	"github.com/docussandra/docussandra-go/pkg/logger"
	"github.com/docussandra/docussandra-go/pkg/models"
	"github.com/docussandra/docussandra-go/pkg/rest"
)

type ClientTestSuite struct {
	suite.Suite
	server *fakedocussandra.Server
	client *Client
	ctx    context.Context
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	s.server = fakedocussandra.NewServer("127.0.0.1:0")
	s.Require().NoError(s.server.Start())

	cfg, err := connection.ParseConfig(s.server.URL())
	s.Require().NoError(err)
	cfg.Logger = logger.Nop()
	cfg.Timeout = 5 * time.Second
	s.client, err = New(cfg)
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func (s *ClientTestSuite) TearDownTest() {
	s.Require().NoError(s.server.Stop())
}

func (s *ClientTestSuite) seedTable() {
	_, err := s.client.Databases.Create(s.ctx, models.Identifier{}, models.NewDatabase("testdb"))
	s.Require().NoError(err)
	_, err = s.client.Tables.Create(s.ctx, models.NewIdentifier("testdb"), models.Table{Name: "testtable"})
	s.Require().NoError(err)
}

func (s *ClientTestSuite) TestPing() {
	s.NoError(s.client.Ping(s.ctx))
}

func (s *ClientTestSuite) TestDatabaseLifecycle() {
	created, err := s.client.Databases.Create(s.ctx, models.Identifier{}, models.Database{Name: "testdb", Description: "for tests"})
	s.Require().NoError(err)
	s.Equal("testdb", created.Name)
	s.NotNil(created.CreatedAt)

	ok, err := s.client.Databases.Exists(s.ctx, models.NewIdentifier("testdb"))
	s.Require().NoError(err)
	s.True(ok)

	created.Description = "changed"
	s.Require().NoError(s.client.Databases.Update(s.ctx, created))
	read, err := s.client.Databases.Read(s.ctx, created.Identifier())
	s.Require().NoError(err)
	s.Equal("changed", read.Description)

	s.Require().NoError(s.client.Databases.Delete(s.ctx, created.Identifier()))
	ok, err = s.client.Databases.Exists(s.ctx, models.NewIdentifier("testdb"))
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ClientTestSuite) TestDuplicateCreateIsRemoteError() {
	s.seedTable()

	_, err := s.client.Tables.Create(s.ctx, models.NewIdentifier("testdb"), models.Table{Name: "testtable"})
	var re *rest.RemoteError
	s.Require().ErrorAs(err, &re)
	s.Equal(http.StatusConflict, re.StatusCode)
}

func (s *ClientTestSuite) TestIndexes() {
	s.seedTable()

	idx := models.Index{
		Name:   "byname",
		Fields: []models.IndexField{{Field: "name", Type: models.FieldText}},
	}
	created, err := s.client.Indexes.Create(s.ctx, models.NewIdentifier("testdb", "testtable"), idx)
	s.Require().NoError(err)
	s.Equal(models.NewIdentifier("testdb", "testtable", "byname"), created.Identifier())

	list, err := s.client.Indexes.ReadAll(s.ctx, models.NewIdentifier("testdb", "testtable"), 0, 0)
	s.Require().NoError(err)
	s.Require().Equal(1, list.Len())
	s.Equal([]models.IndexField{{Field: "name", Type: models.FieldText}}, list.Values()[0].Fields)
}

func (s *ClientTestSuite) TestDocuments() {
	s.seedTable()
	table := models.NewIdentifier("testdb", "testtable")

	var ids []uuid.UUID
	for _, greeting := range []string{"hi", "hello", "hey"} {
		doc, err := s.client.Documents.Create(s.ctx, table, models.Document{Object: map[string]any{"greeting": greeting}})
		s.Require().NoError(err)
		s.NotEqual(uuid.Nil, doc.ID)
		ids = append(ids, doc.ID)
	}

	read, err := s.client.Documents.Read(s.ctx, table.Append(ids[0].String()))
	s.Require().NoError(err)
	s.Equal("hi", read.Object["greeting"])
	s.Equal("testtable", read.Table)

	page, err := s.client.Documents.ReadAll(s.ctx, table, 2, 1)
	s.Require().NoError(err)
	s.Equal("/databases/testdb/tables/testtable/", s.server.Requests()[s.server.Calls()-1].Path)
	s.Require().Equal(2, page.Len())
	s.Equal(ids[1], page.Values()[0].ID)
	s.Equal(ids[2], page.Values()[1].ID)

	read.Object["greeting"] = "bye"
	s.Require().NoError(s.client.Documents.Update(s.ctx, read))
	again, err := s.client.Documents.Read(s.ctx, read.Identifier())
	s.Require().NoError(err)
	s.Equal("bye", again.Object["greeting"])

	s.Require().NoError(s.client.Documents.Delete(s.ctx, read.Identifier()))
	_, err = s.client.Documents.Read(s.ctx, read.Identifier())
	s.Equal(rest.KindNotFound, rest.KindOf(err))
}

func (s *ClientTestSuite) TestQuery() {
	s.seedTable()
	table := models.NewIdentifier("testdb", "testtable")
	for _, color := range []string{"red", "blue", "red"} {
		_, err := s.client.Documents.Create(s.ctx, table, models.Document{Object: map[string]any{"color": color, "size": 3}})
		s.Require().NoError(err)
	}

	q := models.Query{Database: "testdb", Table: "testtable", Where: "color = 'red'"}
	res, err := s.client.Query(s.ctx, q, 0, 0)
	s.Require().NoError(err)
	s.Require().Equal(2, res.Len())
	for _, doc := range res.Values() {
		s.Equal("red", doc.Object["color"])
		s.Equal("testdb", doc.Database)
	}

	type shirt struct {
		Color string `json:"color"`
		Size  int    `json:"size"`
	}
	shirts, err := QueryAs[shirt](s.ctx, s.client, q, 1, 0)
	s.Require().NoError(err)
	s.Equal([]shirt{{Color: "red", Size: 3}}, shirts)

	req := s.server.Requests()[s.server.Calls()-1]
	s.Equal("/databases/testdb/queries", req.Path)
	s.Equal("1", req.Query.Get(constants.ParamLimit))
}

func (s *ClientTestSuite) TestQuery_InvalidIsCallerError() {
	_, err := s.client.Query(s.ctx, models.Query{Database: "testdb", Table: "testtable"}, 0, 0)
	s.ErrorIs(err, constants.ErrCaller)
	s.Equal(0, s.server.Calls())
}

func (s *ClientTestSuite) TestQuery_MissingDatabaseNamesQuery() {
	_, err := s.client.Query(s.ctx, models.Query{Table: "testtable", Where: "color = 'red'"}, 0, 0)
	var ce *rest.CallerError
	s.Require().ErrorAs(err, &ce)
	s.Equal("query", ce.Op)
	s.Equal(0, s.server.Calls())
}

func (s *ClientTestSuite) TestEndToEndScenarios() {
	id := "11111111-0000-0000-0000-000000000001"
	path := "/databases/testdb/tables/testtable/" + id
	s.server.AddStubResponse(fakedocussandra.SimpleStubResponse(http.MethodGet, path, `{"greeting":"hi","_links":{}}`))
	s.server.AddStubResponse(fakedocussandra.StubResponse{
		Matcher: fakedocussandra.Match(http.MethodDelete, path),
		Status:  http.StatusNoContent,
	})

	doc, err := s.client.Documents.Read(s.ctx, models.NewIdentifier("testdb", "testtable", id))
	s.Require().NoError(err)
	s.Equal(map[string]any{"greeting": "hi"}, doc.Object)

	s.NoError(s.client.Documents.Delete(s.ctx, models.NewIdentifier("testdb", "testtable", id)))

	calls := s.server.Calls()
	_, err = s.client.Documents.Read(s.ctx, models.NewIdentifier("testdb"))
	s.Equal(rest.KindCallerError, rest.KindOf(err))
	s.Equal(calls, s.server.Calls())
}

func (s *ClientTestSuite) TestExistsPropagatesServerFailure() {
	s.server.AddStubResponse(fakedocussandra.ErrorStubResponse(http.MethodGet, "/databases/testdb", http.StatusInternalServerError, "down"))

	ok, err := s.client.Databases.Exists(s.ctx, models.NewIdentifier("testdb"))
	s.False(ok)
	var re *rest.RemoteError
	s.Require().ErrorAs(err, &re)
	s.Equal("down", re.Message())
}

func (s *ClientTestSuite) TestTransportFailures() {
	s.server.AddStubResponse(fakedocussandra.StubResponse{
		Matcher:  fakedocussandra.Match(http.MethodGet, "/databases/dropped"),
		Failures: []fakedocussandra.FailureConfig{{Type: fakedocussandra.FailureDropConnection, Probability: 1}},
	})
	s.server.AddStubResponse(fakedocussandra.StubResponse{
		Matcher:  fakedocussandra.Match(http.MethodGet, "/databases/garbled"),
		Body:     `{"name":"garbled"}`,
		Failures: []fakedocussandra.FailureConfig{{Type: fakedocussandra.FailureInvalidResponse, Probability: 1}},
	})

	_, err := s.client.Databases.Read(s.ctx, models.NewIdentifier("dropped"))
	s.Equal(rest.KindTransportFailure, rest.KindOf(err))

	_, err = s.client.Databases.Read(s.ctx, models.NewIdentifier("garbled"))
	s.Equal(rest.KindDecodeFailure, rest.KindOf(err))
}

func (s *ClientTestSuite) TestTimeoutIsTransportFailure() {
	s.server.SetGlobalFailures([]fakedocussandra.FailureConfig{{
		Type: fakedocussandra.FailureRequestDelay, Probability: 1, MinDelay: time.Second,
	}})
	ctx, cancel := context.WithTimeout(s.ctx, 50*time.Millisecond)
	defer cancel()

	_, err := s.client.Databases.Read(ctx, models.NewIdentifier("testdb"))
	s.Equal(rest.KindTransportFailure, rest.KindOf(err))
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := FromURL("ftp://example.com")
	require.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(constants.EnvURL, "http://localhost:19080/")
	t.Setenv(constants.EnvToken, "abc")

	c, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:19080", c.Connection().BaseURL())
	require.Equal(t, "http://localhost:19080", c.Engine().BaseURL())
}
