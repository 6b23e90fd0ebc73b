package rest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docussandra/docussandra-go/pkg/constants"
	"github.com/docussandra/docussandra-go/pkg/models"
)

const testBase = "http://localhost:8081"

func TestParseTemplate(t *testing.T) {
	tmpl, err := ParseTemplate("databases/{database}/tables/{table}")
	require.NoError(t, err)
	assert.Equal(t, 2, tmpl.Placeholders())
	assert.Equal(t, "databases/{database}/tables/{table}", tmpl.String())

	tmpl, err = ParseTemplate("/databases/")
	require.NoError(t, err)
	assert.Equal(t, 0, tmpl.Placeholders())

	for _, bad := range []string{"databases//tables", "databases/{}", "databases/x{db}", "databases/{{db}}"} {
		_, err := ParseTemplate(bad)
		assert.Error(t, err, bad)
	}
}

func TestMustParseTemplate_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParseTemplate("a/{b") })
}

func TestResolve(t *testing.T) {
	tables := MustParseTemplate("databases/{database}/tables")
	docs := MustParseTemplate("databases/{database}/tables/{table}")

	cases := []struct {
		name   string
		tmpl   Template
		id     models.Identifier
		depth  int
		suffix []string
		want   string
	}{
		{"collection", tables, models.NewIdentifier("db"), 1, nil, testBase + "/databases/db/tables"},
		{"resource", tables, models.NewIdentifier("db", "t"), 2, nil, testBase + "/databases/db/tables/t"},
		{"deeper is truncated", tables, models.NewIdentifier("db", "t", "extra"), 2, nil, testBase + "/databases/db/tables/t"},
		{"suffix", docs, models.NewIdentifier("db", "t"), 2, []string{"documents"}, testBase + "/databases/db/tables/t/documents"},
		{"escaped component", tables, models.NewIdentifier("a/b", "c d"), 2, nil, testBase + "/databases/a%2Fb/tables/c%20d"},
		{"no placeholders", MustParseTemplate("databases"), models.Identifier{}, 0, nil, testBase + "/databases"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Resolve(testBase+"/", tc.tmpl, tc.id, tc.depth, tc.suffix...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolve_CallerErrors(t *testing.T) {
	tables := MustParseTemplate("databases/{database}/tables")

	_, err := Resolve(testBase, tables, models.NewIdentifier("db"), 2)
	assert.ErrorIs(t, err, constants.ErrCaller)

	_, err = Resolve(testBase, tables, models.NewIdentifier("", "t"), 2)
	assert.ErrorIs(t, err, constants.ErrCaller)

	_, err = Resolve(testBase, tables, models.NewIdentifier("db", "t"), 0)
	assert.ErrorIs(t, err, constants.ErrCaller)

	_, err = Resolve(testBase, tables, models.NewIdentifier("db", ".."), 2)
	assert.ErrorIs(t, err, constants.ErrCaller)
}
