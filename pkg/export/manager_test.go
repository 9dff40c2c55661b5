package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knewkarma/pkg/normalize"
)

func str(s string) *string { return &s }
func num(n int64) *int64   { return &n }

func testPosts() []normalize.Record {
	return normalize.Records([]normalize.Post{
		{ID: str("a1"), Title: str("hello, world"), Score: num(10), Created: "NaN"},
		{ID: str("b2"), Title: str("second"), Edited: normalize.Edited{At: "01 January 2024, 10:00:00AM"}, Created: "NaN"},
	})
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir(), nil)
	require.NoError(t, err)
	m.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }
	return m
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestExportWritesEveryFormat(t *testing.T) {
	m := newTestManager(t)
	ds := Dataset{Mode: "user", Action: "posts", Records: testPosts()}

	written, err := m.Export(ds, []string{"csv", "html", "json", "xml", "md"})
	require.NoError(t, err)
	require.Len(t, written, 5)

	for _, w := range written {
		want := filepath.Join(m.GetOutputDir(), "user", "posts", w.Format, "2024-05-01_12-30-00."+w.Format)
		assert.Equal(t, want, w.Path)
		info, err := os.Stat(w.Path)
		require.NoError(t, err)
		assert.Equal(t, info.Size(), w.Size)
		_, err = os.Stat(w.Path + ".tmp")
		assert.True(t, os.IsNotExist(err), "temporary file must be renamed")
	}

	csv := readFile(t, written[0].Path)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, strings.ToLower(lines[0]), "title")
	assert.Contains(t, csv, `"hello, world"`)

	assert.Contains(t, readFile(t, written[1].Path), "<table")

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(readFile(t, written[2].Path)), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, false, decoded[0]["edited"])
	assert.Equal(t, "01 January 2024, 10:00:00AM", decoded[1]["edited"])
	assert.Nil(t, decoded[0]["body"])

	xmlOut := readFile(t, written[3].Path)
	assert.Contains(t, xmlOut, "<data>")
	assert.Contains(t, xmlOut, "<title>hello, world</title>")
	assert.Equal(t, 2, strings.Count(xmlOut, "<row>"))

	assert.Contains(t, strings.ToLower(readFile(t, written[4].Path)), "| title |")
}

func TestExportSingleRecord(t *testing.T) {
	m := newTestManager(t)
	user := normalize.User{
		Name:      str("spez"),
		Community: &normalize.CommunityPreview{Name: str("u_spez"), Created: "NaN"},
		Created:   "NaN",
	}
	ds := Dataset{Mode: "user", Action: "profile", Records: []normalize.Record{user}, Single: true}

	written, err := m.Export(ds, []string{"json", "csv"})
	require.NoError(t, err)

	var obj map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(readFile(t, written[0].Path)), &obj))
	assert.Equal(t, "spez", obj["name"])
	assert.Contains(t, obj, "total_karma")

	csv := readFile(t, written[1].Path)
	assert.Contains(t, csv, "name,spez")
	assert.Contains(t, csv, "u_spez")
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	m := newTestManager(t)
	ds := Dataset{Mode: "posts", Action: "new", Records: testPosts()}

	_, err := m.Export(ds, []string{"json", "pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv, html, json, xml, md")

	_, statErr := os.Stat(filepath.Join(m.GetOutputDir(), "posts"))
	assert.True(t, os.IsNotExist(statErr), "nothing is written when a format is invalid")
}

func TestExportTargetPrefixesFileName(t *testing.T) {
	m := newTestManager(t)
	for _, name := range []string{"spez", "kn0thing"} {
		ds := Dataset{Mode: "user", Action: "posts", Target: name, Records: testPosts()}
		_, err := m.Export(ds, []string{"json"})
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(filepath.Join(m.GetOutputDir(), "user", "posts", "json"))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{
		"spez_2024-05-01_12-30-00.json",
		"kn0thing_2024-05-01_12-30-00.json",
	}, names)
}

func TestExportEmptyList(t *testing.T) {
	m := newTestManager(t)
	written, err := m.Export(Dataset{Mode: "search", Action: "users"}, []string{"json"})
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(readFile(t, written[0].Path)))
}

func TestTabulate(t *testing.T) {
	header, rows := Tabulate(testPosts(), false, "null")
	assert.Equal(t, "author", header[0])
	require.Len(t, rows, 2)
	assert.Equal(t, "null", rows[0][0])
	assert.Equal(t, "hello, world", rows[0][1])
	assert.Len(t, rows[0], len(header))

	header, rows = Tabulate([]normalize.Record{normalize.CommunityCount{Community: "golang", Count: 3}}, true, "")
	assert.Equal(t, "key", header[0])
	assert.Equal(t, "count", rows[1][0])
	assert.Equal(t, "3", rows[1][1])

	header, rows = Tabulate(nil, false, "")
	assert.Empty(t, header)
	assert.Empty(t, rows)
}

func TestCellRendersNestedRecordsAsJSON(t *testing.T) {
	preview := normalize.CommunityPreview{Name: str("golang"), Created: "NaN"}
	cell := Cell(preview, "")
	assert.True(t, strings.HasPrefix(cell, `{"name":"golang"`))
	assert.Equal(t, "true", Cell(true, ""))
	assert.Equal(t, "0.5", Cell(0.5, ""))
	assert.Equal(t, "-", Cell(nil, "-"))
}
