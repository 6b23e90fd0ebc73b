package fakedocussandra

import (
	"net/http"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/docussandra/docussandra-go/pkg/constants"
)

// Paths the store understands, relative to the base URL:
//
//	databases                                  list, create
//	databases/{db}                             read, update, delete
//	databases/{db}/tables                      list, create
//	databases/{db}/tables/{t}                  read, update, delete
//	databases/{db}/tables/{t}/indexes          list, create
//	databases/{db}/tables/{t}/indexes/{i}      read, update, delete
//	databases/{db}/tables/{t}/                 list documents
//	databases/{db}/tables/{t}/documents        create
//	databases/{db}/tables/{t}/{id}             read, update, delete
//	databases/{db}/queries                     query
const (
	segDatabases = "databases"
	segTables    = "tables"
	segIndexes   = "indexes"
	segDocuments = "documents"
	segQueries   = "queries"
)

type entry struct {
	seq  int
	key  string
	body map[string]any
}

type store struct {
	mu      sync.Mutex
	seq     int
	entries map[string]*entry
}

func newStore() *store {
	return &store{entries: make(map[string]*entry)}
}

func (s *store) serve(w http.ResponseWriter, r *http.Request, body []byte) {
	p := strings.Trim(r.URL.Path, "/")
	if p == "" {
		if r.Method == http.MethodGet {
			writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
			return
		}
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	segs := strings.Split(p, "/")
	if segs[0] != segDatabases {
		writeError(w, http.StatusNotFound, "no such resource: /"+p)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch collection, ok := collectionOf(segs); {
	case isDocumentList(r.URL.Path, segs):
		s.serveDocumentList(w, r, segs)
	case ok:
		s.serveCollection(w, r, segs, collection, body)
	case len(segs) == 3 && segs[2] == segQueries:
		s.serveQuery(w, r, segs[1], body)
	case isResource(segs):
		s.serveResource(w, r, segs, body)
	default:
		writeError(w, http.StatusNotFound, "no such resource: /"+p)
	}
}

// collectionOf names the collection a path lists, if it is a collection path.
func collectionOf(segs []string) (string, bool) {
	switch {
	case len(segs) == 1:
		return segDatabases, true
	case len(segs) == 3 && segs[2] == segTables:
		return segTables, true
	case len(segs) == 5 && segs[2] == segTables && segs[4] == segIndexes:
		return segIndexes, true
	case len(segs) == 5 && segs[2] == segTables && segs[4] == segDocuments:
		return segDocuments, true
	}
	return "", false
}

// isDocumentList reports the table path with a trailing slash, where documents
// are listed.
func isDocumentList(rawPath string, segs []string) bool {
	return strings.HasSuffix(rawPath, "/") && len(segs) == 4 && segs[2] == segTables
}

func (s *store) serveDocumentList(w http.ResponseWriter, r *http.Request, segs []string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	table := strings.Join(segs, "/")
	if s.entries[table] == nil {
		writeError(w, http.StatusNotFound, "no such resource: /"+table)
		return
	}
	s.list(w, r, "/"+table+"/", segDocuments, s.children(table, segDocuments))
}

func isResource(segs []string) bool {
	switch {
	case len(segs) == 2:
		return true
	case len(segs) == 4 && segs[2] == segTables:
		return true
	case len(segs) == 5 && segs[2] == segTables:
		_, err := uuid.Parse(segs[4])
		return err == nil
	case len(segs) == 6 && segs[2] == segTables && segs[4] == segIndexes:
		return true
	}
	return false
}

// storage returns where members of a collection live and the parent that must exist.
func storage(segs []string, collection string) (dir, parent string) {
	switch collection {
	case segDocuments:
		return strings.Join(segs[:4], "/"), strings.Join(segs[:4], "/")
	case segDatabases:
		return segDatabases, ""
	default:
		return strings.Join(segs, "/"), strings.Join(segs[:len(segs)-1], "/")
	}
}

func (s *store) serveCollection(w http.ResponseWriter, r *http.Request, segs []string, collection string, body []byte) {
	dir, parent := storage(segs, collection)
	if parent != "" && s.entries[parent] == nil {
		writeError(w, http.StatusNotFound, "no such resource: /"+parent)
		return
	}

	switch {
	case r.Method == http.MethodGet && collection != segDocuments:
		s.list(w, r, "/"+strings.Join(segs, "/"), collection, s.children(dir, collection))
	case r.Method == http.MethodPost:
		obj, ok := decodeObject(w, body)
		if !ok {
			return
		}
		var key string
		if collection == segDocuments {
			obj["id"] = uuid.NewString()
			key = dir + "/" + obj["id"].(string)
		} else {
			name, _ := obj["name"].(string)
			if name == "" || strings.Contains(name, "/") {
				writeError(w, http.StatusBadRequest, "name is required")
				return
			}
			key = dir + "/" + name
		}
		if s.entries[key] != nil {
			writeError(w, http.StatusConflict, "already exists: /"+key)
			return
		}
		now := time.Now().UTC().Format(time.RFC3339Nano)
		obj["createdAt"] = now
		obj["updatedAt"] = now
		s.seq++
		s.entries[key] = &entry{seq: s.seq, key: key, body: obj}
		writeJSON(w, http.StatusCreated, withLinks(obj, "/"+key))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *store) serveResource(w http.ResponseWriter, r *http.Request, segs []string, body []byte) {
	key := strings.Join(segs, "/")
	e := s.entries[key]
	if e == nil {
		writeError(w, http.StatusNotFound, "no such resource: /"+key)
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, withLinks(e.body, "/"+key))
	case http.MethodPut:
		obj, ok := decodeObject(w, body)
		if !ok {
			return
		}
		for _, keep := range []string{"id", "name", "createdAt"} {
			if v, ok := e.body[keep]; ok {
				obj[keep] = v
			}
		}
		obj["updatedAt"] = time.Now().UTC().Format(time.RFC3339Nano)
		e.body = obj
		writeJSON(w, http.StatusOK, withLinks(obj, "/"+key))
	case http.MethodDelete:
		for k := range s.entries {
			if k == key || strings.HasPrefix(k, key+"/") {
				delete(s.entries, k)
			}
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *store) serveQuery(w http.ResponseWriter, r *http.Request, db string, body []byte) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var q struct {
		Table string `json:"table"`
		Where string `json:"where"`
	}
	if err := gojson.Unmarshal(body, &q); err != nil || q.Table == "" {
		writeError(w, http.StatusBadRequest, "query needs a table")
		return
	}
	table := path.Join(segDatabases, db, segTables, q.Table)
	if s.entries[table] == nil {
		writeError(w, http.StatusNotFound, "no such resource: /"+table)
		return
	}
	field, value, filtered := parseWhere(q.Where)

	var docs []*entry
	for _, e := range s.children(table, segDocuments) {
		if !filtered || fmtValue(e.body[field]) == value {
			docs = append(docs, e)
		}
	}
	s.list(w, r, "/"+path.Join(segDatabases, db, segQueries), segDocuments, docs)
}

// parseWhere understands the single equality form "field = 'value'".
func parseWhere(where string) (field, value string, ok bool) {
	f, v, found := strings.Cut(where, "=")
	if !found {
		return "", "", false
	}
	field = strings.TrimSpace(f)
	value = strings.Trim(strings.TrimSpace(v), "'\"")
	return field, value, field != ""
}

func fmtValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		b, _ := gojson.Marshal(t)
		return string(b)
	}
}

// children returns the direct members of dir in creation order.
func (s *store) children(dir, collection string) []*entry {
	var out []*entry
	for k, e := range s.entries {
		rest, ok := strings.CutPrefix(k, dir+"/")
		if !ok || strings.Contains(rest, "/") {
			continue
		}
		if collection == segDocuments {
			if _, err := uuid.Parse(rest); err != nil {
				continue
			}
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func (s *store) list(w http.ResponseWriter, r *http.Request, self, collection string, all []*entry) {
	query := r.URL.Query()
	offset, _ := strconv.Atoi(query.Get(constants.ParamOffset))
	limit, _ := strconv.Atoi(query.Get(constants.ParamLimit))
	if offset < 0 || offset > len(all) {
		offset = len(all)
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	items := make([]map[string]any, 0, end-offset)
	for _, e := range all[offset:end] {
		items = append(items, withLinks(e.body, "/"+e.key))
	}
	links := map[string]any{"self": map[string]any{"href": self + queryString(query)}}
	if end < len(all) {
		next := url.Values{}
		next.Set(constants.ParamOffset, strconv.Itoa(end))
		if limit > 0 {
			next.Set(constants.ParamLimit, strconv.Itoa(limit))
		}
		links["next"] = map[string]any{"href": self + "?" + next.Encode()}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		constants.LinksKey:    links,
		constants.EmbeddedKey: map[string]any{collection: items},
	})
}

func queryString(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func withLinks(obj map[string]any, self string) map[string]any {
	out := make(map[string]any, len(obj)+1)
	for k, v := range obj {
		out[k] = v
	}
	out[constants.LinksKey] = map[string]any{"self": map[string]any{"href": self}}
	return out
}

func decodeObject(w http.ResponseWriter, body []byte) (map[string]any, bool) {
	var obj map[string]any
	if err := gojson.Unmarshal(body, &obj); err != nil || obj == nil {
		writeError(w, http.StatusBadRequest, "body must be a JSON object")
		return nil, false
	}
	delete(obj, constants.LinksKey)
	delete(obj, constants.EmbeddedKey)
	return obj, true
}
