package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/api/middleware"
	"github.com/phrazzld/learning-tracker/internal/api/shared"
	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/events"
	"github.com/phrazzld/learning-tracker/internal/mocks"
	"github.com/phrazzld/learning-tracker/internal/platform/logger"
	"github.com/phrazzld/learning-tracker/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testServer serves the API over real services backed by in-memory stores.
type testServer struct {
	userID     uuid.UUID
	category   *domain.Category
	items      *mocks.MockLearningItemStore
	modules    *mocks.MockModuleStore
	deps       *mocks.MockDependencyStore
	categories *mocks.MockCategoryStore
	tags       *mocks.MockTagStore
	handler    http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log, _ := logger.NewTestLogger()
	userID := uuid.New()
	category, err := domain.NewCategory(userID, "Backend", "#336699")
	require.NoError(t, err)

	ts := &testServer{
		userID:     userID,
		category:   category,
		items:      mocks.NewMockLearningItemStore(),
		modules:    mocks.NewMockModuleStore(),
		deps:       mocks.NewMockDependencyStore(),
		categories: mocks.NewMockCategoryStore(category),
		tags:       mocks.NewMockTagStore(),
	}
	ts.items.OnDelete = func(id uuid.UUID) {
		ts.modules.DeleteByLearningItemID(id)
		ts.deps.DeleteByItemID(id)
	}

	tx := &mocks.MockTransactor{}
	emitter := events.NewInMemoryEventEmitter(log)

	depSvc, err := service.NewDependencyService(tx, ts.items, ts.deps, emitter, log)
	require.NoError(t, err)
	moduleSvc, err := service.NewModuleService(tx, ts.items, ts.modules, emitter, log)
	require.NoError(t, err)
	itemSvc, err := service.NewLearningItemService(tx, ts.items, ts.modules, ts.categories, ts.tags, emitter, log)
	require.NoError(t, err)
	categorySvc, err := service.NewCategoryService(ts.categories, log)
	require.NoError(t, err)
	tagSvc, err := service.NewTagService(ts.tags, ts.items, log)
	require.NoError(t, err)

	handlers := &Handlers{
		Items:        NewItemHandler(itemSvc, log),
		Modules:      NewModuleHandler(moduleSvc, log),
		Dependencies: NewDependencyHandler(depSvc, log),
		Categories:   NewCategoryHandler(categorySvc, log),
		Tags:         NewTagHandler(tagSvc, log),
	}

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(mocks.ForUser(userID)).Authenticate)
		handlers.Mount(r)
	})
	ts.handler = r
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer test-token")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) createItem(t *testing.T, title string, modules ...string) ItemDetailsResponse {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/items", map[string]any{
		"category_id": ts.category.ID,
		"title":       title,
		"kind":        "course",
		"modules":     modules,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp ItemDetailsResponse
	require.NoError(t, decodeBody(rec, &resp))
	return resp
}

func decodeBody(rec *httptest.ResponseRecorder, v any) error {
	return json.NewDecoder(rec.Body).Decode(v)
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body shared.ErrorResponse
	require.NoError(t, decodeBody(rec, &body))
	return body.Error
}

func TestItemLifecycle(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	created := ts.createItem(t, "Distributed Systems", "Clocks", "Consensus", "Replication", "Transactions")
	assert.Equal(t, "Backlog", created.Status)
	assert.Equal(t, 0.0, created.Progress)
	require.Len(t, created.Modules, 4)
	assert.Equal(t, "Clocks", created.Modules[0].Title)
	assert.Equal(t, 3, created.Modules[3].Order)

	itemPath := "/api/items/" + created.ID.String()

	for _, m := range created.Modules[:3] {
		rec := ts.do(t, http.MethodPatch, "/api/modules/"+m.ID.String()+"/status",
			UpdateStatusRequest{Status: "Concluido"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := ts.do(t, http.MethodGet, itemPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var details ItemDetailsResponse
	require.NoError(t, decodeBody(rec, &details))
	assert.Equal(t, 75.0, details.Progress)

	rec = ts.do(t, http.MethodPatch, itemPath+"/status", UpdateStatusRequest{Status: "Concluido"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var done ItemResponse
	require.NoError(t, decodeBody(rec, &done))
	assert.Equal(t, 100.0, done.Progress)

	rec = ts.do(t, http.MethodPatch, itemPath+"/status", UpdateStatusRequest{Status: "Backlog"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Cannot change learning item status from Concluido to Backlog", errorMessage(t, rec))

	rec = ts.do(t, http.MethodGet, "/api/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []ItemResponse
	require.NoError(t, decodeBody(rec, &list))
	require.Len(t, list, 1)

	rec = ts.do(t, http.MethodDelete, itemPath, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = ts.do(t, http.MethodGet, itemPath, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Learning item not found", errorMessage(t, rec))
}

func TestCreateItemValidation(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	tests := []struct {
		name     string
		body     any
		status   int
		contains string
	}{
		{"empty body", "", http.StatusBadRequest, "Request body is required"},
		{"malformed JSON", "{", http.StatusBadRequest, "Invalid request format"},
		{
			"unknown field",
			`{"category_id":"` + ts.category.ID.String() + `","title":"x","kind":"book","progress":50}`,
			http.StatusBadRequest,
			"Invalid request format",
		},
		{
			"unknown kind",
			map[string]any{"category_id": ts.category.ID, "title": "x", "kind": "podcast"},
			http.StatusBadRequest,
			"kind: must be one of",
		},
		{
			"unknown category",
			map[string]any{"category_id": uuid.New(), "title": "x", "kind": "book"},
			http.StatusNotFound,
			"Category not found",
		},
		{
			"blank title",
			map[string]any{"category_id": ts.category.ID, "title": "   ", "kind": "book"},
			http.StatusBadRequest,
			"Invalid title",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/items", tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.Contains(t, errorMessage(t, rec), tc.contains)
		})
	}
}

func TestUnauthenticatedRequests(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}

func TestForeignItemIsForbidden(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	other, err := domain.NewLearningItem(uuid.New(), ts.category.ID, "Not mine", domain.ItemKindBook)
	require.NoError(t, err)
	ts.items.Put(other)

	rec := ts.do(t, http.MethodGet, "/api/items/"+other.ID.String(), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/items/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "not-a-uuid")
}

func TestModuleEndpoints(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	item := ts.createItem(t, "Compilers")
	modulesPath := "/api/items/" + item.ID.String() + "/modules"

	rec := ts.do(t, http.MethodPost, modulesPath, AddModulesRequest{Titles: []string{"Lexing", "Parsing", "Codegen"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var added []ModuleResponse
	require.NoError(t, decodeBody(rec, &added))
	require.Len(t, added, 3)

	rec = ts.do(t, http.MethodPost, modulesPath, AddModulesRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	zero, one, two := 0, 1, 2
	rec = ts.do(t, http.MethodPut, modulesPath+"/order", ReorderModulesRequest{Modules: []ModuleOrderRequest{
		{ID: added[2].ID, Order: &zero},
		{ID: added[0].ID, Order: &one},
		{ID: added[1].ID, Order: &two},
	}})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, modulesPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []ModuleResponse
	require.NoError(t, decodeBody(rec, &listed))
	titles := make([]string, 0, len(listed))
	for _, m := range listed {
		titles = append(titles, m.Title)
	}
	assert.Equal(t, []string{"Codegen", "Lexing", "Parsing"}, titles)

	rec = ts.do(t, http.MethodGet, modulesPath+"?sort=title&direction=desc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, decodeBody(rec, &listed))
	assert.Equal(t, "Parsing", listed[0].Title)

	rec = ts.do(t, http.MethodGet, modulesPath+"?sort=priority", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	other := ts.createItem(t, "Networks", "TCP")
	rec = ts.do(t, http.MethodPut, modulesPath+"/order", ReorderModulesRequest{Modules: []ModuleOrderRequest{
		{ID: other.Modules[0].ID, Order: &zero},
	}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	modulePath := "/api/modules/" + added[0].ID.String()
	rec = ts.do(t, http.MethodPatch, modulePath, RenameModuleRequest{Title: "Scanning"})
	require.Equal(t, http.StatusOK, rec.Code)
	var renamed ModuleResponse
	require.NoError(t, decodeBody(rec, &renamed))
	assert.Equal(t, "Scanning", renamed.Title)

	rec = ts.do(t, http.MethodPatch, modulePath+"/status", UpdateStatusRequest{Status: "Finished"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodDelete, modulePath, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, ts.modules.Get(added[0].ID))
}

func TestDependencyEndpoints(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	a := ts.createItem(t, "Algebra")
	b := ts.createItem(t, "Calculus")
	c := ts.createItem(t, "Analysis")

	addDep := func(source, target uuid.UUID) *httptest.ResponseRecorder {
		return ts.do(t, http.MethodPost, "/api/items/"+source.String()+"/dependencies",
			AddDependencyRequest{TargetItemID: target})
	}

	rec := addDep(c.ID, b.ID)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var dep DependencyResponse
	require.NoError(t, decodeBody(rec, &dep))
	rec = addDep(b.ID, a.ID)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = addDep(a.ID, c.ID)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Dependency would create a circular reference in the dependency chain", errorMessage(t, rec))

	rec = addDep(a.ID, a.ID)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "An item cannot depend on itself", errorMessage(t, rec))

	rec = addDep(c.ID, b.ID)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 2, ts.deps.Count())

	rec = ts.do(t, http.MethodPost, "/api/dependencies/check",
		CheckDependencyRequest{SourceItemID: a.ID, TargetItemID: c.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	var check DependencyCheckResponse
	require.NoError(t, decodeBody(rec, &check))
	assert.Equal(t, DependencyCheckResponse{Allowed: false, Verdict: "cycle"}, check)

	rec = ts.do(t, http.MethodPost, "/api/dependencies/check",
		CheckDependencyRequest{SourceItemID: c.ID, TargetItemID: a.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, decodeBody(rec, &check))
	assert.Equal(t, DependencyCheckResponse{Allowed: true, Verdict: "allowed"}, check)

	rec = ts.do(t, http.MethodGet, "/api/items/"+b.ID.String()+"/dependents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dependents []DependencyResponse
	require.NoError(t, decodeBody(rec, &dependents))
	require.Len(t, dependents, 1)
	assert.Equal(t, c.ID, dependents[0].SourceItemID)

	rec = ts.do(t, http.MethodGet, "/api/items/"+b.ID.String()+"/dependencies", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var prereqs []DependencyResponse
	require.NoError(t, decodeBody(rec, &prereqs))
	require.Len(t, prereqs, 1)
	assert.Equal(t, a.ID, prereqs[0].TargetItemID)

	rec = ts.do(t, http.MethodDelete, "/api/dependencies/"+dep.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = addDep(a.ID, c.ID)
	assert.Equal(t, http.StatusCreated, rec.Code, "removing c->b breaks the cycle")
}

func TestCategoryEndpoints(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/categories", CreateCategoryRequest{Name: "Math", Color: "#ff0000"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var math CategoryResponse
	require.NoError(t, decodeBody(rec, &math))

	rec = ts.do(t, http.MethodPost, "/api/categories", CreateCategoryRequest{Name: "Math", Color: "#00ff00"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/categories", CreateCategoryRequest{Name: "Art", Color: "blue"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "Invalid color")

	color := "#00f"
	rec = ts.do(t, http.MethodPatch, "/api/categories/"+math.ID.String(), UpdateCategoryRequest{Color: &color})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated CategoryResponse
	require.NoError(t, decodeBody(rec, &updated))
	assert.Equal(t, "Math", updated.Name)
	assert.Equal(t, "#00f", updated.Color)

	rec = ts.do(t, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []CategoryResponse
	require.NoError(t, decodeBody(rec, &list))
	assert.Len(t, list, 2)

	ts.categories.InUse = func(id uuid.UUID) bool { return id == ts.category.ID }
	rec = ts.do(t, http.MethodDelete, "/api/categories/"+ts.category.ID.String(), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Category still has learning items", errorMessage(t, rec))

	rec = ts.do(t, http.MethodDelete, "/api/categories/"+math.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTagEndpoints(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	item := ts.createItem(t, "Go in Action")

	rec := ts.do(t, http.MethodPost, "/api/tags", CreateTagRequest{Name: "  Golang "})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var tag TagResponse
	require.NoError(t, decodeBody(rec, &tag))
	assert.Equal(t, "golang", tag.Name)

	tagPath := "/api/items/" + item.ID.String() + "/tags/" + tag.ID.String()
	for i := 0; i < 2; i++ {
		rec = ts.do(t, http.MethodPut, tagPath, nil)
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	}
	assert.True(t, ts.tags.IsAttached(tag.ID, item.ID))

	rec = ts.do(t, http.MethodGet, "/api/items/"+item.ID.String()+"/tags", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var itemTags []TagResponse
	require.NoError(t, decodeBody(rec, &itemTags))
	require.Len(t, itemTags, 1)

	rec = ts.do(t, http.MethodPut, "/api/items/"+item.ID.String()+"/tags/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodDelete, tagPath, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, ts.tags.IsAttached(tag.ID, item.ID))

	rec = ts.do(t, http.MethodGet, "/api/tags", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"golang"`))

	rec = ts.do(t, http.MethodDelete, "/api/tags/"+tag.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRefreshProgressEndpoint(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	item := ts.createItem(t, "SICP", "Ch1", "Ch2", "Ch3")

	module := ts.modules.Get(item.Modules[0].ID)
	require.NoError(t, module.UpdateStatus(domain.ModuleStatusDone))
	ts.modules.Put(module)

	rec := ts.do(t, http.MethodPost, "/api/items/"+item.ID.String()+"/progress/refresh", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var refreshed ItemResponse
	require.NoError(t, decodeBody(rec, &refreshed))
	assert.Equal(t, 33.33, refreshed.Progress)
}
