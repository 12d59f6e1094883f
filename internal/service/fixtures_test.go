package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/events"
	"github.com/phrazzld/learning-tracker/internal/mocks"
	"github.com/phrazzld/learning-tracker/internal/platform/logger"
	"github.com/stretchr/testify/require"
)

// eventRecorder collects emitted events for assertions.
type eventRecorder struct {
	mu     sync.Mutex
	events []*events.DomainEvent
}

func (r *eventRecorder) HandleEvent(_ context.Context, event *events.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

func (r *eventRecorder) last(t *testing.T) *events.DomainEvent {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.events, "no events recorded")
	return r.events[len(r.events)-1]
}

// fixture wires every service to in-memory stores.
type fixture struct {
	userID     uuid.UUID
	category   *domain.Category
	tx         *mocks.MockTransactor
	items      *mocks.MockLearningItemStore
	modules    *mocks.MockModuleStore
	deps       *mocks.MockDependencyStore
	categories *mocks.MockCategoryStore
	tags       *mocks.MockTagStore
	recorder   *eventRecorder
	emitter    *events.InMemoryEventEmitter
	logs       *logger.TestLogBuffer

	dependencies DependencyService
	moduleSvc    ModuleService
	itemSvc      LearningItemService
	categorySvc  CategoryService
	tagSvc       TagService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log, buf := logger.NewTestLogger()
	userID := uuid.New()
	category, err := domain.NewCategory(userID, "Backend", "#336699")
	require.NoError(t, err)

	f := &fixture{
		userID:     userID,
		category:   category,
		tx:         &mocks.MockTransactor{},
		items:      mocks.NewMockLearningItemStore(),
		modules:    mocks.NewMockModuleStore(),
		deps:       mocks.NewMockDependencyStore(),
		categories: mocks.NewMockCategoryStore(category),
		tags:       mocks.NewMockTagStore(),
		recorder:   &eventRecorder{},
		emitter:    events.NewInMemoryEventEmitter(log),
		logs:       buf,
	}
	f.emitter.RegisterHandler(f.recorder)
	f.items.OnDelete = func(id uuid.UUID) {
		f.modules.DeleteByLearningItemID(id)
		f.deps.DeleteByItemID(id)
	}

	f.dependencies, err = NewDependencyService(f.tx, f.items, f.deps, f.emitter, log)
	require.NoError(t, err)
	f.moduleSvc, err = NewModuleService(f.tx, f.items, f.modules, f.emitter, log)
	require.NoError(t, err)
	f.itemSvc, err = NewLearningItemService(f.tx, f.items, f.modules, f.categories, f.tags, f.emitter, log)
	require.NoError(t, err)
	f.categorySvc, err = NewCategoryService(f.categories, log)
	require.NoError(t, err)
	f.tagSvc, err = NewTagService(f.tags, f.items, log)
	require.NoError(t, err)
	return f
}

// addItem stores a backlog item owned by the fixture user.
func (f *fixture) addItem(t *testing.T, title string) *domain.LearningItem {
	t.Helper()
	return f.addItemFor(t, f.userID, title)
}

func (f *fixture) addItemFor(t *testing.T, userID uuid.UUID, title string) *domain.LearningItem {
	t.Helper()
	item, err := domain.NewLearningItem(userID, f.category.ID, title, domain.ItemKindCourse)
	require.NoError(t, err)
	f.items.Put(item)
	return item
}

// addModule stores a module in the given status at the next position.
func (f *fixture) addModule(
	t *testing.T,
	item *domain.LearningItem,
	title string,
	status domain.ModuleStatus,
) *domain.Module {
	t.Helper()
	counts, err := f.modules.CountByLearningItemID(context.Background(), item.ID)
	require.NoError(t, err)
	module, err := domain.NewModule(item.ID, title, counts.NextOrder)
	require.NoError(t, err)
	if status != domain.ModuleStatusPending {
		require.NoError(t, module.UpdateStatus(status))
	}
	f.modules.Put(module)
	return module
}
