package api

import (
	"github.com/go-chi/chi/v5"
)

// Handlers groups the resource handlers served under /api.
type Handlers struct {
	Items        *ItemHandler
	Modules      *ModuleHandler
	Dependencies *DependencyHandler
	Categories   *CategoryHandler
	Tags         *TagHandler
}

// Mount registers every resource route on r. Authentication middleware is
// the caller's responsibility.
func (h *Handlers) Mount(r chi.Router) {
	r.Route("/items", func(r chi.Router) {
		r.Get("/", h.Items.ListItems)
		r.Post("/", h.Items.CreateItem)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Items.GetItem)
			r.Delete("/", h.Items.DeleteItem)
			r.Patch("/status", h.Items.UpdateItemStatus)
			r.Post("/progress/refresh", h.Items.RefreshProgress)

			r.Get("/modules", h.Modules.ListModules)
			r.Post("/modules", h.Modules.AddModules)
			r.Put("/modules/order", h.Modules.ReorderModules)

			r.Get("/dependencies", h.Dependencies.ListPrerequisites)
			r.Post("/dependencies", h.Dependencies.AddDependency)
			r.Get("/dependents", h.Dependencies.ListDependents)

			r.Get("/tags", h.Tags.ListItemTags)
			r.Put("/tags/{tagId}", h.Tags.AttachTag)
			r.Delete("/tags/{tagId}", h.Tags.DetachTag)
		})
	})

	r.Route("/modules/{id}", func(r chi.Router) {
		r.Patch("/", h.Modules.RenameModule)
		r.Delete("/", h.Modules.RemoveModule)
		r.Patch("/status", h.Modules.UpdateModuleStatus)
	})

	r.Post("/dependencies/check", h.Dependencies.CheckDependency)
	r.Delete("/dependencies/{id}", h.Dependencies.RemoveDependency)

	r.Get("/categories", h.Categories.ListCategories)
	r.Post("/categories", h.Categories.CreateCategory)
	r.Patch("/categories/{id}", h.Categories.UpdateCategory)
	r.Delete("/categories/{id}", h.Categories.DeleteCategory)

	r.Get("/tags", h.Tags.ListTags)
	r.Post("/tags", h.Tags.CreateTag)
	r.Delete("/tags/{id}", h.Tags.DeleteTag)
}
