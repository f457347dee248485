package storage

import "context"

// Collection keys. The engine persists whole collections as single values,
// mirroring the original single-tenant key-value layout.
const (
	KeyIngredients = "ingredients"
	KeyRecipes     = "recipes"
	KeyProducts    = "products"
)

// Store is a persisted mapping from string key to a JSON-serializable value.
// Load unmarshals the stored value into dest and reports whether the key
// existed. Save replaces the value for key as one unit.
type Store interface {
	Load(ctx context.Context, key string, dest any) (bool, error)
	Save(ctx context.Context, key string, value any) error
}
