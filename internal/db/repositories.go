package db

// Repositories provides access to all database repositories
type Repositories struct {
	Channels     *ChannelRepository
	CatalogItems *CatalogItemRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Channels:     NewChannelRepository(db),
		CatalogItems: NewCatalogItemRepository(db),
	}
}
