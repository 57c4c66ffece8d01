package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./booknest.db"

	// DefaultSearchResults is the default page size for online catalog searches
	DefaultSearchResults = 20
)
