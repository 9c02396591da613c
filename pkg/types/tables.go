package types

// Collection names. Each names one store: <data_dir>/<name>.json for the
// json backend or the collection column for the sqlite backend.
const (
	CollectionContacts  = "contacts"
	CollectionInventory = "inventory"
	CollectionBooks     = "books"
	CollectionMembers   = "members"
	CollectionAccounts  = "accounts"
	CollectionShapes    = "shapes"
)

// StandardCollectionNames lists all collection names for enumeration.
var StandardCollectionNames = []string{
	CollectionContacts,
	CollectionInventory,
	CollectionBooks,
	CollectionMembers,
	CollectionAccounts,
	CollectionShapes,
}
