package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit the dashboard sidebar and keep paths readable.
	MaxFolderNameLength = 255

	// MaxDeckNameLength is the maximum length for deck names.
	// Same as folder names so a deck can be renamed into a folder slot and back.
	MaxDeckNameLength = 255

	// MaxDeckDescriptionLength caps deck descriptions.
	MaxDeckDescriptionLength = 2000

	// MaxCardSideLength caps the text on either side of a card.
	MaxCardSideLength = 10000

	// MaxImportRows is the largest CSV accepted in a single import.
	MaxImportRows = 5000

	// MaxImportBytes limits the CSV request body (5MB).
	MaxImportBytes = 5 << 20
)
