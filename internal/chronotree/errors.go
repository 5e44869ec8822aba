package chronotree

import "errors"

// Error kinds named by the Storage and replica contract. Callers use
// errors.Is against these sentinels; the engine itself never catches or
// retries them.
var (
	// ErrUnknownHash is returned by GetNode when the hash is not in
	// known_nodes.
	ErrUnknownHash = errors.New("chronotree: unknown hash")

	// ErrStorageNotFound is returned when Storage.Find cannot retrieve
	// an ancestor hash referenced by a known or fetched node. Fatal for
	// the operation in progress.
	ErrStorageNotFound = errors.New("chronotree: storage: not found")

	// ErrStorageSaveFailure is returned when Storage.Save fails. Fatal
	// for the operation in progress.
	ErrStorageSaveFailure = errors.New("chronotree: storage: save failed")

	// ErrInvalidInput is reserved for future validation (for example,
	// Add on a Node whose Parent is unknown). Add currently does not
	// enforce this — see the silent-accept policy documented on Add.
	ErrInvalidInput = errors.New("chronotree: invalid input")
)
