package store

import "github.com/kyr04i/depressing/internal/domain"

// Repo defines the operations on the deadline registry.
// Implementations must be safe for concurrent use.
type Repo interface {
	Set(d domain.Deadline)
	Delete(name string) bool
	Get(name string) (domain.Deadline, bool)
	Snapshot() []domain.Deadline
	Len() int
}
