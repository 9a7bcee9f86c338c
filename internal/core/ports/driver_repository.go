package ports

import "context"

// DriverRepository reads the provisioned drivers.
type DriverRepository interface {
	// Exists reports whether id is a provisioned driver.
	Exists(ctx context.Context, id string) (bool, error)

	// List returns every driver id in ascending order.
	List(ctx context.Context) ([]string, error)

	// Provision creates the missing ids and leaves existing ones untouched.
	Provision(ctx context.Context, ids []string) error
}
