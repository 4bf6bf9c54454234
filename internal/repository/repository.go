package repository

import (
	"github.com/keithshino/one-on-one-supporter/internal/models"
)

// MemberRepository defines the interface for member data access
type MemberRepository interface {
	// List returns all members in stable creation order.
	List() ([]models.Member, error)

	// FindByID finds a member by id.
	FindByID(id string) (*models.Member, error)

	// FindByEmail finds a member by its exact email.
	FindByEmail(email string) (*models.Member, error)

	// Create creates a new member and returns the assigned id.
	Create(member *models.Member) error

	// Update applies a partial field update.
	Update(id string, fields map[string]interface{}) error

	// Delete soft deletes a member. Logs are deliberately not cascaded:
	// orphaned logs stay queryable by member id.
	Delete(id string) error
}

// LogRepository defines the interface for log data access. There is no
// delete operation: logs are never removed, only overwritten in place.
type LogRepository interface {
	// List returns all logs ordered by date descending.
	List() ([]models.Log, error)

	// ListByMemberIDs returns the logs of the given members, date descending.
	ListByMemberIDs(memberIDs []string) ([]models.Log, error)

	// FindByID finds a log by id.
	FindByID(id string) (*models.Log, error)

	// Create creates a new log and returns the assigned id.
	Create(log *models.Log) error

	// Update applies a partial field update.
	Update(id string, fields map[string]interface{}) error
}
