package service

import (
	"github.com/google/uuid"

	"github.com/noah-isme/notebook-api/internal/models"
)

// gradeTypeNamespace seeds the name-based IDs of catalog options. It must
// never change: clients round-trip the generated IDs across requests and
// process restarts.
var gradeTypeNamespace = uuid.MustParse("9f2c1f6e-24d8-5b0a-8f6d-3a7c92e15b4d")

// GradeTypeCatalog projects the grade type enumeration into stable
// (id, display name) options. IDs are UUIDv5 digests of the canonical enum
// name, so the same name always yields the same id without persistence.
type GradeTypeCatalog struct {
	options []models.GradeTypeOption
	types   []models.GradeType
}

// NewGradeTypeCatalog builds the catalog in enum declaration order.
func NewGradeTypeCatalog() *GradeTypeCatalog {
	types := models.GradeTypes()
	options := make([]models.GradeTypeOption, 0, len(types))
	for _, t := range types {
		options = append(options, models.GradeTypeOption{
			ID:   uuid.NewSHA1(gradeTypeNamespace, []byte(t)).String(),
			Name: t.Display(),
		})
	}
	return &GradeTypeCatalog{options: options, types: types}
}

// Options returns every catalog option in declaration order.
func (c *GradeTypeCatalog) Options() []models.GradeTypeOption {
	out := make([]models.GradeTypeOption, len(c.options))
	copy(out, c.options)
	return out
}

// IDFor returns the stable identifier of a grade type.
func (c *GradeTypeCatalog) IDFor(t models.GradeType) string {
	return uuid.NewSHA1(gradeTypeNamespace, []byte(t)).String()
}

// Resolve maps a stable identifier back onto its grade type. The option
// list is small and fixed, so a linear scan is fine.
func (c *GradeTypeCatalog) Resolve(id string) (models.GradeType, bool) {
	for i, option := range c.options {
		if option.ID == id {
			return c.types[i], true
		}
	}
	return "", false
}
