package repository

import (
	"errors"

	"github.com/studyhub/studyhub-backend/internal/common"
	"github.com/studyhub/studyhub-backend/internal/domain"
	"gorm.io/gorm"
)

// CourseRepository course lookup interface. Course authoring lives in the
// course subsystem; messaging only validates course ids.
type CourseRepository interface {
	FindByID(id string) (*domain.Course, error)
	ExistsByID(id string) (bool, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

// FindByID finds a course by ID
func (r *courseRepository) FindByID(id string) (*domain.Course, error) {
	var course domain.Course
	err := r.db.Where("id = ?", id).First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}

// ExistsByID reports whether a course with the given id exists
func (r *courseRepository) ExistsByID(id string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Course{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
