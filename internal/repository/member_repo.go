package repository

import (
	"errors"

	"github.com/studyhub/studyhub-backend/internal/common"
	"github.com/studyhub/studyhub-backend/internal/domain"
	"gorm.io/gorm"
)

// MemberRepository member lookup interface. The messaging layer only needs
// id resolution; member CRUD lives in the auth subsystem.
type MemberRepository interface {
	FindByID(id string) (*domain.Member, error)
	ExistsByID(id string) (bool, error)
}

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// FindByID finds a member by ID
func (r *memberRepository) FindByID(id string) (*domain.Member, error) {
	var member domain.Member
	err := r.db.Where("id = ?", id).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return &member, nil
}

// ExistsByID reports whether a member with the given id exists
func (r *memberRepository) ExistsByID(id string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Member{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
