package services

import (
	"fmt"
	"strings"

	"courier/domain"
	"courier/errors"
	"courier/repositories"
)

type IGroupService interface {
	Create(name string, creator domain.UserID) (domain.Group, error)
	List() ([]domain.Group, error)
	Delete(id domain.GroupID, requester domain.UserID) error
}

type GroupService struct {
	groups repositories.IGroupRepository
}

func NewGroupService(groups repositories.IGroupRepository) *GroupService {
	return &GroupService{groups: groups}
}

func (s *GroupService) Create(name string, creator domain.UserID) (domain.Group, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Group{}, fmt.Errorf("%w: group name is required", errors.ErrBadRequest)
	}
	return s.groups.Create(name, creator)
}

func (s *GroupService) List() ([]domain.Group, error) {
	return s.groups.List()
}

// Delete is creator-gated; the repository performs the check and the
// message cascade atomically.
func (s *GroupService) Delete(id domain.GroupID, requester domain.UserID) error {
	return s.groups.Delete(id, requester)
}
