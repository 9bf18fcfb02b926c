package service

import (
	"context"

	"github.com/school-erp/chat-service/internal/domain"
	"github.com/school-erp/chat-service/internal/repository"
)

// DirectoryService — фасад над справочником ERP для нужд чата.
type DirectoryService struct {
	directoryRepo repository.DirectoryRepository
}

func NewDirectoryService(directoryRepo repository.DirectoryRepository) *DirectoryService {
	return &DirectoryService{directoryRepo: directoryRepo}
}

func (s *DirectoryService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.directoryRepo.GetUser(ctx, id)
}

// ListPartners — кто доступен пользователю для начала личного чата.
func (s *DirectoryService) ListPartners(ctx context.Context, userID int64) ([]domain.User, error) {
	user, err := s.directoryRepo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.directoryRepo.ChatPartners(ctx, user)
}
