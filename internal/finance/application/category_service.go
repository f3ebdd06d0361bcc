package application

import (
	"context"

	"github.com/sebuszqo/FinanceTracker/internal/apperrors"
	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
)

type CategoryService struct {
	repo domain.CategoryRepository
}

func NewCategoryService(repo domain.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// GetCategories lists the distinct categories the owner has used, optionally
// only those of one transaction type.
func (s *CategoryService) GetCategories(ctx context.Context, ownerID, transactionType string) ([]string, error) {
	if ownerID == "" {
		return nil, domain.ErrMissingOwner
	}
	if transactionType != "" && !domain.IsValidTransactionType(transactionType) {
		return nil, apperrors.NewValidationError("Invalid category type")
	}
	return s.repo.FindCategories(ctx, ownerID, transactionType)
}
