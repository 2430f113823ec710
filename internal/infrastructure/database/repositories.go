package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/adpilot-app/adpilot-backend/internal/adapter/repository"
	domainRepo "github.com/adpilot-app/adpilot-backend/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	Purchase        domainRepo.PurchaseRepository
	PendingCheckout domainRepo.PendingCheckoutRepository
	Conversation    domainRepo.ConversationRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Purchase:        repository.NewPurchaseRepository(db, logger),
		PendingCheckout: repository.NewPendingCheckoutRepository(db, logger),
		Conversation:    repository.NewConversationRepository(db, logger),
	}
}
