package badger

import (
	"github.com/bobmcallan/vire-tracker/internal/common"
	"github.com/bobmcallan/vire-tracker/internal/config"
	"github.com/bobmcallan/vire-tracker/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger.
type Manager struct {
	db           *BadgerDB
	transactions interfaces.TransactionStore
	logger       *common.Logger
}

// NewManager creates a new Badger storage manager.
func NewManager(logger *common.Logger, cfg *config.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, cfg)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:           db,
		transactions: NewTransactionStorage(db, logger),
		logger:       logger,
	}

	logger.Debug().Msg("Badger storage manager initialized")

	return manager, nil
}

// TransactionStore returns the transaction ledger.
func (m *Manager) TransactionStore() interfaces.TransactionStore {
	return m.transactions
}

// Close closes the database connection.
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
