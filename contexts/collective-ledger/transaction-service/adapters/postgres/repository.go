package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"commonfund/contexts/collective-ledger/transaction-service/domain/entities"
	domainerrors "commonfund/contexts/collective-ledger/transaction-service/domain/errors"
	"commonfund/contexts/collective-ledger/transaction-service/ports"
	"commonfund/internal/shared/listing"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Models lists the tables this adapter owns, for automigration.
func Models() []any {
	return []any{&transactionModel{}, &activityModel{}}
}

func (r *Repository) CreateTransaction(ctx context.Context, tx entities.Transaction) (entities.Transaction, error) {
	row := transactionModelFromEntity(tx)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.Transaction{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetTransaction(ctx context.Context, id int64) (entities.Transaction, error) {
	var row transactionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Transaction{}, domainerrors.ErrTransactionNotFound
		}
		return entities.Transaction{}, err
	}
	return row.toEntity(), nil
}

// TransitionState is the compare-and-swap behind every state machine edge.
// The WHERE clause carries the prior state, so of two concurrent writers
// exactly one update matches a row.
func (r *Repository) TransitionState(ctx context.Context, id int64, from, to entities.State, update ports.StateUpdate) (entities.Transaction, error) {
	changes := map[string]any{"state": string(to)}
	if update.PayKey != nil {
		changes["pay_key"] = *update.PayKey
	}
	if update.Approved != nil {
		changes["approved"] = *update.Approved
	}

	result := r.db.WithContext(ctx).
		Model(&transactionModel{}).
		Where("id = ? AND state = ?", id, string(from)).
		Updates(changes)
	if result.Error != nil {
		return entities.Transaction{}, result.Error
	}
	if result.RowsAffected == 0 {
		current, err := r.GetTransaction(ctx, id)
		if err != nil {
			return entities.Transaction{}, err
		}
		return entities.Transaction{}, &domainerrors.StateConflictError{Required: from, Actual: current.State}
	}
	return r.GetTransaction(ctx, id)
}

func (r *Repository) AttributeUser(ctx context.Context, id int64, userID *int64) (entities.Transaction, error) {
	result := r.db.WithContext(ctx).
		Model(&transactionModel{}).
		Where("id = ?", id).
		Update("user_id", userID)
	if result.Error != nil {
		return entities.Transaction{}, result.Error
	}
	if result.RowsAffected == 0 {
		return entities.Transaction{}, domainerrors.ErrTransactionNotFound
	}
	return r.GetTransaction(ctx, id)
}

// DeleteTransaction soft-deletes the transaction row and hard-deletes its
// activities in one database transaction. The state guard in the WHERE
// clause closes the race with a concurrent payment.
func (r *Repository) DeleteTransaction(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		result := dbtx.
			Where("id = ? AND state IN ?", id, []string{
				string(entities.StateCreated),
				string(entities.StateApproved),
			}).
			Delete(&transactionModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var row transactionModel
			err := dbtx.Where("id = ?", id).First(&row).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrTransactionNotFound
			}
			if err != nil {
				return err
			}
			return domainerrors.ErrSettledTransaction
		}
		return dbtx.Unscoped().
			Where("transaction_id = ?", id).
			Delete(&activityModel{}).
			Error
	})
}

func (r *Repository) ListGroupTransactions(ctx context.Context, groupID int64, page listing.Page) ([]entities.Transaction, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&transactionModel{}).
		Where("group_id = ?", groupID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []transactionModel
	if err := applyPage(base.Session(&gorm.Session{}), page).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	items := make([]entities.Transaction, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, total, nil
}

func (r *Repository) AppendActivity(ctx context.Context, activity entities.Activity) (entities.Activity, error) {
	row, err := activityModelFromEntity(activity)
	if err != nil {
		return entities.Activity{}, err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.Activity{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListGroupActivities(ctx context.Context, groupID int64, page listing.Page) ([]entities.Activity, int64, error) {
	return r.listActivities(ctx, "group_id = ?", groupID, page)
}

func (r *Repository) ListUserActivities(ctx context.Context, userID int64, page listing.Page) ([]entities.Activity, int64, error) {
	return r.listActivities(ctx, "user_id = ?", userID, page)
}

func (r *Repository) listActivities(ctx context.Context, filter string, arg int64, page listing.Page) ([]entities.Activity, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&activityModel{}).
		Where(filter, arg)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []activityModel
	if err := applyPage(base.Session(&gorm.Session{}), page).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	items := make([]entities.Activity, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, total, nil
}

// applyPage translates a parsed listing page into the query. Sort keys come
// from a per-resource allow-list, never straight from the request.
func applyPage(query *gorm.DB, page listing.Page) *gorm.DB {
	if page.Cursor {
		return query.
			Where("id > ?", page.SinceID).
			Order("id ASC")
	}
	direction := "DESC"
	if page.Sort.Direction == listing.DirectionAsc {
		direction = "ASC"
	}
	key := page.Sort.Key
	if key == "" || strings.ContainsAny(key, " ;") {
		key = "created_at"
	}
	return query.
		Order(fmt.Sprintf("%s %s, id ASC", key, direction)).
		Offset(page.Offset()).
		Limit(page.Limit())
}
