package postgresadapter

import (
	"context"
	"errors"
	"log/slog"

	"commonfund/contexts/collective-ledger/group-service/domain/entities"
	domainerrors "commonfund/contexts/collective-ledger/group-service/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
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
	return []any{&groupModel{}, &membershipModel{}, &grantModel{}, &tierModel{}}
}

func (r *Repository) CreateGroup(ctx context.Context, group entities.Group) (entities.Group, error) {
	row := groupModelFromEntity(group)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.Group{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetGroup(ctx context.Context, groupID int64) (entities.Group, error) {
	var row groupModel
	err := r.db.WithContext(ctx).
		Where("id = ?", groupID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Group{}, domainerrors.ErrGroupNotFound
		}
		return entities.Group{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateGroup(ctx context.Context, group entities.Group) error {
	result := r.db.WithContext(ctx).
		Model(&groupModel{}).
		Where("id = ?", group.ID).
		Updates(map[string]any{
			"name":        group.Name,
			"description": group.Description,
			"currency":    group.Currency,
			"updated_at":  group.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrGroupNotFound
	}
	return nil
}

func (r *Repository) AddMembership(ctx context.Context, membership entities.Membership) (entities.Membership, error) {
	row := membershipModelFromEntity(membership)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return entities.Membership{}, domainerrors.ErrMembershipExists
		}
		return entities.Membership{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetMembership(ctx context.Context, groupID int64, userID int64) (entities.Membership, error) {
	var row membershipModel
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Membership{}, domainerrors.ErrMembershipNotFound
		}
		return entities.Membership{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateMembership(ctx context.Context, membership entities.Membership) error {
	row := membershipModelFromEntity(membership)
	result := r.db.WithContext(ctx).
		Model(&membershipModel{}).
		Where("group_id = ? AND user_id = ?", membership.GroupID, membership.UserID).
		Updates(map[string]any{
			"roles":      row.Roles,
			"updated_at": row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrMembershipNotFound
	}
	return nil
}

func (r *Repository) RemoveMembership(ctx context.Context, groupID int64, userID int64) error {
	result := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&membershipModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrMembershipNotFound
	}
	return nil
}

func (r *Repository) ListUserGroups(ctx context.Context, userID int64) ([]entities.Group, error) {
	var rows []groupModel
	err := r.db.WithContext(ctx).
		Model(&groupModel{}).
		Joins("JOIN memberships ON memberships.group_id = groups.id").
		Where("memberships.user_id = ?", userID).
		Order("groups.id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	groups := make([]entities.Group, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, row.toEntity())
	}
	return groups, nil
}

func (r *Repository) CreateGrant(ctx context.Context, grant entities.ApplicationGroupGrant) (entities.ApplicationGroupGrant, error) {
	row := grantModel{
		ApplicationID: grant.ApplicationID,
		GroupID:       grant.GroupID,
		CreatedAt:     grant.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			// Granting twice is a no-op; return the existing grant.
			var existing grantModel
			lookupErr := r.db.WithContext(ctx).
				Where("application_id = ? AND group_id = ?", grant.ApplicationID, grant.GroupID).
				First(&existing).
				Error
			if lookupErr != nil {
				return entities.ApplicationGroupGrant{}, lookupErr
			}
			return existing.toEntity(), nil
		}
		return entities.ApplicationGroupGrant{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) HasGrant(ctx context.Context, applicationID int64, groupID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&grantModel{}).
		Where("application_id = ? AND group_id = ?", applicationID, groupID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) CreateTier(ctx context.Context, tier entities.Tier) (entities.Tier, error) {
	row := tierModelFromEntity(tier)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.Tier{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateTier(ctx context.Context, tier entities.Tier) error {
	row := tierModelFromEntity(tier)
	result := r.db.WithContext(ctx).
		Model(&tierModel{}).
		Where("id = ?", tier.ID).
		Updates(map[string]any{
			"name":         row.Name,
			"description":  row.Description,
			"amount":       row.Amount,
			"interval":     row.Interval,
			"max_quantity": row.MaxQuantity,
			"goal":         row.Goal,
			"updated_at":   row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTierNotFound
	}
	return nil
}

func (r *Repository) GetTier(ctx context.Context, tierID int64) (entities.Tier, error) {
	var row tierModel
	err := r.db.WithContext(ctx).
		Where("id = ?", tierID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Tier{}, domainerrors.ErrTierNotFound
		}
		return entities.Tier{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListTiers(ctx context.Context, groupID int64) ([]entities.Tier, error) {
	var rows []tierModel
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	tiers := make([]entities.Tier, 0, len(rows))
	for _, row := range rows {
		tiers = append(tiers, row.toEntity())
	}
	return tiers, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
