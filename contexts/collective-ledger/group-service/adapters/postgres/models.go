package postgresadapter

import (
	"strings"
	"time"

	"commonfund/contexts/collective-ledger/group-service/domain/entities"
)

type groupModel struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;size:255"`
	Description string    `gorm:"column:description"`
	Currency    string    `gorm:"column:currency;size:3"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (groupModel) TableName() string {
	return "groups"
}

func groupModelFromEntity(group entities.Group) groupModel {
	return groupModel{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		Currency:    group.Currency,
		CreatedAt:   group.CreatedAt,
		UpdatedAt:   group.UpdatedAt,
	}
}

func (m groupModel) toEntity() entities.Group {
	return entities.Group{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Currency:    m.Currency,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// Roles are stored as a comma-joined set; the set is small and only ever
// matched in Go, never in SQL.
type membershipModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	GroupID   int64     `gorm:"column:group_id;uniqueIndex:idx_memberships_group_user"`
	UserID    int64     `gorm:"column:user_id;uniqueIndex:idx_memberships_group_user"`
	Roles     string    `gorm:"column:roles;size:255"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (membershipModel) TableName() string {
	return "memberships"
}

func membershipModelFromEntity(membership entities.Membership) membershipModel {
	roles := make([]string, 0, len(membership.Roles))
	for _, role := range membership.Roles {
		roles = append(roles, string(role))
	}
	return membershipModel{
		ID:        membership.ID,
		GroupID:   membership.GroupID,
		UserID:    membership.UserID,
		Roles:     strings.Join(roles, ","),
		CreatedAt: membership.CreatedAt,
		UpdatedAt: membership.UpdatedAt,
	}
}

func (m membershipModel) toEntity() entities.Membership {
	var roles []entities.Role
	for _, role := range strings.Split(m.Roles, ",") {
		if role = strings.TrimSpace(role); role != "" {
			roles = append(roles, entities.Role(role))
		}
	}
	return entities.Membership{
		ID:        m.ID,
		GroupID:   m.GroupID,
		UserID:    m.UserID,
		Roles:     roles,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type grantModel struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ApplicationID int64     `gorm:"column:application_id;uniqueIndex:idx_grants_app_group"`
	GroupID       int64     `gorm:"column:group_id;uniqueIndex:idx_grants_app_group"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (grantModel) TableName() string {
	return "application_group_grants"
}

func (m grantModel) toEntity() entities.ApplicationGroupGrant {
	return entities.ApplicationGroupGrant{
		ID:            m.ID,
		ApplicationID: m.ApplicationID,
		GroupID:       m.GroupID,
		CreatedAt:     m.CreatedAt,
	}
}

type tierModel struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	GroupID     int64     `gorm:"column:group_id;index"`
	Name        string    `gorm:"column:name;size:255"`
	Description string    `gorm:"column:description"`
	Amount      int64     `gorm:"column:amount"`
	Currency    string    `gorm:"column:currency;size:3"`
	Interval    string    `gorm:"column:interval;size:8"`
	MaxQuantity int       `gorm:"column:max_quantity"`
	Goal        int64     `gorm:"column:goal"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (tierModel) TableName() string {
	return "tiers"
}

func tierModelFromEntity(tier entities.Tier) tierModel {
	return tierModel{
		ID:          tier.ID,
		GroupID:     tier.GroupID,
		Name:        tier.Name,
		Description: tier.Description,
		Amount:      tier.Amount,
		Currency:    tier.Currency,
		Interval:    tier.Interval,
		MaxQuantity: tier.MaxQuantity,
		Goal:        tier.Goal,
		CreatedAt:   tier.CreatedAt,
		UpdatedAt:   tier.UpdatedAt,
	}
}

func (m tierModel) toEntity() entities.Tier {
	return entities.Tier{
		ID:          m.ID,
		GroupID:     m.GroupID,
		Name:        m.Name,
		Description: m.Description,
		Amount:      m.Amount,
		Currency:    m.Currency,
		Interval:    m.Interval,
		MaxQuantity: m.MaxQuantity,
		Goal:        m.Goal,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
