package postgresadapter

import (
	"time"

	"commonfund/contexts/identity-access/principal-service/domain/entities"
)

type userModel struct {
	ID                   int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Email                string    `gorm:"column:email;size:255;uniqueIndex"`
	Name                 string    `gorm:"column:name;size:255"`
	PasswordHash         string    `gorm:"column:password_hash;size:255"`
	PreapprovalKey       string    `gorm:"column:preapproval_key;size:255"`
	PreapprovalConfirmed bool      `gorm:"column:preapproval_confirmed"`
	CreatedAt            time.Time `gorm:"column:created_at"`
	UpdatedAt            time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string {
	return "users"
}

func userModelFromEntity(user entities.User) userModel {
	return userModel{
		ID:                   user.ID,
		Email:                user.Email,
		Name:                 user.Name,
		PasswordHash:         user.PasswordHash,
		PreapprovalKey:       user.PreapprovalKey,
		PreapprovalConfirmed: user.PreapprovalConfirmed,
		CreatedAt:            user.CreatedAt,
		UpdatedAt:            user.UpdatedAt,
	}
}

func (m userModel) toEntity() entities.User {
	return entities.User{
		ID:                   m.ID,
		Email:                m.Email,
		Name:                 m.Name,
		PasswordHash:         m.PasswordHash,
		PreapprovalKey:       m.PreapprovalKey,
		PreapprovalConfirmed: m.PreapprovalConfirmed,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

type applicationModel struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;size:255"`
	APIKey      string    `gorm:"column:api_key;size:64;uniqueIndex"`
	AccessScore float64   `gorm:"column:access_score"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (applicationModel) TableName() string {
	return "applications"
}

func applicationModelFromEntity(app entities.Application) applicationModel {
	return applicationModel{
		ID:          app.ID,
		Name:        app.Name,
		APIKey:      app.APIKey,
		AccessScore: app.AccessScore,
		CreatedAt:   app.CreatedAt,
	}
}

func (m applicationModel) toApplicationEntity() entities.Application {
	return entities.Application{
		ID:          m.ID,
		Name:        m.Name,
		APIKey:      m.APIKey,
		AccessScore: m.AccessScore,
		CreatedAt:   m.CreatedAt,
	}
}
