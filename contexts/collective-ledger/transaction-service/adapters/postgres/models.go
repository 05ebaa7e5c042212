package postgresadapter

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"commonfund/contexts/collective-ledger/transaction-service/domain/entities"
)

// Deleted transactions keep their row under deleted_at for audit; gorm's
// soft-delete hides them from every query this adapter runs.
type transactionModel struct {
	ID          int64          `gorm:"column:id;primaryKey;autoIncrement"`
	GroupID     int64          `gorm:"column:group_id;index:idx_transactions_group"`
	UserID      *int64         `gorm:"column:user_id;index:idx_transactions_user"`
	Beneficiary string         `gorm:"column:beneficiary;size:255"`
	Amount      int64          `gorm:"column:amount"`
	Currency    string         `gorm:"column:currency;size:3"`
	Description string         `gorm:"column:description"`
	State       string         `gorm:"column:state;size:32;index:idx_transactions_state"`
	PayKey      string         `gorm:"column:pay_key;size:255"`
	Approved    bool           `gorm:"column:approved"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (transactionModel) TableName() string {
	return "transactions"
}

func transactionModelFromEntity(tx entities.Transaction) transactionModel {
	return transactionModel{
		ID:          tx.ID,
		GroupID:     tx.GroupID,
		UserID:      tx.UserID,
		Beneficiary: tx.Beneficiary,
		Amount:      tx.Amount,
		Currency:    tx.Currency,
		Description: tx.Description,
		State:       string(tx.State),
		PayKey:      tx.PayKey,
		Approved:    tx.Approved,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}

func (m transactionModel) toEntity() entities.Transaction {
	return entities.Transaction{
		ID:          m.ID,
		GroupID:     m.GroupID,
		UserID:      m.UserID,
		Beneficiary: m.Beneficiary,
		Amount:      m.Amount,
		Currency:    m.Currency,
		Description: m.Description,
		State:       entities.State(m.State),
		PayKey:      m.PayKey,
		Approved:    m.Approved,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type activityModel struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Type          string    `gorm:"column:type;size:64"`
	GroupID       int64     `gorm:"column:group_id;index:idx_activities_group"`
	UserID        *int64    `gorm:"column:user_id;index:idx_activities_user"`
	TransactionID int64     `gorm:"column:transaction_id;index:idx_activities_transaction"`
	Data          string    `gorm:"column:data;type:jsonb"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (activityModel) TableName() string {
	return "activities"
}

func activityModelFromEntity(activity entities.Activity) (activityModel, error) {
	data := "{}"
	if len(activity.Data) > 0 {
		raw, err := json.Marshal(activity.Data)
		if err != nil {
			return activityModel{}, err
		}
		data = string(raw)
	}
	return activityModel{
		ID:            activity.ID,
		Type:          activity.Type,
		GroupID:       activity.GroupID,
		UserID:        activity.UserID,
		TransactionID: activity.TransactionID,
		Data:          data,
		CreatedAt:     activity.CreatedAt,
	}, nil
}

func (m activityModel) toEntity() entities.Activity {
	var data map[string]any
	if m.Data != "" && m.Data != "{}" {
		// Rows are written by activityModelFromEntity; malformed json here
		// means the column was edited out of band, and an empty map is the
		// least surprising reading.
		_ = json.Unmarshal([]byte(m.Data), &data)
	}
	return entities.Activity{
		ID:            m.ID,
		Type:          m.Type,
		GroupID:       m.GroupID,
		UserID:        m.UserID,
		TransactionID: m.TransactionID,
		Data:          data,
		CreatedAt:     m.CreatedAt,
	}
}
