package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"workpay-backend/internal/adapters/persistence/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Actor identifies who triggered a state change, for the audit trail
type Actor struct {
	UserID uint
	IP     string
}

// notFound maps gorm.ErrRecordNotFound to the given domain error
func notFound(err error, domainErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}

// toJSON marshals v for a JSON column; nil becomes an empty object
func toJSON(v interface{}) (datatypes.JSON, error) {
	if v == nil {
		return datatypes.JSON("{}"), nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return datatypes.JSON(raw), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal json column: %w", err)
	}
	return datatypes.JSON(b), nil
}

// auditEntry builds an audit row attributed to the actor
func auditEntry(actor Actor, action, resource string, details interface{}) (*models.AuditLog, error) {
	payload, err := toJSON(details)
	if err != nil {
		return nil, err
	}
	return &models.AuditLog{
		UserID:    actor.UserID,
		Action:    action,
		Resource:  resource,
		Details:   payload,
		IPAddress: actor.IP,
	}, nil
}
