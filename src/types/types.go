package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type JSONB map[string]any
type StringArray []string

func scanBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case nil:
		return nil, nil
	}
	return nil, errors.New("type assertion to []byte failed")
}

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, err := scanBytes(value)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		*a = JSONB{}
		return nil
	}
	return json.Unmarshal(b, a)
}

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		a = StringArray{}
	}
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *StringArray) Scan(value any) error {
	b, err := scanBytes(value)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		*a = StringArray{}
		return nil
	}
	return json.Unmarshal(b, a)
}

type PaymentDetails struct {
	ReferenceNo string `json:"reference_no"`
}

type Payment struct {
	Method      string         `json:"method"`
	Details     PaymentDetails `json:"details"`
	Amount      float64        `json:"amount"`
	Currency    string         `json:"currency"`
	Status      string         `json:"status"`
	ProcessedAt time.Time      `json:"processed_at"`
}

// Payments is stored as a single JSON column; records are written once at creation.
type Payments []Payment

func (a Payments) Value() (driver.Value, error) {
	if a == nil {
		a = Payments{}
	}
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *Payments) Scan(value any) error {
	b, err := scanBytes(value)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		*a = Payments{}
		return nil
	}
	return json.Unmarshal(b, a)
}

type RoomTypeStatus string

const (
	ROOM_TYPE_ACTIVE   RoomTypeStatus = "active"
	ROOM_TYPE_INACTIVE RoomTypeStatus = "inactive"
)

type FeatureStatus string

const (
	FEATURE_ACTIVE   FeatureStatus = "active"
	FEATURE_INACTIVE FeatureStatus = "inactive"
)

type Capability string

const (
	CAPABILITY_NONE Capability = "none"
	CAPABILITY_BED  Capability = "bed"
	CAPABILITY_WIFI Capability = "wifi"
	CAPABILITY_TV   Capability = "tv"
)

type RoomStatus string

const (
	ROOM_AVAILABLE   RoomStatus = "available"
	ROOM_OCCUPIED    RoomStatus = "occupied"
	ROOM_MAINTENANCE RoomStatus = "maintenance"
)

type TransactionType string

const (
	TRANSACTION_BOOKING     TransactionType = "Booking"
	TRANSACTION_RESERVATION TransactionType = "Reservation"
)

type TransactionStatus string

const (
	TRANSACTION_PENDING   TransactionStatus = "pending"
	TRANSACTION_RESERVED  TransactionStatus = "reserved"
	TRANSACTION_CONFIRMED TransactionStatus = "confirmed"
	TRANSACTION_BOOKED    TransactionStatus = "booked"
	TRANSACTION_CANCELLED TransactionStatus = "cancelled"
	TRANSACTION_COMPLETED TransactionStatus = "completed"
)

type PaymentStatus string

const (
	PAYMENT_PENDING PaymentStatus = "pending"
	PAYMENT_PAID    PaymentStatus = "paid"
)

type ClaimStatus string

const (
	CLAIM_UNUSED  ClaimStatus = "unused"
	CLAIM_USED    ClaimStatus = "used"
	CLAIM_EXPIRED ClaimStatus = "expired"
)

const VOUCHER_BUYABLE = "buyable"

type ReviewStatus string

const (
	REVIEW_PUBLISHED ReviewStatus = "published"
	REVIEW_PENDING   ReviewStatus = "pending"
	REVIEW_ARCHIVED  ReviewStatus = "archived"
)

type Role string

const (
	ROLE_GUEST    Role = "guest"
	ROLE_EMPLOYEE Role = "employee"
	ROLE_ADMIN    Role = "admin"
)

func (r Role) IsStaff() bool {
	return r == ROLE_EMPLOYEE || r == ROLE_ADMIN
}

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}
