package types

type SimpleRequestParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type AvailabilityQuery struct {
	RoomTypeID string `form:"roomTypeId" binding:"required,uuid"`
	CheckIn    string `form:"checkIn" binding:"required"`
	CheckOut   string `form:"checkOut" binding:"required"`
}

type CreateTransactionRequestBody struct {
	GuestID         string    `json:"guest_id" binding:"omitempty,uuid"`
	RoomID          string    `json:"room_id" binding:"required,uuid"`
	VoucherID       *string   `json:"voucher_id,omitempty"`
	TotalAmount     *float64  `json:"totalAmount" binding:"required"`
	ReferenceNo     string    `json:"reference_no" binding:"required,refno"`
	CheckIn         *FlexTime `json:"checkIn" binding:"required"`
	CheckOut        *FlexTime `json:"checkOut" binding:"required"`
	TransactionType string    `json:"transaction_type" binding:"required,txntype"`
	BasePrice       *float64  `json:"basePrice" binding:"required"`
	Discount        float64   `json:"discount,omitempty"`
	PaymentMethod   string    `json:"payment_method,omitempty"`
	Currency        string    `json:"currency,omitempty"`
}

type GuestTransactionsQuery struct {
	GuestID string `form:"guest_id" binding:"required,uuid"`
}

type BuyVoucherRequestBody struct {
	VoucherID string `json:"voucherId" binding:"required,uuid"`
}

type VoucherTypeParams struct {
	Type string `uri:"type" binding:"required"`
}

type CreateReviewRequestBody struct {
	Rate     int    `json:"rate" binding:"required,min=1,max=5"`
	RoomType string `json:"room_type" binding:"required,uuid"`
	Comment  string `json:"comment" binding:"required,max=200"`
}

type RoomTypeParams struct {
	RoomType string `uri:"room_type" binding:"required,uuid"`
}

type CreateGuestRequestBody struct {
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Gender       string `json:"gender,omitempty"`
	Address      string `json:"address,omitempty"`
	MobileNumber string `json:"mobileNumber,omitempty"`
}

type UpdateContactRequestBody struct {
	Address      string `json:"address" binding:"required"`
	MobileNumber string `json:"mobileNumber" binding:"required"`
}
