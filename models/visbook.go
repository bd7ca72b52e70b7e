package models

// LoginMethod selects the channel Visbook uses to deliver the one-time code.
type LoginMethod string

const (
	LoginMethodEmail LoginMethod = "email"
	LoginMethodSMS   LoginMethod = "sms"
)

// PaymentType mirrors Visbook's checkout payment options.
type PaymentType string

const (
	PaymentNoOnlinePayment PaymentType = "noOnlinePayment"
	PaymentNetAxept        PaymentType = "netAxept"
	PaymentPartialPayment  PaymentType = "partialPayment"
	PaymentInvoice         PaymentType = "invoice"
)

// CheckoutStatus mirrors Visbook's terminal checkout outcomes.
type CheckoutStatus string

const (
	CheckoutOK                        CheckoutStatus = "ok"
	CheckoutSomeReservationsExpired   CheckoutStatus = "someReservationsExpired"
	CheckoutNoPayment                 CheckoutStatus = "noPayment"
	CheckoutInvoicePayment            CheckoutStatus = "invoicePayment"
	CheckoutPaymentWithGiftcardsError CheckoutStatus = "paymentWithGiftcardsError"
)

// LoginCredentials carries the guest contact point for code delivery.
// Email is required for the email method; PhoneNumber and CountryCode for SMS.
type LoginCredentials struct {
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
}

// ReservationAddon is an additional service or merchandise line on a reservation.
type ReservationAddon struct {
	ID                 string `json:"id"`
	EncryptedCompanyID string `json:"encryptedCompanyId"`
	Count              int    `json:"count"`
}

// ReservationRequest is the payload for creating a product reservation.
type ReservationRequest struct {
	FromDate               string             `json:"fromDate"`
	ToDate                 string             `json:"toDate"`
	PriceID                string             `json:"priceId"`
	NumberOfPeople         int                `json:"numberOfPeople"`
	Notes                  string             `json:"notes,omitempty"`
	GuestsNames            []string           `json:"guestsNames,omitempty"`
	GuestsAges             []int              `json:"guestsAges,omitempty"`
	AdditionalServices     []ReservationAddon `json:"additionalServices,omitempty"`
	AdditionalMerchandises []ReservationAddon `json:"additionalMerchandises,omitempty"`
	WebProductID           string             `json:"webProductId"`
}

// CreateReservationResult is Visbook's answer to a reservation creation.
type CreateReservationResult struct {
	ReservationID      string `json:"reservationId"`
	EncryptedCompanyID string `json:"encryptedCompanyId"`
}

// CheckoutReservationRef identifies one held reservation inside a checkout.
type CheckoutReservationRef struct {
	ReservationID      string `json:"reservationId"`
	EncryptedCompanyID string `json:"encryptedCompanyId"`
}

// Customer is the guest record Visbook expects at checkout.
type Customer struct {
	Company            string `json:"company,omitempty"`
	City               string `json:"city,omitempty"`
	Country            string `json:"country,omitempty"`
	FirstName          string `json:"firstName,omitempty"`
	LastName           string `json:"lastName,omitempty"`
	Address            string `json:"address,omitempty"`
	Email              string `json:"email"`
	Phone              string `json:"phone,omitempty"`
	ZipCode            string `json:"zipCode,omitempty"`
	Mobile             string `json:"mobile,omitempty"`
	PassportNumber     string `json:"passportNumber,omitempty"`
	Title              string `json:"title,omitempty"`
	Extra1             string `json:"extra1,omitempty"`
	Extra2             string `json:"extra2,omitempty"`
	Extra3             string `json:"extra3,omitempty"`
	Extra4             string `json:"extra4,omitempty"`
	Extra5             string `json:"extra5,omitempty"`
	FollowupAccepted   bool   `json:"followupAccepted,omitempty"`
	OrganizationNumber string `json:"organizationNumber,omitempty"`
}

// CheckoutRequest completes one or more held reservations in a single order.
type CheckoutRequest struct {
	Reservations      []CheckoutReservationRef `json:"reservations"`
	SuccessURL        string                   `json:"successUrl"`
	ErrorURL          string                   `json:"errorUrl"`
	PaymentType       PaymentType              `json:"paymentType"`
	Amount            float64                  `json:"amount"`
	Customer          Customer                 `json:"customer"`
	AcceptedTerms     bool                     `json:"acceptedTerms"`
	ExternalReference string                   `json:"externalReference,omitempty"`
	Notes             string                   `json:"notes,omitempty"`
	Giftcards         []string                 `json:"giftcards,omitempty"`
}

// CheckoutResult is Visbook's answer to a checkout attempt.
type CheckoutResult struct {
	TerminalURL          string                   `json:"terminalUrl,omitempty"`
	CheckoutStatus       CheckoutStatus           `json:"checkoutStatus"`
	CustomerID           string                   `json:"customerId,omitempty"`
	GuestID              string                   `json:"guestId,omitempty"`
	ExpiredReservations  []CheckoutReservationRef `json:"expiredReservations,omitempty"`
	GiftcardsBalance     map[string]float64       `json:"giftcardsBalance,omitempty"`
}
