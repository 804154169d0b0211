package requests

type CreatePatient struct {
	Identifiers []PatientIdentifier `json:"identifiers" validate:"required,min=1,dive"`
	Person      PatientPerson       `json:"person"`
}

type PatientIdentifier struct {
	Identifier     string `json:"identifier" validate:"required"`
	IdentifierType string `json:"identifierType" validate:"required"`
	Location       string `json:"location"`
	Preferred      bool   `json:"preferred"`
}

type PatientPerson struct {
	Addresses          []PersonAddress `json:"addresses"`
	Attributes         []interface{}   `json:"attributes"`
	Birthdate          string          `json:"birthdate"`
	BirthdateEstimated bool            `json:"birthdateEstimated"`
	Dead               bool            `json:"dead"`
	Gender             string          `json:"gender"`
	Names              []PersonName    `json:"names"`
}

type PersonAddress struct {
	Address1      string `json:"address1"`
	Address2      string `json:"address2"`
	CityVillage   string `json:"cityVillage"`
	StateProvince string `json:"stateProvince"`
	PostalCode    string `json:"postalCode"`
	Country       string `json:"country"`
}

type PersonName struct {
	GivenName  string `json:"givenName"`
	MiddleName string `json:"middleName"`
	FamilyName string `json:"familyName"`
	Preferred  bool   `json:"preferred"`
}

// UpdateServicePrices replaces the whole price list of a billable service, so
// callers must send existing prices along with any new one.
type UpdateServicePrices struct {
	ServicePrices []ServicePrice `json:"servicePrices"`
}

type ServicePrice struct {
	UUID        string `json:"uuid,omitempty"`
	Name        string `json:"name"`
	Price       Amount `json:"price"`
	PaymentMode string `json:"paymentMode"`
}

type CreatePaymentMode struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type CreateBill struct {
	CashPoint string            `json:"cashPoint" validate:"required"`
	Cashier   string            `json:"cashier" validate:"required"`
	Patient   string            `json:"patient" validate:"required"`
	Status    string            `json:"status" validate:"required"`
	LineItems []BillLineItem    `json:"lineItems" validate:"required,min=1"`
	Payments  []BillPaymentItem `json:"payments"`
}

type BillLineItem struct {
	BillableService string `json:"billableService"`
	Quantity        int    `json:"quantity"`
	Price           Amount `json:"price"`
	PriceName       string `json:"priceName"`
	PriceUUID       string `json:"priceUuid"`
	Item            string `json:"item"`
	PaymentStatus   string `json:"paymentStatus"`
}

type BillPaymentItem struct {
	InstanceType   string `json:"instanceType"`
	Amount         Amount `json:"amount"`
	AmountTendered Amount `json:"amountTendered"`
}

type SetSessionLocation struct {
	SessionLocation string `json:"sessionLocation" validate:"required"`
	Locale          string `json:"locale,omitempty"`
}
