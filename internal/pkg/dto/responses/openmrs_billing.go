package responses

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenMRSDateLayout is how the REST API renders audit dates.
const OpenMRSDateLayout = "2006-01-02T15:04:05.000-0700"

type BillableService struct {
	UUID          string         `json:"uuid"`
	Name          string         `json:"name"`
	ShortName     string         `json:"shortName,omitempty"`
	ServiceStatus string         `json:"serviceStatus,omitempty"`
	ServicePrices []ServicePrice `json:"servicePrices"`
}

type ServicePrice struct {
	UUID        string          `json:"uuid,omitempty"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	PaymentMode ResourceRef     `json:"paymentMode"`
}

// PriceNamed returns the first price whose name matches exactly.
func (s BillableService) PriceNamed(name string) (ServicePrice, bool) {
	for _, price := range s.ServicePrices {
		if price.Name == name {
			return price, true
		}
	}
	return ServicePrice{}, false
}

// CountPricesNamed is used to verify that price setup never duplicates an entry.
func (s BillableService) CountPricesNamed(name string) int {
	count := 0
	for _, price := range s.ServicePrices {
		if price.Name == name {
			count++
		}
	}
	return count
}

type PaymentMode struct {
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Retired     bool   `json:"retired,omitempty"`
}

type CashPoint struct {
	UUID        string      `json:"uuid"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Location    ResourceRef `json:"location"`
}

type Bill struct {
	UUID          string      `json:"uuid"`
	Display       string      `json:"display,omitempty"`
	ReceiptNumber string      `json:"receiptNumber,omitempty"`
	Status        string      `json:"status"`
	Patient       ResourceRef `json:"patient"`
	CashPoint     ResourceRef `json:"cashPoint"`
	Cashier       ResourceRef `json:"cashier"`
	LineItems     []LineItem  `json:"lineItems"`
	Payments      []Payment   `json:"payments"`
	DateCreated   string      `json:"dateCreated,omitempty"`
}

type LineItem struct {
	UUID            string          `json:"uuid,omitempty"`
	Item            string          `json:"item,omitempty"`
	BillableService ResourceRef     `json:"billableService"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	PriceName       string          `json:"priceName,omitempty"`
	PriceUUID       string          `json:"priceUuid,omitempty"`
	LineItemOrder   int             `json:"lineItemOrder"`
	PaymentStatus   string          `json:"paymentStatus,omitempty"`
}

type Payment struct {
	UUID           string          `json:"uuid,omitempty"`
	InstanceType   ResourceRef     `json:"instanceType"`
	Amount         decimal.Decimal `json:"amount"`
	AmountTendered decimal.Decimal `json:"amountTendered"`
}

func (l LineItem) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Total is the sum of price times quantity over all line items.
func (b Bill) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.LineItems {
		total = total.Add(item.Total())
	}
	return total
}

// CreatedAt parses DateCreated. ok is false when the date is missing or not
// in the REST date layout.
func (b Bill) CreatedAt() (time.Time, bool) {
	if b.DateCreated == "" {
		return time.Time{}, false
	}
	created, err := time.Parse(OpenMRSDateLayout, b.DateCreated)
	if err != nil {
		return time.Time{}, false
	}
	return created, true
}

// Newest returns the bill created last. Bills without a readable creation
// date never win over dated ones, and the first listed bill is kept when
// no date decides.
func Newest(bills []Bill) (Bill, bool) {
	if len(bills) == 0 {
		return Bill{}, false
	}
	newest := bills[0]
	newestAt, dated := newest.CreatedAt()
	for _, bill := range bills[1:] {
		createdAt, ok := bill.CreatedAt()
		if !ok {
			continue
		}
		if !dated || createdAt.After(newestAt) {
			newest, newestAt, dated = bill, createdAt, true
		}
	}
	return newest, true
}

// Tendered is the cumulative amount paid against the bill.
func (b Bill) Tendered() decimal.Decimal {
	tendered := decimal.Zero
	for _, payment := range b.Payments {
		tendered = tendered.Add(payment.AmountTendered)
	}
	return tendered
}

type Session struct {
	SessionID       string       `json:"sessionId"`
	Authenticated   bool         `json:"authenticated"`
	User            *SessionUser `json:"user,omitempty"`
	SessionLocation *ResourceRef `json:"sessionLocation,omitempty"`
	Locale          string       `json:"locale,omitempty"`
}

type SessionUser struct {
	UUID     string `json:"uuid"`
	Display  string `json:"display,omitempty"`
	Username string `json:"username,omitempty"`
}

type GeneratedIdentifier struct {
	Identifier string `json:"identifier"`
}
