package constvars

const (
	ResourcePatient          = "patient"
	ResourceBill             = "bill"
	ResourceBillableService  = "billableService"
	ResourcePaymentMode      = "paymentMode"
	ResourceCashPoint        = "cashPoint"
	ResourceSession          = "session"
	ResourceIdentifierSource = "idgen/identifiersource"
	ResourceIdentifier       = "identifier"
)

const (
	BillingModuleBilling = "billing"
	BillingModuleCashier = "cashier"
)

const (
	SessionCookieName = "JSESSIONID"
	DefaultLocale     = "en"
)

const (
	QueryParamView    = "v"
	QueryParamPurge   = "purge"
	QueryParamPatient = "patient"
	QueryViewFull     = "full"
	QueryValueTrue    = "true"
)

const (
	DefaultIdentifierSourceUUID = "8549f706-7e85-4c1d-9424-217d50a2988b"
	DefaultIdentifierTypeUUID   = "05a29f94-c0ed-11e2-94be-8c13b969e334"
)

const (
	BillStatusPending  = "PENDING"
	BillStatusPaid     = "PAID"
	BillStatusAdjusted = "ADJUSTED"
	BillStatusPosted   = "POSTED"
)

const (
	PaymentModeCash          = "Cash"
	DefaultServicePrice      = 30.0
	DefaultLineItemPrice     = 100.0
	DefaultLineItemPriceName = "Default"
	DefaultLineItemQuantity  = 1
)

const (
	TestPatientGivenNamePrefix  = "John"
	TestPatientFamilyNamePrefix = "Smith"
	TestPatientRandomNameBound  = 10000
	TestPatientAddress1         = "123 Test Street"
	TestPatientCityVillage      = "Test City"
	TestPatientStateProvince    = "Test State"
	TestPatientPostalCode       = "12345"
	TestPatientCountry          = "Test Country"
	TestPatientBirthdate        = "1990-01-01"
	TestPatientGender           = "M"
)

const (
	ReferenceNumberPrefix        = "REF"
	PartialReferenceNumberPrefix = "PARTIAL"
)
