package pages

import (
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/tablerecord"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// BillRow is one line of the dashboard bill list.
type BillRow struct {
	BillDate    string
	Identifier  string
	PatientName string
	BilledItems string
}

var billListMapping = tablerecord.Mapping{
	{Field: "billDate", Headers: []string{"Bill date", "billDate", "Visit time"}, Optional: true},
	{Field: "identifier", Headers: []string{"Identifier"}, Optional: true},
	{Field: "patientName", Headers: []string{"Name"}},
	{Field: "billedItems", Headers: []string{"Billed Items", "billedItems"}, Optional: true},
}

type BillingDashboardPage struct {
	page   playwright.Page
	expect playwright.PlaywrightAssertions
}

func NewBillingDashboardPage(page playwright.Page) *BillingDashboardPage {
	return &BillingDashboardPage{
		page:   page,
		expect: assertions(constvars.DefaultUITimeoutInMs),
	}
}

func (p *BillingDashboardPage) BillsTable() playwright.Locator {
	return p.page.GetByRole(*playwright.AriaRoleTable).First()
}

func (p *BillingDashboardPage) FilterDropdown() playwright.Locator {
	return p.page.GetByRole(*playwright.AriaRoleCombobox, playwright.PageGetByRoleOptions{Name: matching("filter by")})
}

func (p *BillingDashboardPage) Goto() error {
	_, err := p.page.Goto(constvars.PathBillingDashboard)
	return actionError(err, "open billing dashboard")
}

// WaitForBillsTableToLoad waits for the table and then, best effort, for
// the bill request to finish.
func (p *BillingDashboardPage) WaitForBillsTableToLoad() error {
	err := p.BillsTable().WaitFor(playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateVisible,
	})
	if err != nil {
		return actionError(err, "wait for bills table")
	}
	return actionError(waitForNetworkIdle(p.page, constvars.TableResponseTimeoutInMs), "wait for bills request")
}

func (p *BillingDashboardPage) VerifyFilterVisible() error {
	return actionError(p.expect.Locator(p.FilterDropdown()).ToBeVisible(), "expect filter dropdown visible")
}

// SelectFilter switches the list between constvars.FilterAllBills,
// FilterPendingBills and FilterPaidBills.
func (p *BillingDashboardPage) SelectFilter(filter string) error {
	if err := p.FilterDropdown().Click(); err != nil {
		return actionError(err, "open bill filter")
	}
	err := p.page.GetByRole(*playwright.AriaRoleOption, playwright.PageGetByRoleOptions{Name: filter}).Click()
	return actionError(err, "select filter %q", filter)
}

func (p *BillingDashboardPage) BillRowByPatientName(patientName string) playwright.Locator {
	return p.BillsTable().Locator(constvars.SelectorTableBodyRows).Filter(playwright.LocatorFilterOptions{
		HasText: patientName,
	})
}

func (p *BillingDashboardPage) ClickPatientNameLink(patientName string) error {
	err := p.BillRowByPatientName(patientName).GetByRole(*playwright.AriaRoleLink, playwright.LocatorGetByRoleOptions{
		Name: patientName,
	}).First().Click()
	return actionError(err, "open bill of %q", patientName)
}

// VerifyBillInTable asserts that the patient's row is shown or, with
// visible false, that it is not.
func (p *BillingDashboardPage) VerifyBillInTable(patientName string, visible bool) error {
	row := p.expect.Locator(p.BillRowByPatientName(patientName))
	if visible {
		return actionError(row.ToBeVisible(), "expect bill of %q listed", patientName)
	}
	return actionError(row.ToBeHidden(), "expect bill of %q not listed", patientName)
}

func (p *BillingDashboardPage) BillsInTable() ([]BillRow, error) {
	records, err := tableRecords(p.BillsTable(), billListMapping)
	if err != nil {
		return nil, actionError(err, "read bill list")
	}
	bills := make([]BillRow, 0, len(records))
	for _, record := range records {
		bills = append(bills, BillRow{
			BillDate:    record.Get("billDate"),
			Identifier:  record.Get("identifier"),
			PatientName: record.Get("patientName"),
			BilledItems: record.Get("billedItems"),
		})
	}
	return bills, nil
}

// FindBillRow returns the first row listing patientName, compared without
// regard to case or surrounding blanks.
func FindBillRow(rows []BillRow, patientName string) (BillRow, bool) {
	for _, row := range rows {
		if strings.EqualFold(strings.TrimSpace(row.PatientName), strings.TrimSpace(patientName)) {
			return row, true
		}
	}
	return BillRow{}, false
}
