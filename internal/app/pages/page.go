// Package pages wraps the billing screens of the O3 SPA in page objects.
// Every gesture returns an error instead of failing a test directly, so the
// scenario runner decides which step broke.
package pages

import (
	"errors"
	"fmt"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"openmrs-billing-e2e/internal/pkg/tablerecord"
	"regexp"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// matching builds a case-insensitive pattern, playwright forwards the flag
// to the browser.
func matching(pattern string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + pattern)
}

// matchingLiteral is matching for a value typed by the caller, such as a
// service or payment mode name.
func matchingLiteral(value string) *regexp.Regexp {
	return matching(regexp.QuoteMeta(value))
}

func timeout(ms float64) *float64 {
	return playwright.Float(ms)
}

// actionError names the gesture that failed.
func actionError(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return exceptions.ErrBrowserAction(err, fmt.Sprintf(format, args...))
}

func isTimeout(err error) bool {
	return errors.Is(err, playwright.ErrTimeout)
}

func assertions(ms float64) playwright.PlaywrightAssertions {
	return playwright.NewPlaywrightAssertions(ms)
}

// visibleWithin is a soft check: it reports whether locator becomes visible
// within ms and only fails on errors other than the timeout.
func visibleWithin(locator playwright.Locator, ms float64) (bool, error) {
	err := locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: timeout(ms),
	})
	if err == nil {
		return true, nil
	}
	if isTimeout(err) {
		return false, nil
	}
	return false, err
}

// labelledValue reads the value rendered next to a label, following the
// label -> parent -> value element layout of the invoice header.
func labelledValue(label playwright.Locator) (string, error) {
	return labelledValueWithin(label, constvars.DefaultUITimeoutInMs)
}

func labelledValueWithin(label playwright.Locator, ms float64) (string, error) {
	value, err := label.Locator(constvars.SelectorParent).Locator(constvars.SelectorValueClass).
		TextContent(playwright.LocatorTextContentOptions{Timeout: timeout(ms)})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// labelledContainer reads the whole text of the element holding a label.
func labelledContainer(label playwright.Locator) (string, error) {
	return label.Locator(constvars.SelectorParent).TextContent()
}

// tableText returns the header texts and the cell texts of every body row.
func tableText(table playwright.Locator) ([]string, [][]string, error) {
	headers, err := table.Locator(constvars.SelectorTableHeaderCells).AllTextContents()
	if err != nil {
		return nil, nil, err
	}
	rows, err := bodyRows(table)
	return headers, rows, err
}

func bodyRows(table playwright.Locator) ([][]string, error) {
	rowLocators, err := table.Locator(constvars.SelectorTableBodyRows).All()
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(rowLocators))
	for _, row := range rowLocators {
		cells, err := row.Locator(constvars.SelectorTableCells).AllTextContents()
		if err != nil {
			return nil, err
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func tableRecords(table playwright.Locator, mapping tablerecord.Mapping) ([]tablerecord.Record, error) {
	headers, rows, err := tableText(table)
	if err != nil {
		return nil, err
	}
	return mapping.Records(headers, rows)
}

// chooseOption opens a combobox and picks the option whose name matches.
func chooseOption(page playwright.Page, combobox playwright.Locator, name *regexp.Regexp) error {
	if err := combobox.Click(); err != nil {
		return err
	}
	return page.GetByRole(*playwright.AriaRoleOption, playwright.PageGetByRoleOptions{Name: name}).First().Click()
}

// WaitForSuccessNotification waits for a toast carrying message, or for any
// success toast when message is empty.
func WaitForSuccessNotification(page playwright.Page, message string) error {
	notification := page.Locator(constvars.SelectorSuccessClass).First()
	if message != "" {
		notification = page.GetByText(message).First()
	}
	err := notification.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: timeout(constvars.DefaultUITimeoutInMs),
	})
	return actionError(err, "wait for notification %q", message)
}

// WaitForPageLoad waits for the DOM of the current navigation.
func WaitForPageLoad(page playwright.Page) error {
	err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateDomcontentloaded,
	})
	return actionError(err, "wait for page load")
}

// waitForNetworkIdle gives in-flight requests up to ms to settle. Running
// out of time is not an error, the data may have been served from cache.
func waitForNetworkIdle(page playwright.Page, ms float64) error {
	err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: timeout(ms),
	})
	if err != nil && !isTimeout(err) {
		return err
	}
	return nil
}

// VerifyBodyVisible asserts that the current page rendered something.
func VerifyBodyVisible(page playwright.Page) error {
	err := assertions(constvars.DefaultUITimeoutInMs).Locator(page.Locator(constvars.SelectorBody)).ToBeVisible()
	return actionError(err, "expect page body")
}
