package contracts

import (
	"context"

	"github.com/playwright-community/playwright-go"
)

// PageFactory hands out a page in a fresh, logged in browser context. The
// returned close function disposes of the context.
type PageFactory interface {
	NewPage(ctx context.Context) (playwright.Page, func() error, error)
}
