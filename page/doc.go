// Package page groups blocks of equal position count into a Page, the batch
// exchanged between operators, and provides a PageBuilder that fills one
// block builder per channel.
package page
