package doctor

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hay-kot/painel/internal/core/board"
	"github.com/hay-kot/painel/internal/core/kv"
	"github.com/hay-kot/painel/internal/data/stores"
)

// Querier runs a single-row query. *sql.DB satisfies it.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// StorageCheck verifies the local database and the document saved in it.
type StorageCheck struct {
	conn    Querier
	kv      kv.KV
	autofix bool
}

// NewStorageCheck creates a storage check. With autofix, an unreadable saved
// document is removed so the next start falls back to the default.
func NewStorageCheck(conn Querier, store kv.KV, autofix bool) *StorageCheck {
	return &StorageCheck{conn: conn, kv: store, autofix: autofix}
}

func (c *StorageCheck) Name() string {
	return "Local Storage"
}

func (c *StorageCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}
	result.Items = append(result.Items, c.checkIntegrity(ctx), c.checkDocument(ctx), c.checkEndpoint(ctx))
	return result
}

func (c *StorageCheck) checkIntegrity(ctx context.Context) CheckItem {
	var out string
	if err := c.conn.QueryRowContext(ctx, "PRAGMA quick_check").Scan(&out); err != nil {
		return CheckItem{Label: "database", Status: StatusFail, Detail: err.Error()}
	}
	if out != "ok" {
		return CheckItem{Label: "database", Status: StatusFail, Detail: out}
	}
	return CheckItem{Label: "database", Status: StatusPass, Detail: "integrity ok"}
}

func (c *StorageCheck) checkDocument(ctx context.Context) CheckItem {
	item := CheckItem{Label: "saved document"}

	entry, err := c.kv.GetRaw(ctx, stores.DocumentKey)
	switch {
	case stores.IsNotFoundError(err):
		item.Status = StatusWarn
		item.Detail = "none saved, the default document is used"
		return item
	case err != nil:
		item.Status = StatusFail
		item.Detail = err.Error()
		return item
	}

	doc, err := board.Decode(entry.Value)
	if err != nil {
		item.Fixable = true
		if c.autofix {
			if delErr := c.kv.Delete(ctx, stores.DocumentKey); delErr != nil {
				item.Status = StatusFail
				item.Detail = fmt.Sprintf("unreadable and could not be removed: %v", delErr)
				return item
			}
			item.Status = StatusPass
			item.Detail = "unreadable document removed"
			return item
		}
		item.Status = StatusFail
		item.Detail = "unreadable, the default document is used instead"
		return item
	}

	item.Status = StatusPass
	item.Detail = fmt.Sprintf("%d outbound, %d inbound, saved %s",
		len(doc.Outbound), len(doc.Inbound), entry.UpdatedAt.Local().Format(time.DateTime))
	return item
}

func (c *StorageCheck) checkEndpoint(ctx context.Context) CheckItem {
	var url string
	err := c.kv.Get(ctx, stores.EndpointKey, &url)
	switch {
	case stores.IsNotFoundError(err):
		return CheckItem{Label: "saved endpoint", Status: StatusPass, Detail: "none, the configured endpoint is used"}
	case err != nil:
		return CheckItem{Label: "saved endpoint", Status: StatusFail, Detail: err.Error()}
	case url == "":
		return CheckItem{Label: "saved endpoint", Status: StatusPass, Detail: "offline"}
	default:
		return CheckItem{Label: "saved endpoint", Status: StatusPass, Detail: url}
	}
}
