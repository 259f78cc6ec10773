package config

import (
	"context"
	"strings"

	"github.com/mmdatafocus/rentals_backend/appctx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LandlordGuardPlugin enforces multi-tenant isolation by automatically scoping
// queries/updates/deletes to the request's landlord_id when the model has a landlord_id column.
//
// NOTE:
// - This does NOT apply to Raw SQL queries. Those must include landlord_id manually.
// - Admin/internal bypass is explicit via context flags.
type LandlordGuardPlugin struct{}

func NewLandlordGuardPlugin() *LandlordGuardPlugin { return &LandlordGuardPlugin{} }

func (p *LandlordGuardPlugin) Name() string { return "landlord_guard" }

func (p *LandlordGuardPlugin) Initialize(db *gorm.DB) error {
	// Query
	if err := db.Callback().Query().Before("gorm:query").Register("landlord_guard:query", landlordGuardCallback); err != nil {
		return err
	}
	// Row (First/Take)
	if err := db.Callback().Row().Before("gorm:row").Register("landlord_guard:row", landlordGuardCallback); err != nil {
		return err
	}
	// Update
	if err := db.Callback().Update().Before("gorm:update").Register("landlord_guard:update", landlordGuardCallback); err != nil {
		return err
	}
	// Delete
	if err := db.Callback().Delete().Before("gorm:delete").Register("landlord_guard:delete", landlordGuardCallback); err != nil {
		return err
	}
	return nil
}

func landlordGuardCallback(db *gorm.DB) {
	if db == nil || db.Statement == nil {
		return
	}
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	if shouldBypassLandlordScope(ctx) {
		return
	}
	landlordID := landlordIdFromContext(ctx)
	if landlordID == "" {
		return
	}

	// Only apply if the current model/table includes a landlord_id column.
	if db.Statement.Schema == nil {
		return
	}
	hasLandlordID := false
	for _, f := range db.Statement.Schema.Fields {
		if strings.EqualFold(f.DBName, "landlord_id") {
			hasLandlordID = true
			break
		}
	}
	if !hasLandlordID {
		return
	}

	// Don't duplicate an explicit landlord filter.
	if whereHasLandlordID(db.Statement.Clauses["WHERE"]) {
		return
	}

	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: db.Statement.Table, Name: "landlord_id"},
				Value:  landlordID,
			},
		},
	})
}

func landlordIdFromContext(ctx context.Context) string {
	if v, ok := appctx.GetString(ctx, appctx.ContextKeyLandlordId); ok && v != "" {
		return v
	}
	return ""
}

func shouldBypassLandlordScope(ctx context.Context) bool {
	if v, ok := appctx.GetBool(ctx, appctx.ContextKeySkipLandlordScope); ok && v {
		return true
	}
	if v, ok := appctx.GetBool(ctx, appctx.ContextKeyIsAdmin); ok && v {
		return true
	}
	return false
}

func whereHasLandlordID(c clause.Clause) bool {
	if c.Expression == nil {
		return false
	}
	w, ok := c.Expression.(clause.Where)
	if !ok {
		return false
	}
	for _, e := range w.Exprs {
		if exprHasLandlordID(e) {
			return true
		}
	}
	return false
}

func exprHasLandlordID(e clause.Expression) bool {
	switch v := e.(type) {
	case clause.Eq:
		if col, ok := v.Column.(clause.Column); ok {
			return strings.EqualFold(col.Name, "landlord_id")
		}
		if col, ok := v.Column.(string); ok {
			return strings.EqualFold(col, "landlord_id")
		}
	case clause.Expr:
		return strings.Contains(strings.ToLower(v.SQL), "landlord_id")
	case clause.AndConditions:
		for _, sub := range v.Exprs {
			if exprHasLandlordID(sub) {
				return true
			}
		}
	}
	return false
}
