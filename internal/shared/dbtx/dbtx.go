// Package dbtx lets gorm repositories and services share one database/sql
// transaction.
package dbtx

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Bind returns a gorm handle whose statements run on tx. A nil tx returns
// db unchanged.
func Bind(db *gorm.DB, tx *sql.Tx) *gorm.DB {
	if tx == nil {
		return db
	}
	bound := db.Session(&gorm.Session{
		Context:                context.Background(),
		SkipDefaultTransaction: true,
	})
	bound.Statement.ConnPool = tx
	return bound
}

// Unit is a transaction that is either owned by the caller (committed and
// rolled back here) or joined from an outer unit (left to its owner).
type Unit struct {
	Tx    *sql.Tx
	owned bool
	hooks *[]func()
}

// Begin joins outer when it is set, otherwise starts a new transaction on db.
func Begin(ctx context.Context, db *sql.DB, outer *Unit) (*Unit, error) {
	if outer != nil {
		return &Unit{Tx: outer.Tx, hooks: outer.hooks}, nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Unit{Tx: tx, owned: true, hooks: &[]func(){}}, nil
}

// Owned reports whether Commit actually commits.
func (u *Unit) Owned() bool {
	return u.owned
}

// AfterCommit registers fn to run once the owning unit has committed.
// Joined units hand fn to their owner.
func (u *Unit) AfterCommit(fn func()) {
	*u.hooks = append(*u.hooks, fn)
}

func (u *Unit) Commit() error {
	if !u.owned {
		return nil
	}
	if err := u.Tx.Commit(); err != nil {
		return err
	}
	hooks := *u.hooks
	*u.hooks = nil
	for _, fn := range hooks {
		fn()
	}
	return nil
}

// Rollback is safe to defer; it is a no-op after Commit and for joined units.
func (u *Unit) Rollback() {
	if !u.owned {
		return
	}
	_ = u.Tx.Rollback()
}
