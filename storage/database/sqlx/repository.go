package sqlxrepos

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/hsandamith/School-Management-System/core"
	"github.com/hsandamith/School-Management-System/storage/database"
)

// repository holds the default executor and the query helpers shared by every repo.
// Queries are built with '?' placeholders and rebound for the driver in use.
type repository struct {
	db core.DBExecutor
}

func (repo repository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return repo.db
}

func (repo repository) get(ctx context.Context, exec core.DBExecutor, dest interface{}, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return exec.GetContext(ctx, dest, exec.Rebind(query), args...)
}

func (repo repository) selectAll(ctx context.Context, exec core.DBExecutor, dest interface{}, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return exec.SelectContext(ctx, dest, exec.Rebind(query), args...)
}

// insert runs b and returns the generated id.
func (repo repository) insert(ctx context.Context, exec core.DBExecutor, b sq.InsertBuilder) (int64, error) {
	query, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building query")
	}
	var id int64
	err = exec.QueryRowxContext(ctx, exec.Rebind(query), args...).Scan(&id)
	return id, err
}

// run executes b and returns the number of affected rows.
func (repo repository) run(ctx context.Context, exec core.DBExecutor, b sq.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building query")
	}
	res, err := exec.ExecContext(ctx, exec.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (repo repository) count(ctx context.Context, exec core.DBExecutor, b sq.SelectBuilder) (int, error) {
	var n int
	err := repo.get(ctx, exec, &n, b.Column("COUNT(*)"))
	return n, err
}

// trapNoRowsErr maps "no rows" to notFound and wraps anything else with msg.
func trapNoRowsErr(err error, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// lockClause returns "FOR UPDATE" on engines with row locks. sqlite serializes writers instead.
func lockClause(exec core.DBExecutor) string {
	if exec.DriverName() == database.SQLite {
		return ""
	}
	return "FOR UPDATE"
}

func contains(search string) string {
	return "%" + search + "%"
}

// fullName concatenates first and last name columns of alias.
func fullName(alias string) string {
	return alias + ".first_name || ' ' || " + alias + ".last_name"
}
