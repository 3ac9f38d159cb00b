package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/gradeboard/gradeboard/core/account"
)

type accountRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	Role         string    `db:"role"`
	RecordID     string    `db:"record_id"`
	IsActive     bool      `db:"is_active"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	LastLogin    time.Time `db:"last_login"`
}

func (row accountRow) toAccount() account.Account {
	return account.Account(row)
}

type accountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) account.Repository {
	return &accountRepository{db: db}
}

func (repo *accountRepository) CreateAccount(ctx context.Context, acct account.Account) (account.Account, error) {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO account (id, name, username, email, role, record_id, is_active, password_hash, created_at, updated_at, last_login)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		acct.ID, acct.Name, acct.Username, acct.Email, acct.Role, acct.RecordID,
		acct.IsActive, acct.PasswordHash, acct.CreatedAt, acct.UpdatedAt, acct.LastLogin)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			switch pqErr.Constraint {
			case "account_username_key":
				return account.Account{}, account.ErrUsernameExists
			case "account_email_key":
				return account.Account{}, account.ErrEmailExists
			}
		}
		return account.Account{}, errors.Wrap(err, "inserting account")
	}
	return acct, nil
}

func (repo *accountRepository) get(ctx context.Context, query string, args ...interface{}) (account.Account, error) {
	var row accountRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return account.Account{}, account.ErrNotFound
		}
		return account.Account{}, errors.Wrap(err, "querying account")
	}
	return row.toAccount(), nil
}

func (repo *accountRepository) GetAccountByID(ctx context.Context, id string) (account.Account, error) {
	return repo.get(ctx, `SELECT * FROM account WHERE id = $1`, id)
}

func (repo *accountRepository) GetAccountByUsernameOrEmail(ctx context.Context, username string) (account.Account, error) {
	return repo.get(ctx, `SELECT * FROM account WHERE username = $1 OR email = $1`, username)
}

func (repo *accountRepository) GetAccountByEmail(ctx context.Context, email string) (account.Account, error) {
	return repo.get(ctx, `SELECT * FROM account WHERE email = $1`, email)
}

func (repo *accountRepository) UpdateAccount(ctx context.Context, acct account.Account) (account.Account, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE account SET name = $2, username = $3, email = $4, role = $5, record_id = $6,
		        is_active = $7, password_hash = $8, updated_at = $9, last_login = $10
		 WHERE id = $1`,
		acct.ID, acct.Name, acct.Username, acct.Email, acct.Role, acct.RecordID,
		acct.IsActive, acct.PasswordHash, acct.UpdatedAt, acct.LastLogin)
	if err != nil {
		return account.Account{}, errors.Wrap(err, "updating account")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return account.Account{}, account.ErrNotFound
	}
	return acct, nil
}
