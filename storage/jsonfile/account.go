package jsonfilestore

import (
	"context"
	"time"

	"github.com/gradeboard/gradeboard/core/account"
)

// storedAccount is the on-disk shape; the password hash is excluded from the
// domain model's JSON but must survive here.
type storedAccount struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	RecordID     string    `json:"recordId"`
	IsActive     bool      `json:"isActive"`
	PasswordHash []byte    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	LastLogin    time.Time `json:"lastLogin"`
}

func toStored(acct account.Account) storedAccount {
	return storedAccount(acct)
}

func fromStored(sa storedAccount) account.Account {
	return account.Account(sa)
}

type accountRepository struct {
	store *Store
}

func NewAccountRepository(store *Store) account.Repository {
	return &accountRepository{store: store}
}

func (repo *accountRepository) readAccounts() ([]storedAccount, error) {
	var accts []storedAccount
	if err := repo.store.readAll(accountsFile, &accts); err != nil {
		return nil, err
	}
	return accts, nil
}

func (repo *accountRepository) CreateAccount(_ context.Context, acct account.Account) (account.Account, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	accts, err := repo.readAccounts()
	if err != nil {
		return account.Account{}, err
	}
	for _, sa := range accts {
		if sa.Username == acct.Username {
			return account.Account{}, account.ErrUsernameExists
		}
		if sa.Email == acct.Email {
			return account.Account{}, account.ErrEmailExists
		}
	}

	accts = append(accts, toStored(acct))
	if err = repo.store.writeAll(accountsFile, accts); err != nil {
		return account.Account{}, err
	}
	return acct, nil
}

func (repo *accountRepository) GetAccountByID(_ context.Context, id string) (account.Account, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	accts, err := repo.readAccounts()
	if err != nil {
		return account.Account{}, err
	}
	for _, sa := range accts {
		if sa.ID == id {
			return fromStored(sa), nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (repo *accountRepository) GetAccountByUsernameOrEmail(_ context.Context, username string) (account.Account, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	accts, err := repo.readAccounts()
	if err != nil {
		return account.Account{}, err
	}
	for _, sa := range accts {
		if sa.Username == username || sa.Email == username {
			return fromStored(sa), nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (repo *accountRepository) GetAccountByEmail(_ context.Context, email string) (account.Account, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	accts, err := repo.readAccounts()
	if err != nil {
		return account.Account{}, err
	}
	for _, sa := range accts {
		if sa.Email == email {
			return fromStored(sa), nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (repo *accountRepository) UpdateAccount(_ context.Context, acct account.Account) (account.Account, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	accts, err := repo.readAccounts()
	if err != nil {
		return account.Account{}, err
	}
	for i, sa := range accts {
		if sa.ID == acct.ID {
			accts[i] = toStored(acct)
			if err = repo.store.writeAll(accountsFile, accts); err != nil {
				return account.Account{}, err
			}
			return acct, nil
		}
	}
	return account.Account{}, account.ErrNotFound
}
